package lang

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  GenOptions
		want  []string
	}{
		{
			name:  "literal",
			input: "[1, 2, 3]",
			opts:  GenOptions{Elem: "int"},
			want:  []string{"var v = []int{1, 2, 3}"},
		},
		{
			name:  "empty",
			input: "[]",
			opts:  GenOptions{Name: "none", Elem: "string"},
			want:  []string{"var none = []string{}"},
		},
		{
			name:  "spread",
			input: "[0, @a, 4]",
			opts:  GenOptions{Elem: "int64"},
			want: []string{
				"var v = func() []int64 {",
				"var _0 int64 = 0",
				"_1 := a",
				"r = append(r, _0)",
				"r = append(r, _1...)",
				"return r",
			},
		},
		{
			name:  "package",
			input: `[@strings.Fields("a b"), "c"]`,
			opts:  GenOptions{Name: "Words", Elem: "string", Package: "words"},
			want: []string{
				"// Code generated by vecu; DO NOT EDIT.",
				"package words",
				`import "strings"`,
				"func Words() []string {",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var sb strings.Builder

			if err := Generate(&sb, list, tt.opts); err != nil {
				t.Fatalf("generate error: %v", err)
			}

			got := sb.String()
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}

			if strings.Contains(got, "package p\n") {
				t.Errorf("unexpected placeholder package in output:\n%s", got)
			}
		})
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  GenOptions
	}{
		{name: "bad name", input: "[1]", opts: GenOptions{Name: "1x"}},
		{name: "bad package", input: "[1]", opts: GenOptions{Package: "a-b"}},
		{name: "bad expression", input: "[1 +]", opts: GenOptions{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			var sb strings.Builder

			if err := Generate(&sb, list, tt.opts); !errors.Is(err, ErrGenerate) {
				t.Errorf("expected ErrGenerate, got %v", err)
			}
		})
	}
}
