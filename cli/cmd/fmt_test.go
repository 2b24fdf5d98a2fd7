package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/vecu/lang"
)

func TestFmtRun(t *testing.T) {
	tests := []struct {
		name   string
		list   string
		indent int
		want   string
	}{
		{"empty", "[ ]", 0, "[]\n"},
		{"trailing_comma", "[0,1,@xs,4,5,]", 0, "[0, 1, @xs, 4, 5]\n"},
		{"indented", "[a, @b]", 2, "[\n  a,\n  @b,\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			f := Fmt{Indent: tt.indent, Source: listSource{List: []string{tt.list}}}
			if err := f.Run(WithOutput(context.Background(), &buf)); err != nil {
				t.Fatalf("Fmt.Run: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Fmt.Run output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFmtRun_InvalidSyntax(t *testing.T) {
	for _, list := range []string{"[1,,2]", "[@]", "[1, 2"} {
		t.Run(list, func(t *testing.T) {
			f := Fmt{Source: listSource{List: []string{list}}}

			err := f.Run(WithOutput(context.Background(), &bytes.Buffer{}))
			if !errors.Is(err, lang.ErrParse) {
				t.Errorf("Fmt.Run(%q) error = %v, want %v", list, err, lang.ErrParse)
			}
		})
	}
}

func TestGenRun(t *testing.T) {
	var buf bytes.Buffer

	g := Gen{
		Name:    "Values",
		Type:    "int",
		Package: "values",
		Source:  listSource{List: []string{"[0, 1, @rest, 4,]"}},
	}

	if err := g.Run(WithOutput(context.Background(), &buf)); err != nil {
		t.Fatalf("Gen.Run: %v", err)
	}

	got := buf.String()

	for _, want := range []string{
		"package values",
		"func Values() []int {",
		"r = append(r, _2...)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Gen.Run output missing %q:\n%s", want, got)
		}
	}
}

func TestGenRun_InvalidName(t *testing.T) {
	g := Gen{Name: "not valid", Type: "any", Source: listSource{List: []string{"[]"}}}

	err := g.Run(WithOutput(context.Background(), &bytes.Buffer{}))
	if !errors.Is(err, lang.ErrGenerate) {
		t.Errorf("Gen.Run error = %v, want %v", err, lang.ErrGenerate)
	}
}
