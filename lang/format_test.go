package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

func TestFormatResult(t *testing.T) {
	result := []any{0, "a", true, nil, []any{1, 2}}

	tests := []struct {
		name   string
		format OutputFormat
		indent int
		want   string
	}{
		{
			name:   "native",
			format: OutputNative,
			want:   "[0, \"a\", true, nil, [1, 2]]\n",
		},
		{
			name:   "json compact",
			format: OutputJSON,
			want:   "[0,\"a\",true,null,[1,2]]\n",
		},
		{
			name:   "json indented",
			format: OutputJSON,
			indent: 1,
			want:   "[\n 0,\n \"a\",\n true,\n null,\n [\n  1,\n  2\n ]\n]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder

			err := FormatResult(context.Background(), &sb, result, tt.format, tt.indent)
			if err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got := sb.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormatResult_YAML(t *testing.T) {
	result := []any{0, "a", []any{1, 2}}

	for _, indent := range []int{0, 2} {
		var sb strings.Builder

		err := FormatResult(context.Background(), &sb, result, OutputYAML, indent)
		if err != nil {
			t.Fatalf("format error: %v", err)
		}

		var got []any
		if err := yaml.Unmarshal([]byte(sb.String()), &got); err != nil {
			t.Fatalf("indent %d: decode error: %v", indent, err)
		}

		if diff := cmp.Diff(result, normalize(got)); diff != "" {
			t.Errorf("indent %d: round trip mismatch (-want +got):\n%s", indent, diff)
		}
	}
}

func TestFormatResult_Empty(t *testing.T) {
	var sb strings.Builder

	if err := FormatResult(context.Background(), &sb, nil, OutputJSON, 0); err != nil {
		t.Fatalf("format error: %v", err)
	}

	if got := sb.String(); got != "[]\n" {
		t.Errorf("expected %q, got %q", "[]\n", got)
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, name := range OutputFormats() {
		f, err := ParseOutputFormat(strings.ToUpper(name))
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}

		if f.String() != name {
			t.Errorf("expected %q, got %q", name, f.String())
		}
	}

	if _, err := ParseOutputFormat("xml"); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
