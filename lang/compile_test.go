package lang

import (
	"context"
	"errors"
	"iter"
	"reflect"
	"slices"
	"testing"
)

func compileString(t *testing.T, src string, opts ...Option) (*Program, error) {
	t.Helper()

	list, err := Parse(context.Background(), src, opts...)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	return Compile(context.Background(), list, opts...)
}

func TestCompile_TypeCheck(t *testing.T) {
	env := map[string]any{
		"xs":  []int{1, 2},
		"ys":  []any{1, 2},
		"n":   3,
		"m":   map[string]int{"a": 1},
		"it":  iter.Seq[int](slices.Values([]int{1})),
		"arr": [2]int{1, 2},
		"u":   map[string]any{"a": []any{1}},
	}

	tests := []struct {
		name  string
		input string
		elem  reflect.Type
		want  error
	}{
		{name: "int values", input: "[1, 2]", elem: reflect.TypeFor[int]()},
		{name: "string value", input: `[1, "a"]`, elem: reflect.TypeFor[int](), want: ErrTypeMismatch},
		{name: "float value", input: "[1.5]", elem: reflect.TypeFor[int](), want: ErrTypeMismatch},
		{name: "nil value", input: "[nil]", elem: reflect.TypeFor[int](), want: ErrTypeMismatch},
		{name: "nil slice value", input: "[nil]", elem: reflect.TypeFor[[]int]()},
		{name: "spread slice", input: "[@xs]", elem: reflect.TypeFor[int]()},
		{name: "spread array", input: "[@arr]", elem: reflect.TypeFor[int]()},
		{name: "spread iterator", input: "[@it]", elem: reflect.TypeFor[int]()},
		{name: "spread literal", input: "[@[1, 2]]", elem: reflect.TypeFor[int]()},
		{name: "spread mixed literal", input: `[@[1, "a"]]`, elem: reflect.TypeFor[int](), want: ErrTypeMismatch},
		{name: "spread scalar", input: "[@n]", elem: reflect.TypeFor[int](), want: ErrNotIterable},
		{name: "spread string", input: `[@"abc"]`, elem: reflect.TypeFor[int](), want: ErrNotIterable},
		{name: "spread map", input: "[@m]", elem: reflect.TypeFor[int](), want: ErrNotIterable},
		{name: "spread untyped elements", input: "[@ys]", elem: reflect.TypeFor[int](), want: ErrTypeUnknown},
		{name: "untyped value", input: "[ys[0]]", elem: reflect.TypeFor[int](), want: ErrTypeUnknown},
		{name: "undefined name", input: "[nope]", elem: reflect.TypeFor[int](), want: ErrExprCompile},
		{name: "any accepts values", input: `[1, "a", @[true], @ys]`, elem: nil},
		{name: "any spread scalar", input: "[@1]", elem: nil, want: ErrNotIterable},
		{name: "spread range", input: "[@0..2, 3]", elem: reflect.TypeFor[int]()},
		{name: "spread range mismatch", input: "[@0..2]", elem: reflect.TypeFor[string](), want: ErrTypeMismatch},
		{name: "spread mapped", input: "[@map(xs, # * 2)]", elem: reflect.TypeFor[int]()},
		{name: "spread mapped mismatch", input: "[@map(xs, string(#))]", elem: reflect.TypeFor[int](), want: ErrTypeMismatch},
		{name: "spread filter", input: "[@filter(xs, # > 1)]", elem: reflect.TypeFor[int]()},
		{name: "spread filter range", input: "[@filter(0..4, # > 1)]", elem: reflect.TypeFor[int]()},
		{name: "spread untyped member", input: "[@u.a]", elem: reflect.TypeFor[int](), want: ErrTypeUnknown},
		{name: "any spread untyped member", input: "[@u.a]", elem: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := compileString(t, tt.input, WithEnv(env), WithElemType(tt.elem))

			if tt.want == nil {
				if err != nil {
					t.Fatalf("compile error: %v", err)
				}

				if prog == nil {
					t.Fatal("expected program")
				}

				return
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if prog != nil {
				t.Error("expected no program on error")
			}
		})
	}
}

func TestCompile_ErrorAttrs(t *testing.T) {
	_, err := compileString(t, `[1, "a"]`, WithElemType(reflect.TypeFor[int]()))

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %v", err)
	}

	attrs := map[string]string{}
	for _, a := range e.Attrs() {
		attrs[a.Key] = a.Value.String()
	}

	if attrs["index"] != "1" {
		t.Errorf("expected index 1, got %q", attrs["index"])
	}

	if attrs["source"] != `"a"` {
		t.Errorf("expected source %q, got %q", `"a"`, attrs["source"])
	}
}

func TestCompile_LiteralPath(t *testing.T) {
	tests := []struct {
		input   string
		literal bool
	}{
		{input: "[]", literal: false},
		{input: "[0, 1, 2]", literal: true},
		{input: "[0, @[1], 2]", literal: false},
	}

	for _, tt := range tests {
		prog, err := compileString(t, tt.input)
		if err != nil {
			t.Fatalf("compile error: %v", err)
		}

		if got := prog.literal != nil; got != tt.literal {
			t.Errorf("%s: expected literal %v, got %v", tt.input, tt.literal, got)
		}
	}
}

func TestCompile_SpreadDisabled(t *testing.T) {
	list := &List{Items: []Item{{Kind: KindSpread, Source: "[1]"}}}

	_, err := Compile(context.Background(), list, WithSpread(false))
	if !errors.Is(err, ErrSpreadDisabled) {
		t.Errorf("expected ErrSpreadDisabled, got %v", err)
	}
}

func TestCompile_NilList(t *testing.T) {
	prog, err := Compile(context.Background(), nil)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	out, err := prog.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}

	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil result, got %#v", out)
	}
}

func TestError_Is(t *testing.T) {
	derived := ErrTypeMismatch.Wrap(errors.New("cause")).With()

	if !errors.Is(derived, ErrTypeMismatch) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrTypeUnknown) {
		t.Error("derived error should not match another sentinel")
	}

	if got := derived.Error(); got != "type mismatch: cause" {
		t.Errorf("expected %q, got %q", "type mismatch: cause", got)
	}
}
