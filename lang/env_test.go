package lang

import (
	"context"
	"errors"
	"math"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadEnv(t *testing.T) {
	src := "a: [1, 2]\nb: 1.5\nc: x\nd:\n  e: -3\n"

	env, err := LoadEnv(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	want := map[string]any{
		"a": []any{1, 2},
		"b": 1.5,
		"c": "x",
		"d": map[string]any{"e": -3},
	}

	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnv_LargeUnsigned(t *testing.T) {
	src := "big: 18446744073709551615\nmax: 9223372036854775807\n"

	env, err := LoadEnv(context.Background(), strings.NewReader(src))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}

	want := map[string]any{
		"big": uint64(math.MaxUint64),
		"max": math.MaxInt,
	}

	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("env mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_Unsigned(t *testing.T) {
	tests := []struct {
		in   any
		want any
	}{
		{in: uint8(7), want: 7},
		{in: uint64(math.MaxInt), want: math.MaxInt},
		{in: uint64(math.MaxInt) + 1, want: uint64(math.MaxInt) + 1},
		{in: uint(math.MaxUint), want: uint(math.MaxUint)},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, normalize(tt.in)); diff != "" {
			t.Errorf("normalize(%v) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestLoadEnv_Invalid(t *testing.T) {
	_, err := LoadEnv(context.Background(), strings.NewReader("- 1\n- 2\n"))
	if !errors.Is(err, ErrInvalidEnv) {
		t.Errorf("expected ErrInvalidEnv, got %v", err)
	}
}

func TestEvalValue(t *testing.T) {
	got, err := EvalValue("n * 2", map[string]any{"n": 21})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if got != 42 {
		t.Errorf("expected 42, got %v", got)
	}

	if _, err := EvalValue("1 +", nil); !errors.Is(err, ErrExprEvaluate) {
		t.Errorf("expected ErrExprEvaluate, got %v", err)
	}
}

func TestBuiltins(t *testing.T) {
	names := BuiltinNames()
	for _, want := range []string{"arch", "env", "os", "paths"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected builtin %q in %v", want, names)
		}
	}

	env := Builtins(map[string]any{"os": "shadowed"})
	if env["os"] != "shadowed" {
		t.Errorf("expected env to shadow builtin, got %v", env["os"])
	}

	if Builtins(nil)["os"] == "shadowed" {
		t.Error("shadowing leaked into the shared builtins")
	}
}

func TestPaths(t *testing.T) {
	sep := string(os.PathListSeparator)

	got := paths("a"+sep+"b", "c")
	for _, want := range []string{"a", "b", "c"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected %q in %v", want, got)
		}
	}

	for _, elem := range got {
		if elem == "" || strings.Contains(elem, sep) {
			t.Errorf("unexpected element %q in %v", elem, got)
		}
	}
}

func TestExpand_Builtins(t *testing.T) {
	t.Setenv("VECU_TEST_DIR", "/opt/x")

	got, err := Expand[string](context.Background(), `[env("VECU_TEST_DIR"), os]`, nil)
	if err != nil {
		t.Fatalf("expand error: %v", err)
	}

	if got[0] != "/opt/x" || got[1] == "" {
		t.Errorf("unexpected result %v", got)
	}
}
