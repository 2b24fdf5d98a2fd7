package lang

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"math"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/mung"
	"github.com/expr-lang/expr"
	"github.com/goccy/go-yaml"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	builtinOnce sync.Once
	builtin     map[string]any
)

// Builtins returns the built-in environment merged with env. Names in env
// shadow built-in names. The returned map is a fresh copy.
func Builtins(env map[string]any) map[string]any {
	builtinOnce.Do(func() {
		builtin = map[string]any{
			"os":    runtime.GOOS,
			"arch":  runtime.GOARCH,
			"env":   os.Getenv,
			"paths": paths,
		}
	})

	merged := maps.Clone(builtin)
	maps.Copy(merged, env)

	return merged
}

// BuiltinNames returns the names defined by [Builtins].
func BuiltinNames() []string {
	return slices.Sorted(maps.Keys(Builtins(nil)))
}

// paths splits a PATH-style list on the OS list separator after prepending
// prefix. Duplicate entries are removed.
func paths(list string, prefix ...string) []string {
	sep := string(os.PathListSeparator)

	joined := mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(sep),
		mung.WithPrefixItems(prefix...),
	).String()

	out := make([]string, 0, strings.Count(joined, sep)+1)

	for elem := range strings.SplitSeq(joined, sep) {
		if elem != "" {
			out = append(out, elem)
		}
	}

	return out
}

// LoadEnv decodes a YAML (or JSON) mapping into an environment.
// Integers decode as int and floats as float64 at every depth.
func LoadEnv(ctx context.Context, r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	env := make(map[string]any)

	if err := yaml.UnmarshalContext(ctx, data, &env); err != nil {
		return nil, ErrInvalidEnv.Wrap(err)
	}

	for name, v := range env {
		env[name] = normalize(v)
	}

	return env, nil
}

// EvalValue evaluates a single expression against the built-in environment
// merged with env.
func EvalValue(src string, env map[string]any) (any, error) {
	out, err := expr.Eval(src, Builtins(env))
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).With(slog.String("source", src))
	}

	return out, nil
}

// normalize converts decoded numbers to the types expr-lang literals have.
// Unsigned values that do not fit in int stay unsigned.
func normalize(v any) any {
	switch x := v.(type) {
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint:
		if x > math.MaxInt {
			return x
		}

		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint64:
		if x > math.MaxInt {
			return x
		}

		return int(x)
	case float32:
		return float64(x)
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}

		return x
	case map[string]any:
		for k := range x {
			x[k] = normalize(x[k])
		}

		return x
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[yamlKey(k)] = normalize(e)
		}

		return m
	default:
		return v
	}
}

func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}

	b, err := yaml.Marshal(k)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(b))
}
