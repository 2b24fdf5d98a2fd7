package lang

import (
	"context"
	"log/slog"
	"reflect"
	"slices"
)

// Expand parses, compiles, and runs source with element type T and returns
// the typed result. Compiled programs are cached (see [CompileString]).
//
// The result is never nil on success.
func Expand[T any](
	ctx context.Context,
	source string,
	env map[string]any,
	opts ...Option,
) ([]T, error) {
	opts = slices.Concat(opts, []Option{WithEnv(env), WithElemType(reflect.TypeFor[T]())})

	prog, err := CompileString(ctx, source, opts...)
	if err != nil {
		return nil, err
	}

	out, err := prog.Run(ctx, env)
	if err != nil {
		return nil, err
	}

	return typed[T](out)
}

// typed copies elements into a []T. Compilation already proved every element
// assignable to T; conversion only covers named types sharing T's
// underlying type.
func typed[T any](in []any) ([]T, error) {
	out := make([]T, len(in))
	if res, ok := any(out).([]any); ok {
		copy(res, in)

		return out, nil
	}

	t := reflect.TypeFor[T]()

	for i, v := range in {
		if x, ok := v.(T); ok {
			out[i] = x

			continue
		}

		if v == nil {
			continue
		}

		rv := reflect.ValueOf(v)
		if !rv.Type().ConvertibleTo(t) {
			return nil, ErrTypeMismatch.With(
				slog.Int("index", i),
				slog.String("want", t.String()),
				slog.String("have", rv.Type().String()),
			)
		}

		out[i], _ = rv.Convert(t).Interface().(T)
	}

	return out, nil
}
