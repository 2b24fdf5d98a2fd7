package lang

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"reflect"

	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/vecu/seq"
)

// Run evaluates the program's items strictly left to right, each exactly
// once, and returns the assembled result. Value items append their result;
// spread items extend with every element of theirs.
//
// Entries in env override the environment the program was compiled with and
// must have the same types. Names absent from env keep their compile-time
// values. A nil env runs against the compile-time environment unchanged.
//
// On failure no partial result is returned.
func (p *Program) Run(ctx context.Context, env map[string]any) ([]any, error) {
	runEnv, err := p.runEnv(env)
	if err != nil {
		return nil, err
	}

	if p.literal != nil {
		return p.runLiteral(ctx, runEnv)
	}

	b := seq.NewBuilder[any](len(p.items))

	for i, program := range p.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		it := p.list.Items[i]

		out, err := vm.Run(program, runEnv)
		if err != nil {
			return nil, itemError(ErrExprEvaluate.Wrap(err), i, it)
		}

		if !it.IsSpread() {
			b.Push(out)

			continue
		}

		if err := extend(b, out); err != nil {
			return nil, itemError(err, i, it)
		}
	}

	p.logger.TraceContext(ctx, "run complete", slog.Int("len", b.Len()))

	return b.Items(), nil
}

func (p *Program) runLiteral(ctx context.Context, env map[string]any) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := vm.Run(p.literal, env)
	if err != nil {
		return nil, p.literalError(ErrExprEvaluate.Wrap(err), err)
	}

	b := seq.NewBuilder[any](len(p.items))
	if err := extend(b, out); err != nil {
		return nil, err
	}

	p.logger.TraceContext(ctx, "run complete",
		slog.Int("len", b.Len()),
		slog.Bool("literal", true))

	return b.Items(), nil
}

func (p *Program) runEnv(env map[string]any) (map[string]any, error) {
	if env == nil {
		return p.env, nil
	}

	for name, v := range env {
		want, ok := p.types[name]
		if !ok {
			continue
		}

		if have := reflect.TypeOf(v); have != want {
			return nil, ErrTypeMismatch.With(
				slog.String("name", name),
				slog.String("want", typeName(want)),
				slog.String("have", typeName(have)),
			)
		}
	}

	merged := maps.Clone(p.env)
	maps.Copy(merged, env)

	return merged, nil
}

// extend appends every element of v to b in order.
func extend(b *seq.Builder[any], v any) *Error {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		b.Extend(s)

		return nil
	case iter.Seq[any]:
		b.ExtendSeq(s)

		return nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			b.Push(rv.Index(i).Interface())
		}

		return nil

	case reflect.Func:
		if _, ok := iterElem(rv.Type()); !ok {
			break
		}

		if rv.IsNil() {
			return nil
		}

		yield := reflect.MakeFunc(rv.Type().In(0),
			func(args []reflect.Value) []reflect.Value {
				b.Push(args[0].Interface())

				return []reflect.Value{reflect.ValueOf(true)}
			})

		rv.Call([]reflect.Value{yield})

		return nil
	}

	return ErrNotIterable.With(slog.String("type", rv.Type().String()))
}
