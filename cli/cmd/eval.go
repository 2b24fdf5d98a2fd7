package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/vecu/lang"
	"github.com/ardnew/vecu/log"
)

// Eval expands a list literal and prints the result.
type Eval struct {
	Set      []string `help:"Bind NAME to the value of EXPR"                     placeholder:"NAME=EXPR" short:"s"`
	Type     string   `default:"any"    enum:"${elemTypeEnum}" help:"Element type of the result"       short:"t"`
	Output   string   `default:"native" enum:"${outputEnum}"   help:"Output format"                    short:"o"`
	Indent   int      `default:"0"                             help:"Indent width for json and yaml; 0 is compact" short:"i"`
	NoSpread bool     `help:"Reject spread items"`

	Source listSource `embed:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := e.Source.read(ctx)
	if err != nil {
		return err
	}

	elem, err := elemType(e.Type)
	if err != nil {
		return err
	}

	env, err := loadEnv(ctx, e.Set)
	if err != nil {
		return err
	}

	env = retype(env, elem)

	format, err := lang.ParseOutputFormat(e.Output)
	if err != nil {
		return err
	}

	prog, err := lang.CompileString(ctx, source,
		lang.WithEnv(env),
		lang.WithElemType(elem),
		lang.WithSpread(!e.NoSpread),
		lang.WithLogger(log.Default()),
	)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	result, err := prog.Run(ctx, env)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	return lang.FormatResult(ctx, outputFrom(ctx), result, format, e.Indent)
}
