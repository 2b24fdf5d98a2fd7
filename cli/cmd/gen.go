package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/vecu/lang"
	"github.com/ardnew/vecu/log"
)

// Gen emits Go source that builds a list literal.
type Gen struct {
	Name    string `default:"v"   help:"Identifier of the generated variable or function" short:"n"`
	Type    string `default:"any" help:"Go element type"                                  short:"t"`
	Package string `              help:"Emit a complete file in this package"             short:"p"`

	Source listSource `embed:""`
}

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := g.Source.read(ctx)
	if err != nil {
		return err
	}

	list, err := lang.Parse(ctx, source, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "gen"))
	}

	return lang.Generate(outputFrom(ctx), list, lang.GenOptions{
		Name:    g.Name,
		Elem:    g.Type,
		Package: g.Package,
	})
}
