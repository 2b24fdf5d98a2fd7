package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/vecu/lang"
	"github.com/ardnew/vecu/log"
)

// Fmt parses a list literal and prints its canonical form.
type Fmt struct {
	Indent int `default:"0" help:"Write one item per line at this indent width; 0 is a single line" short:"i"`

	Source listSource `embed:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	source, err := f.Source.read(ctx)
	if err != nil {
		return err
	}

	list, err := lang.Parse(ctx, source, lang.WithLogger(log.Default()))
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "fmt"))
	}

	return list.Format(outputFrom(ctx), f.Indent)
}
