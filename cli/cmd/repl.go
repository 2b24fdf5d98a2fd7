package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ardnew/vecu/cli/cmd/repl"
	"github.com/ardnew/vecu/log"
	"github.com/ardnew/vecu/pkg"
)

// Repl starts an interactive shell that expands each entered list.
type Repl struct {
	Set  []string `help:"Bind NAME to the value of EXPR" placeholder:"NAME=EXPR" short:"s"`
	Type string   `default:"any" enum:"${elemTypeEnum}" help:"Element type of results" short:"t"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	elem, err := elemType(r.Type)
	if err != nil {
		return err
	}

	env, err := loadEnv(ctx, r.Set)
	if err != nil {
		return err
	}

	env = retype(env, elem)

	cacheDir, ok := kongVar(ctx, CacheIdentifier)
	if !ok {
		cacheDir = filepath.Join(os.TempDir(), pkg.Name)
	}

	log.DebugContext(ctx, "repl",
		slog.Int("env", len(env)),
		slog.String("type", r.Type))

	return repl.Run(ctx, repl.Config{
		Env:      env,
		Elem:     elem,
		CacheDir: cacheDir,
		Logger:   log.Default(),
	})
}
