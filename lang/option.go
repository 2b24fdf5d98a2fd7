package lang

import (
	"maps"
	"reflect"

	"github.com/ardnew/vecu/log"
)

// Option configures parsing and compilation.
type Option func(config) config

type config struct {
	env      map[string]any
	elem     reflect.Type
	logger   log.Logger
	noSpread bool
}

var (
	anyType = reflect.TypeFor[any]()
	intType = reflect.TypeFor[int]()
)

func makeConfig(opts ...Option) config {
	cfg := config{elem: anyType}

	for _, opt := range opts {
		if opt != nil {
			cfg = opt(cfg)
		}
	}

	return cfg
}

// WithEnv adds named values to the expression environment.
// Later calls override earlier ones name by name.
func WithEnv(env map[string]any) Option {
	return func(c config) config {
		merged := make(map[string]any, len(c.env)+len(env))
		maps.Copy(merged, c.env)
		maps.Copy(merged, env)
		c.env = merged

		return c
	}
}

// WithElemType sets the element type every item must produce.
// A nil type selects any.
func WithElemType(t reflect.Type) Option {
	return func(c config) config {
		if t == nil {
			t = anyType
		}

		c.elem = t

		return c
	}
}

// WithSpread enables or disables the spread marker.
func WithSpread(enabled bool) Option {
	return func(c config) config {
		c.noSpread = !enabled

		return c
	}
}

// WithLogger sets the logger for trace output.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}
