package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/vecu/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads a YAML mapping of
// flag names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Values are converted as follows:
//   - Keys may use hyphens ("log-level") or underscores ("log_level")
//   - Numbers and booleans are passed to kong as strings
//   - Sequences become comma-separated lists, with commas in members escaped
//   - Nested mappings are ignored
//
// Example config file:
//
//	log-level: debug
//	log-format: text
//	log_pretty: false
//	env:
//	  - ~/.config/vecu/env.yaml
//
// Command-line flags override config file values. A file that is not a YAML
// mapping is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var raw map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &raw); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration file",
					slog.Any("error", err))
			}

			return config{}, nil
		}

		cfg := make(config, len(raw))

		for key, val := range raw {
			if s, ok := flagString(val); ok {
				cfg[key] = s
			}
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]string

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	for _, name := range []string{
		flag.Name,
		strings.ReplaceAll(flag.Name, "-", "_"),
	} {
		if value, ok := r[name]; ok {
			return value, nil
		}
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagString renders a decoded YAML scalar or sequence as flag text.
func flagString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true

	case bool:
		return strconv.FormatBool(x), true

	case int, int64, uint64:
		return fmt.Sprint(x), true

	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true

	case []any:
		part := make([]string, 0, len(x))

		for _, e := range x {
			s, ok := flagString(e)
			if !ok {
				return "", false
			}

			part = append(part, strings.ReplaceAll(s, ",", `\,`))
		}

		return strings.Join(part, ","), true

	default:
		return "", false
	}
}
