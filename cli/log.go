package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vecu/log"
)

// logFormat applies the logger format as soon as kong decodes the flag, so
// that errors reported while parsing the rest of the command line already
// use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel applies the logger level as soon as kong decodes the flag.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                      help:"Set timestamp format."`
	Caller     bool      `default:"false"                                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// logFlag applies one logger flag during [logConfig.scan]. Exactly one of
// value and toggle is set; toggle flags accept a "no-" prefix.
type logFlag struct {
	value  func(*logConfig, string)
	toggle func(*logConfig, bool)
}

// logFlags maps the name of every flag in the log group, without its "log-"
// prefix, to the function that applies it.
//
//nolint:gochecknoglobals
var logFlags = map[string]logFlag{
	"level": {value: func(f *logConfig, s string) {
		_ = f.Level.UnmarshalText([]byte(s))
	}},
	"format": {value: func(f *logConfig, s string) {
		_ = f.Format.UnmarshalText([]byte(s))
	}},
	"time-layout": {value: func(f *logConfig, s string) {
		f.TimeLayout = s
		log.Config(log.WithTimeLayout(s))
	}},
	"caller": {toggle: func(f *logConfig, b bool) {
		f.Caller = b
		log.Config(log.WithCaller(b))
	}},
	"pretty": {toggle: func(f *logConfig, b bool) {
		f.Pretty = b
		log.Config(log.WithPretty(b))
	}},
}

// scan applies logger flags from args before kong parses them, so that the
// logger is configured regardless of where the flags appear. Only toggle
// flags strictly need this; kong decodes the others through
// encoding.TextUnmarshaler, but applying them here as well is harmless.
//
// Scanning stops at the "--" terminator. Malformed values are left for kong
// to report.
func (f *logConfig) scan(args []string) {
	const prefix = "log-"

	for i := 0; i < len(args); i++ {
		arg, ok := strings.CutPrefix(args[i], "--")
		if !ok {
			continue
		}

		if arg == "" {
			return
		}

		name, value, assigned := strings.Cut(arg, "=")

		name, negated := strings.CutPrefix(name, "no-")

		name, ok = strings.CutPrefix(name, prefix)
		if !ok {
			continue
		}

		flag, ok := logFlags[name]
		if !ok {
			continue
		}

		switch {
		case flag.toggle != nil:
			enable := true

			if assigned {
				b, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				enable = b
			}

			flag.toggle(f, enable != negated)

		case negated:
			continue

		default:
			if !assigned {
				if i+1 >= len(args) || strings.HasPrefix(args[i+1], "-") {
					continue
				}

				i++
				value = args[i]
			}

			flag.value(f, value)
		}
	}
}
