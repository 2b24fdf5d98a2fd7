// Package cli contains the command line interface for vecu.
//
// # Usage
//
// The default command expands a list literal given as arguments, with a
// file, or on stdin:
//
//	vecu '[0, 1, @xs, 4, 5,]' --set 'xs=[2, 3]'
//	vecu --env env.yaml --type int --output json -f list.txt
//	echo '[@paths(env("PATH"))]' | vecu -o yaml -i 2
//
// Other commands print the canonical form of a list (fmt), emit Go source
// that builds it (gen), write the configuration file (init), and start an
// interactive shell (repl).
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the
// configuration directory, ~/.config/vecu on Linux. Keys are flag names
// with hyphens or underscores:
//
//	log-level: debug
//	log_pretty: false
//	env: [~/.config/vecu/env.yaml]
//
// Command-line flags override config file values. vecu init writes the
// current global flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o vecu .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/vecu/pprof)
package cli
