// Package log provides a small structured logging interface built on
// [log/slog].
//
// Loggers are created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
//	logger.Info("expanded", slog.Int("items", 4))
//
// Every level has a context-aware variant (InfoContext, DebugContext, ...).
// The context-unaware variants use [DefaultContextProvider].
//
// A process-wide default logger backs the package-level functions ([Info],
// [DebugContext], ...). [Config] replaces it with a copy carrying the given
// options, and [Default] returns it for handing to other packages.
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn], and [LevelError].
// Trace is below slog's Debug and renders as "TRACE".
//
// # Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled the
// output is colorized for terminals; JSON is also indented.
package log
