// Package cmd implements the vecu subcommands: eval, fmt, gen, init, and
// repl.
//
// Commands that evaluate lists build their environment from the env files
// stored with [WithEnvFiles] followed by their own --set bindings.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file.
	ConfigIdentifier = "config"
)
