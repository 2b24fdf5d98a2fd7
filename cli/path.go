package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/vecu/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// dirName returns the name of the per-user configuration and cache
// directories: the executable's base name without extension or leading dots.
// Debugger builds (dlv's __debug_binNNN) use [pkg.Name].
//
//nolint:gochecknoglobals
var dirName = sync.OnceValue(func() string {
	return exeDirName(os.Args[0], os.Executable)
})

var debugBin = regexp.MustCompile(`^__debug_bin\d*$`)

func exeDirName(arg0 string, exe func() (string, error)) string {
	if path, err := exe(); err == nil {
		arg0 = path
	}

	base := filepath.Base(arg0)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if debugBin.MatchString(base) {
		return pkg.Name
	}

	if base = strings.TrimLeft(base, "."); base == "" {
		return pkg.Name
	}

	return base
}

// userDir returns dirName under the directory reported by root. When root
// fails it uses fallback under the home directory, and then the working
// directory.
func userDir(root func() (string, error), fallback string) string {
	dir, err := root()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, dirName())
}

//nolint:gochecknoglobals
var (
	configDir = sync.OnceValue(func() string {
		return userDir(os.UserConfigDir, ".config")
	})
	cacheDir = sync.OnceValue(func() string {
		return userDir(os.UserCacheDir, ".cache")
	})
)

// configPath returns the absolute path to a file or directory formed by joining
// the configuration directory with the given path elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
