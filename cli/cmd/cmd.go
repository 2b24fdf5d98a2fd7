package cmd

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/vecu/lang"
	"github.com/ardnew/vecu/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable name, if a kong.Context is available.
func kongVar(ctx context.Context, name string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[name]

	return v, ok
}

type outputKey struct{}

// WithOutput returns a new context.Context whose commands write to w.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

// outputFrom returns the writer stored by WithOutput, or os.Stdout.
func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

type (
	envFilesKey struct{}
	envFiles    struct {
		paths    []string
		hasStdin bool
	}
)

// IsZero reports whether there are no env files.
func (s *envFiles) IsZero() bool { return s == nil || (len(s.paths) == 0 && !s.hasStdin) }

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithEnvFiles returns a new context.Context containing the environment files
// loaded by commands that evaluate lists.
//
// Files are deduplicated by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin entry, which
// is read after all regular files.
func WithEnvFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, envFilesKey{}, buildEnvFiles(sources))
}

func envFilesFrom(ctx context.Context) *envFiles {
	f, _ := ctx.Value(envFilesKey{}).(*envFiles)

	return f
}

// buildEnvFiles resolves and deduplicates the given paths. Paths that cannot
// be resolved are kept as given so that loading reports the error.
func buildEnvFiles(sources []string) *envFiles {
	if len(sources) == 0 {
		return nil
	}

	var files envFiles

	seen := make(map[fileKey]struct{})

	stdinInfo, err := os.Stdin.Stat()
	stdinKey, stdinOK := fileKey{}, false

	if err == nil {
		stdinKey, stdinOK = makeFileKey(stdinInfo)
	}

	for _, src := range sources {
		if src == stdinSource {
			files.hasStdin = true

			continue
		}

		path, key, ok := resolveFile(src)
		if !ok {
			files.paths = append(files.paths, src)

			continue
		}

		if stdinOK && key == stdinKey {
			files.hasStdin = true

			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		files.paths = append(files.paths, path)
	}

	return &files
}

// resolveFile returns the symlink-free absolute path of path and its
// device/inode key.
func resolveFile(path string) (string, fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, false
	}

	key, ok := makeFileKey(info)

	return resolved, key, ok
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// loadEnv builds the evaluation environment: every env file in ctx, in
// order, then each name=expr binding in sets. Later definitions replace
// earlier ones, and a binding's expression sees everything defined before it.
func loadEnv(ctx context.Context, sets []string) (map[string]any, error) {
	env := make(map[string]any)

	if files := envFilesFrom(ctx); !files.IsZero() {
		for _, path := range files.paths {
			if err := loadEnvFile(ctx, env, path); err != nil {
				return nil, err
			}
		}

		if files.hasStdin {
			if err := loadEnvReader(ctx, env, os.Stdin, stdinSource); err != nil {
				return nil, err
			}
		}
	}

	for _, set := range sets {
		name, src, ok := strings.Cut(set, "=")
		name = strings.TrimSpace(name)

		if !ok || name == "" {
			return nil, ErrBinding.With(slog.String("binding", set))
		}

		v, err := lang.EvalValue(src, env)
		if err != nil {
			return nil, ErrBinding.With(slog.String("binding", set)).Wrap(err)
		}

		env[name] = v
	}

	log.DebugContext(ctx, "environment loaded",
		slog.Any("names", slices.Sorted(maps.Keys(env))))

	return env, nil
}

func loadEnvFile(ctx context.Context, env map[string]any, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return ErrLoadEnv.With(slog.String("file", path)).Wrap(err)
	}
	defer file.Close()

	return loadEnvReader(ctx, env, file, path)
}

func loadEnvReader(ctx context.Context, env map[string]any, r io.Reader, name string) error {
	m, err := lang.LoadEnv(ctx, r)
	if err != nil {
		return ErrLoadEnv.With(slog.String("file", name)).Wrap(err)
	}

	maps.Copy(env, m)

	return nil
}

// elemTypes maps the names accepted by --type to element types.
var elemTypes = map[string]reflect.Type{
	"any":    nil,
	"int":    reflect.TypeFor[int](),
	"float":  reflect.TypeFor[float64](),
	"string": reflect.TypeFor[string](),
	"bool":   reflect.TypeFor[bool](),
}

// ElemTypes returns the names accepted by --type, sorted.
func ElemTypes() []string {
	return slices.Sorted(maps.Keys(elemTypes))
}

func elemType(name string) (reflect.Type, error) {
	t, ok := elemTypes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrElemType.With(slog.String("type", name))
	}

	return t, nil
}

// retype replaces each []any value of env whose members all have type elem
// with an equivalent []elem, so that spreads of decoded lists type-check
// against a concrete element type. Other values are left unchanged.
func retype(env map[string]any, elem reflect.Type) map[string]any {
	if elem == nil {
		return env
	}

	for name, v := range env {
		if s, ok := v.([]any); ok {
			if typed, ok := typedSlice(s, elem); ok {
				env[name] = typed
			}
		}
	}

	return env
}

func typedSlice(s []any, elem reflect.Type) (any, bool) {
	out := reflect.MakeSlice(reflect.SliceOf(elem), len(s), len(s))

	for i, v := range s {
		if v == nil || !reflect.TypeOf(v).AssignableTo(elem) {
			return nil, false
		}

		out.Index(i).Set(reflect.ValueOf(v))
	}

	return out.Interface(), true
}

// listSource holds the flags and arguments that supply a list literal.
type listSource struct {
	File string   `help:"Read the list from file or '-' for stdin" short:"f" type:"path"`
	List []string `arg:""  help:"List literal; read from stdin when omitted"  optional:""`
}

// read returns the list literal: the --file contents, else the arguments
// joined with spaces, else stdin.
func (s listSource) read(ctx context.Context) (string, error) {
	var (
		data []byte
		err  error
		name = s.File
	)

	switch {
	case s.File == stdinSource:
		data, err = io.ReadAll(os.Stdin)

	case s.File != "":
		data, err = os.ReadFile(s.File)

	case len(s.List) > 0:
		return strings.Join(s.List, " "), nil

	default:
		name = stdinSource
		data, err = io.ReadAll(os.Stdin)
	}

	if err != nil {
		return "", ErrReadList.With(slog.String("file", name)).Wrap(err)
	}

	log.TraceContext(ctx, "list read",
		slog.String("file", name),
		slog.Int("length", len(data)))

	return string(data), nil
}
