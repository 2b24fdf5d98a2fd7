package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// globalCache stores compiled programs keyed by source and option hash.
var globalCache sync.Map

// state tracks compilation of a single cache entry.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// hashOptions encodes the options that affect compilation using gob and
// hashes the result with xxh3. Environment values are reduced to their
// types so that programs are shared across calls with different values.
func hashOptions(cfg config) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(cfg.noSpread)
	_ = enc.Encode(cfg.elem.String())

	types := typesOf(cfg.env)
	for _, name := range slices.Sorted(maps.Keys(types)) {
		_ = enc.Encode(name)
		_ = enc.Encode(typeName(types[name]))
	}

	return xxh3.Hash(buf.Bytes())
}

// CompileString parses and compiles source, reusing a previously compiled
// program when the source, element type, spread setting, and environment
// types all match.
func CompileString(ctx context.Context, source string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(cfg)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := globalCache.LoadOrStore(key, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrExprCompile.
			With(slog.String("issue", "invalid cache entry type"))
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit))

	entry.once.Do(func() {
		list, err := Parse(ctx, source, opts...)
		if err != nil {
			entry.err = err

			return
		}

		entry.prog, entry.err = Compile(ctx, list, opts...)
	})

	return entry.prog, entry.err
}

// ClearCache removes all cached programs.
func ClearCache() {
	globalCache.Clear()
}
