// Package profile wraps [github.com/pkg/profile] behind the "pprof" build
// tag.
//
// Built without the tag, [Modes] is empty and [Config.Start] returns a no-op
// stopper, so callers never need their own build constraints:
//
//	stop := profile.Config{Mode: "cpu", Path: dir}.Start()
//	defer stop.Stop()
//
// Built with it (go build -tags pprof), the supported modes are allocs,
// block, clock, cpu, goroutine, heap, mem, mutex, thread, and trace.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`
