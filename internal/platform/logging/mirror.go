package logging

import (
	"context"
	"sync/atomic"
)

// MirrorFunc receives every context-aware log entry after it is
// written to the primary zap core. Used to fan records out to an
// OTLP log exporter.
type MirrorFunc func(ctx context.Context, level Level, msg string, args ...any)

var mirrorFn atomic.Pointer[MirrorFunc]

func SetMirror(fn MirrorFunc) {
	if fn == nil {
		mirrorFn.Store(nil)
		return
	}
	mirrorFn.Store(&fn)
}

func mirrorLog(ctx context.Context, level Level, msg string, args ...any) {
	p := mirrorFn.Load()
	if p == nil {
		return
	}
	(*p)(ctx, level, msg, args...)
}
