// Package notify implements C5: a per-symbol callback registry for
// trades and market-data snapshots, fired synchronously on the thread
// performing the book mutation.
package notify

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry is a lock-guarded, append-only list of callbacks of a
// single type T. Registration is expected to be infrequent (typically
// at startup); Emit is on the hot path, so it holds the lock only long
// enough to snapshot the slice header before invoking callbacks.
type Registry[T any] struct {
	mu        sync.RWMutex
	callbacks []func(T)
}

// Register appends a new callback. Safe to call concurrently with Emit.
func (r *Registry[T]) Register(cb func(T)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, cb)
}

// Emit invokes every registered callback with value, in registration
// order, on the calling goroutine. A callback that panics is recovered
// and logged rather than allowed to unwind into the matcher: per spec,
// a misbehaving subscriber must not corrupt or deadlock the book.
func (r *Registry[T]) Emit(value T) {
	r.mu.RLock()
	cbs := r.callbacks
	r.mu.RUnlock()

	for _, cb := range cbs {
		invokeSafely(cb, value)
	}
}

func invokeSafely[T any](cb func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Msg("notify: recovered panic from subscriber callback")
		}
	}()
	cb(value)
}
