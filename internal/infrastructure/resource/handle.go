package resource

import (
	"sync"
	"sync/atomic"
)

// Disposer is implemented by assets that hold resources beyond Go memory
// (GPU textures, decoders). Dispose runs once, after the cache and every
// handle have released the asset.
type Disposer interface {
	Dispose()
}

// entry is a loaded asset with a reference count.
// The cache owns one reference while the entry is resident; every live
// Handle owns one more.
type entry struct {
	key     string
	asset   any
	refs    atomic.Int64
	dispose sync.Once
}

func newEntry(key string, asset any) *entry {
	e := &entry{key: key, asset: asset}
	e.refs.Store(1)
	return e
}

// acquire adds a reference unless the entry has already been released to zero.
func (e *entry) acquire() bool {
	for {
		n := e.refs.Load()
		if n <= 0 {
			return false
		}
		if e.refs.CompareAndSwap(n, n+1) {
			return true
		}
	}
}

func (e *entry) release() {
	if e.refs.Add(-1) != 0 {
		return
	}
	e.dispose.Do(func() {
		if d, ok := e.asset.(Disposer); ok {
			d.Dispose()
		}
	})
}

// Handle is a shared reference to a cached asset. It stays valid after the
// entry is evicted from the cache, until Release is called.
type Handle struct {
	e        *entry
	released atomic.Bool
}

func newHandle(e *entry) *Handle {
	return &Handle{e: e}
}

// Key returns the logical key the asset was loaded under.
func (h *Handle) Key() string {
	return h.e.key
}

// Asset returns the loaded asset.
func (h *Handle) Asset() any {
	return h.e.asset
}

// Release drops this handle's reference. Calling it more than once is a no-op.
func (h *Handle) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	h.e.release()
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// As returns the handle's asset as T.
func As[T any](h *Handle) (T, bool) {
	if h == nil {
		var zero T
		return zero, false
	}
	v, ok := h.e.asset.(T)
	return v, ok
}
