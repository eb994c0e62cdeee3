package asyncpool

import "sync/atomic"

// singleton is the ambient, process-wide pool reached by Init,
// Shutdown, IsAvailable, SubmitAwaitable, and SubmitDetached. Only one
// may be live at a time; calling Init twice without an intervening
// Shutdown is undefined, matching the engine's documented contract.
var singleton atomic.Pointer[Pool]

// Init starts the ambient pool with size workers. size must be between
// 1 and 65535 inclusive. After Init returns successfully, IsAvailable
// reports true.
func Init(size int) error {
	p, err := NewPool(size)
	if err != nil {
		return err
	}
	singleton.Store(p)
	return nil
}

// Shutdown drains and tears down the ambient pool. It is a no-op if no
// pool is available.
func Shutdown() {
	p := singleton.Swap(nil)
	if p == nil {
		return
	}
	p.Shutdown()
}

// IsAvailable reports whether the ambient pool is initialized and has
// not yet been shut down.
func IsAvailable() bool {
	return singleton.Load() != nil
}

// SubmitAwaitable submits fn(arg) to the ambient pool and returns a
// Future the caller must pass to Await exactly once. It returns
// ErrNotAvailable if no pool is running.
func SubmitAwaitable[T, R any](fn func(T) R, arg T) (Future[R], error) {
	p := singleton.Load()
	if p == nil {
		return Future[R]{}, ErrNotAvailable
	}
	return SubmitAwaitableOn(p, fn, arg), nil
}

// SubmitDetached submits fn(arg) to the ambient pool without exposing a
// handle. It returns false if no pool is running.
func SubmitDetached[T, R any](fn func(T) R, arg T) bool {
	p := singleton.Load()
	if p == nil {
		return false
	}
	return SubmitDetachedOn(p, fn, arg)
}

// CurrentPool returns the ambient pool, or nil if none is running. It
// exists so ambient observability (e.g. a Prometheus collector wired to
// the singleton) doesn't need its own copy of the pool pointer.
func CurrentPool() *Pool {
	return singleton.Load()
}
