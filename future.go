package asyncpool

import "sync/atomic"

// futureState is the lifecycle tag of a rawFuture, mirroring the
// AWAITED / DONE / DETACHED states from the task handle model.
type futureState int32

const (
	stateAwaited futureState = iota
	stateDone
	stateDetached
)

// rawFuture is the opaque task handle that flows through queues. It
// carries the function and argument before execution, and the return
// value in place of the argument afterward. next is an intrusive link
// used only while the handle sits in a taskQueue; it is nil otherwise.
type rawFuture struct {
	state   atomic.Int32
	payload any
	fn      func(any) any
	next    *rawFuture
}

func newRawFuture(state futureState, fn func(any) any, arg any) *rawFuture {
	f := &rawFuture{fn: fn, payload: arg}
	f.state.Store(int32(state))
	return f
}

// execute invokes fn exactly once. The transition to stateDone is a
// release-store (atomic.Int32.Store); isDone's matching acquire-load
// establishes happens-before for any awaiter that observes it.
func (f *rawFuture) execute() {
	f.payload = f.fn(f.payload)
	switch futureState(f.state.Load()) {
	case stateDone:
		panic("asyncpool: double execution of a completed task")
	case stateAwaited:
		f.state.Store(int32(stateDone))
	case stateDetached:
		// No owner left to read the result; the handle becomes garbage
		// the moment execute returns.
	}
}

func (f *rawFuture) isDone() bool {
	return futureState(f.state.Load()) == stateDone
}

// Future is the caller-facing handle returned by SubmitAwaitable and
// SubmitAwaitableOn. It must be passed to Await exactly once; awaiting
// it twice, or not at all, is undefined behavior per the engine's
// contract.
type Future[R any] struct {
	raw  *rawFuture
	pool *Pool
}

// Await blocks the calling goroutine until f's task completes, helping
// the originating pool make progress in the meantime, and returns the
// task function's return value. Calling Await on the zero Future, or on
// a Future already consumed by a prior Await call, is undefined.
func Await[R any](f Future[R]) R {
	for !f.raw.isDone() {
		idx := int(nextStartIndex() % uint64(f.pool.size))
		if m := f.pool.stealPop(idx); m != nil {
			f.pool.execute(m)
		}
	}
	return f.raw.payload.(R)
}
