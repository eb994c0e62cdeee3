// Package asyncpool provides a process-wide task execution engine: a
// fixed-size pool of worker goroutines that evaluate opaque functions
// asynchronously.
//
// Callers submit a function and an argument and either get back a
// Future they can later Await, or fire the task off detached and never
// see its result. A goroutine blocked in Await does not sleep — it
// helps the pool make progress by stealing and executing other pending
// tasks until its own task completes.
//
// The engine does not support priority scheduling, cancellation of
// in-flight tasks, or resizing a pool after Init. It is a process-wide
// singleton by default (Init/Shutdown/SubmitAwaitable/SubmitDetached),
// but the underlying Pool type can also be used directly for multiple
// independent pools (NewPool/SubmitAwaitableOn/SubmitDetachedOn).
package asyncpool
