package asyncpool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// stealSweepFactor is the contention budget used by both the
// randomized push and the work-stealing pop: each sweeps up to
// stealSweepFactor*size queues non-blockingly before falling back to a
// blocking operation on its own (or starting) queue. Taken verbatim
// from the original implementation's 4*size sweep.
const stealSweepFactor = 4

// maxPoolSize is the largest pool width the engine accepts.
const maxPoolSize = 65535

// Pool is the top-level scheduling substrate: an array of workers and
// an array of per-worker queues, fixed in size for the pool's lifetime.
// Most callers don't need Pool directly — see Init/SubmitAwaitable/
// SubmitDetached/Await for the ambient singleton surface. Pool is
// exported so a program that needs more than one independent pool can
// use NewPool/SubmitAwaitableOn/SubmitDetachedOn instead.
type Pool struct {
	workers []*worker
	queues  []*taskQueue
	size    int
	wg      sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
}

// NewPool starts a pool of size worker goroutines. size must be
// between 1 and 65535 inclusive.
func NewPool(size int) (*Pool, error) {
	if size < 1 || size > maxPoolSize {
		return nil, fmt.Errorf("asyncpool: size must be between 1 and %d, got %d", maxPoolSize, size)
	}

	p := &Pool{
		workers: make([]*worker, size),
		queues:  make([]*taskQueue, size),
		size:    size,
	}
	for i := range p.queues {
		p.queues[i] = &taskQueue{}
	}
	for i := range p.workers {
		p.workers[i] = &worker{index: i, wake: newWakeCounter()}
	}

	p.wg.Add(size)
	for _, w := range p.workers {
		w := w
		go w.run(p)
	}

	log.Debug().Int("size", size).Msg("asyncpool: pool started")
	return p, nil
}

// Size returns the number of workers in the pool.
func (p *Pool) Size() int { return p.size }

// execute runs f and accounts for it in the pool's completion counter.
// Both the worker loop and Await's helper loop funnel through here so
// Stats reflects every code path that can finish a task.
func (p *Pool) execute(f *rawFuture) {
	f.execute()
	p.completed.Add(1)
}

// submitPush is the randomized push: pick a starting queue, sweep a
// bounded number of others non-blockingly, and fall back to a blocking
// push on the starting queue if every try-push in the sweep lost its
// race for the lock.
func (p *Pool) submitPush(f *rawFuture) {
	p.submitted.Add(1)

	start := int(nextStartIndex() % uint64(p.size))
	limit := p.size * stealSweepFactor
	for k := 0; k < limit; k++ {
		idx := (start + k) % p.size
		if p.queues[idx].tryPush(f) {
			p.workers[idx].wake.signal()
			return
		}
	}
	p.queues[start].blockingPush(f)
	p.workers[start].wake.signal()
}

// stealPop sweeps queues[home], queues[home+1], ... non-blockingly
// before falling back to a blocking pop on queues[home]. A worker calls
// this with its own index; a helping Await caller calls it with a
// random index.
func (p *Pool) stealPop(home int) *rawFuture {
	limit := p.size * stealSweepFactor
	for k := 0; k < limit; k++ {
		idx := (home + k) % p.size
		if f := p.queues[idx].tryPop(); f != nil {
			return f
		}
	}
	return p.queues[home].blockingPop()
}

// Shutdown signals every worker to die, then waits for all of them to
// exit. Every task enqueued before the first death signal is guaranteed
// to run to completion (see spec §4.8): each signalDeath bumps that
// worker's wake counter once more, so it wakes at least once more and
// attempts a pop, and work stealing lets any worker finish tasks left
// sitting in other queues. Tasks submitted concurrently with Shutdown
// are not guaranteed to run — callers must quiesce submission first.
func (p *Pool) Shutdown() {
	for _, w := range p.workers {
		w.wake.signalDeath()
	}
	p.wg.Wait()
	log.Debug().Int("size", p.size).Msg("asyncpool: pool stopped")
}

// Stats is a point-in-time snapshot of a pool's load.
type Stats struct {
	Size       int
	Submitted  int64
	Completed  int64
	QueueDepth []int
}

// Stats reports a snapshot of queue depths and task counters. Queue
// depths are collected one queue at a time under that queue's own
// mutex, so the whole snapshot is not atomic with respect to a busy
// pool — it is meant for observability, not synchronization.
func (p *Pool) Stats() Stats {
	depths := make([]int, p.size)
	for i, q := range p.queues {
		q.mu.Lock()
		n := 0
		for f := q.head; f != nil; f = f.next {
			n++
		}
		q.mu.Unlock()
		depths[i] = n
	}
	return Stats{
		Size:       p.size,
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		QueueDepth: depths,
	}
}

// SubmitAwaitableOn submits fn(arg) to p and returns a Future the
// caller must pass to Await exactly once.
func SubmitAwaitableOn[T, R any](p *Pool, fn func(T) R, arg T) Future[R] {
	raw := newRawFuture(stateAwaited, func(a any) any { return fn(a.(T)) }, arg)
	p.submitPush(raw)
	return Future[R]{raw: raw, pool: p}
}

// SubmitDetachedOn submits fn(arg) to p without exposing a handle; the
// pool discards the result the moment the task finishes. It always
// returns true — p is already a live pool by construction — and exists
// in boolean form only to mirror the ambient SubmitDetached's contract.
func SubmitDetachedOn[T, R any](p *Pool, fn func(T) R, arg T) bool {
	raw := newRawFuture(stateDetached, func(a any) any { return fn(a.(T)) }, arg)
	p.submitPush(raw)
	return true
}
