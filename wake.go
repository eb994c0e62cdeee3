package asyncpool

import "sync"

// wakeCounter is a per-worker counted wakeup signal with a latched
// death flag. count tracks outstanding "you have work" notifications
// minus the number consumed; death is set exactly once, during
// shutdown, and never cleared.
type wakeCounter struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
	death bool
}

func newWakeCounter() *wakeCounter {
	w := &wakeCounter{}
	w.cond = sync.NewCond(&w.mu)
	return w
}

// waitOrDeath blocks until there is a notification to consume, then
// consumes one. It reports true iff, after consuming it, no
// notifications remain and death has been latched — the signal for the
// owning worker to exit its scheduling loop.
func (w *wakeCounter) waitOrDeath() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.count == 0 && !w.death {
		w.cond.Wait()
	}
	w.count--
	return w.count == 0 && w.death
}

// signal posts an ordinary work notification.
func (w *wakeCounter) signal() {
	w.mu.Lock()
	w.count++
	w.mu.Unlock()
	w.cond.Signal()
}

// signalDeath posts a notification and latches death. Because it also
// bumps count, a worker already scheduled to wake for ordinary work
// still observes death once it has drained everything ahead of it —
// no wakeup is lost.
func (w *wakeCounter) signalDeath() {
	w.mu.Lock()
	w.count++
	w.death = true
	w.mu.Unlock()
	w.cond.Signal()
}
