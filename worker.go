package asyncpool

// worker owns an index into the pool's queues/workers arrays and the
// wake counter a producer signals to wake it.
type worker struct {
	index int
	wake  *wakeCounter
}

// run is the scheduling loop: wait-for-signal, steal-or-pop, execute.
// It exits once waitOrDeath reports the pool is draining; it may still
// execute one last task popped in the same iteration that observed
// death.
func (w *worker) run(p *Pool) {
	alive := true
	for alive {
		alive = !w.wake.waitOrDeath()
		if f := p.stealPop(w.index); f != nil {
			p.execute(f)
		}
	}
	p.wg.Done()
}
