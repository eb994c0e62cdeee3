package asyncpool

import "sync/atomic"

// startIndex is shared by every goroutine that needs to pick a
// starting queue for a push or a stealing sweep. Go goroutines have no
// OS-thread-local storage, unlike the pthread-based original this
// engine is modeled on, so a single monotonic counter stands in for
// the original's per-thread counter. Its only job is to spread starting
// points across concurrently racing callers — it need not be unique per
// caller or unpredictable, so a shared atomic increment satisfies the
// requirement just as well as a true per-thread one would.
var startIndex atomic.Uint64

func nextStartIndex() uint64 {
	return startIndex.Add(1)
}
