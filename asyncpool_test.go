package asyncpool

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"
)

// AsyncPoolTestSuite covers the public surface: Init/Shutdown/
// IsAvailable/SubmitAwaitable/SubmitDetached/Await.
type AsyncPoolTestSuite struct {
	suite.Suite
}

func TestAsyncPoolTestSuite(t *testing.T) {
	suite.Run(t, new(AsyncPoolTestSuite))
}

func (ts *AsyncPoolTestSuite) TearDownTest() {
	Shutdown()
}

func (ts *AsyncPoolTestSuite) TestIsAvailableBeforeInit() {
	ts.False(IsAvailable())
}

func (ts *AsyncPoolTestSuite) TestInitAndShutdown() {
	ts.Require().NoError(Init(4))
	ts.True(IsAvailable())

	Shutdown()
	ts.False(IsAvailable())
}

func (ts *AsyncPoolTestSuite) TestShutdownWithoutInitIsNoOp() {
	ts.NotPanics(func() { Shutdown() })
	ts.False(IsAvailable())
}

func (ts *AsyncPoolTestSuite) TestSecondShutdownIsNoOp() {
	ts.Require().NoError(Init(4))
	Shutdown()
	ts.NotPanics(func() { Shutdown() })
	ts.False(IsAvailable())
}

func (ts *AsyncPoolTestSuite) TestInitRejectsInvalidSize() {
	ts.Error(Init(0))
	ts.Error(Init(-1))
	ts.Error(Init(65536))
	ts.False(IsAvailable())
}

func (ts *AsyncPoolTestSuite) TestSubmitAwaitableIdentity() {
	ts.Require().NoError(Init(4))

	h, err := SubmitAwaitable(identity, 42)
	ts.Require().NoError(err)
	ts.Equal(42, Await(h))
}

func (ts *AsyncPoolTestSuite) TestSubmitAwaitableWithoutPool() {
	_, err := SubmitAwaitable(identity, 1)
	ts.ErrorIs(err, ErrNotAvailable)
}

func (ts *AsyncPoolTestSuite) TestSubmitDetachedWithoutPool() {
	ts.False(SubmitDetached(identity, 1))
}

func (ts *AsyncPoolTestSuite) TestSubmitDetachedIncrements() {
	ts.Require().NoError(Init(2))

	var counter atomic.Int64
	const n = 1000
	for i := 0; i < n; i++ {
		ts.True(SubmitDetached(func(c *atomic.Int64) *atomic.Int64 {
			c.Add(1)
			return c
		}, &counter))
	}

	for counter.Load() != n {
		// Spin-wait; detached tasks carry no handle to block on.
	}
}

func (ts *AsyncPoolTestSuite) TestNestedAwaitOnSingleWorker() {
	ts.Require().NoError(Init(1))

	h, err := SubmitAwaitable(func(x int) int {
		inner, ierr := SubmitAwaitable(identity, x)
		ts.Require().NoError(ierr)
		return Await(inner)
	}, 7)
	ts.Require().NoError(err)
	ts.Equal(7, Await(h))
}

func (ts *AsyncPoolTestSuite) TestManyConcurrentSubmissions() {
	ts.Require().NoError(Init(8))

	const n = 100
	handles := make([]Future[int], n)
	for i := 0; i < n; i++ {
		h, err := SubmitAwaitable(square, i)
		ts.Require().NoError(err)
		handles[i] = h
	}
	for i, h := range handles {
		ts.Equal(i*i, Await(h))
	}
}

func (ts *AsyncPoolTestSuite) TestMoreAwaitersThanWorkers() {
	ts.Require().NoError(Init(2))

	const n = 50
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		i := i
		go func() {
			h, err := SubmitAwaitable(func(x int) int {
				inner, ierr := SubmitAwaitable(square, x)
				ts.Require().NoError(ierr)
				return Await(inner)
			}, i)
			ts.Require().NoError(err)
			results <- Await(h)
		}()
	}

	seen := make(map[int]int, n)
	for i := 0; i < n; i++ {
		seen[<-results]++
	}
	for i := 0; i < n; i++ {
		ts.Equal(1, seen[i*i])
	}
}

func (ts *AsyncPoolTestSuite) TestStatsReflectCompletion() {
	ts.Require().NoError(Init(4))

	h, err := SubmitAwaitable(identity, 1)
	ts.Require().NoError(err)
	Await(h)

	stats := CurrentPool().Stats()
	ts.Equal(4, stats.Size)
	ts.GreaterOrEqual(stats.Completed, int64(1))
	ts.Len(stats.QueueDepth, 4)
}

func identity(x int) int { return x }
func square(x int) int   { return x * x }
