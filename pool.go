package popcount

import (
	"runtime"

	"go.uber.org/atomic"
)

// configured size of the default pool; 0 selects runtime.GOMAXPROCS
var defaultThreads = atomic.NewInt64(0)

// Threads returns the number of workers the default pool runs with.
// Unless changed with SetThreads, this is runtime.GOMAXPROCS(0).
func Threads() int {
	if n := defaultThreads.Load(); n > 0 {
		return int(n)
	}

	return runtime.GOMAXPROCS(0)
}

// SetThreads sets the number of workers used by subsequent counts
// through the default pool.  Counts already in progress keep the size
// they started with.  n must be positive.
func SetThreads(n int) error {
	if n <= 0 {
		return ConfigError.New("thread count must be positive, got %d", n)
	}

	defaultThreads.Store(int64(n))
	return nil
}

// ResetThreads makes the default pool follow runtime.GOMAXPROCS again.
func ResetThreads() {
	defaultThreads.Store(0)
}

// A Pool is a fixed number of workers to count with.  Its size is
// read once at the start of every count.  The zero Pool has no
// workers; counting with it fails.
type Pool struct {
	threads int
}

// NewPool returns a pool of the given number of workers.
func NewPool(threads int) (Pool, error) {
	if threads <= 0 {
		return Pool{}, ConfigError.New("thread count must be positive, got %d", threads)
	}

	return Pool{threads: threads}, nil
}

// DefaultPool returns a pool sized like the process-wide default at
// the time of the call.
func DefaultPool() Pool {
	return Pool{threads: Threads()}
}

// Threads returns the number of workers in p.
func (p Pool) Threads() int {
	return p.threads
}
