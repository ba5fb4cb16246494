// Package bench times bit counting strategies and reports the results.
package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/zeebo/errs"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("bench")

// longest iteration the latency histogram can record
const maxLatency = time.Hour

// A Strategy is one way of counting the set bits of a buffer.
type Strategy struct {
	Name  string
	Count func(buf []byte) (int, error)
}

// A Result is the outcome of timing a strategy.
type Result struct {
	Name       string
	Bits       int // count returned by the first iteration
	Iterations int
	Size       int // buffer size in bytes
	Elapsed    time.Duration
	Latencies  *hdrhistogram.Histogram // per iteration, in nanoseconds
}

// PerIteration returns the mean time of one iteration.
func (r Result) PerIteration() time.Duration {
	if r.Iterations == 0 {
		return 0
	}

	return r.Elapsed / time.Duration(r.Iterations)
}

// Throughput returns the mean number of bytes counted per second.
func (r Result) Throughput() float64 {
	secs := r.PerIteration().Seconds()
	if secs == 0 {
		return 0
	}

	return float64(r.Size) / secs
}

// A Timer runs strategies and writes a report for each to Out.
type Timer struct {
	Out    io.Writer
	Logger log.Logger
}

func (t Timer) logger() log.Logger {
	if t.Logger == nil {
		return log.NewNopLogger()
	}

	return t.Logger
}

func (t Timer) out() io.Writer {
	if t.Out == nil {
		return io.Discard
	}

	return t.Out
}

// Time runs s on buf iters times.  It prints the bit count of the
// first iteration, a dot after every tenth of the iterations, and the
// mean time per iteration.  The first error returned by s aborts the
// measurement.
func (t Timer) Time(s Strategy, buf []byte, iters int) (Result, error) {
	if iters <= 0 {
		return Result{}, Error.New("%s: iteration count must be positive, got %d", s.Name, iters)
	}

	// print a dot after every tenth, or after every iteration for short runs
	tenth := iters / 10
	if tenth < 10 {
		tenth = 1
	}

	res := Result{
		Name:       s.Name,
		Iterations: iters,
		Size:       len(buf),
		Latencies:  hdrhistogram.New(1, int64(maxLatency), 3),
	}

	level.Debug(t.logger()).Log("msg", "timing strategy", "strategy", s.Name, "iterations", iters, "size", len(buf))

	out := t.out()
	fmt.Fprintf(out, "\n%s", s.Name)
	start := time.Now()
	for i := 0; i < iters; i++ {
		begin := time.Now()
		bits, err := s.Count(buf)
		if err != nil {
			fmt.Fprintln(out)
			level.Error(t.logger()).Log("msg", "count failed", "strategy", s.Name, "iteration", i, "err", err)
			return Result{}, Error.Wrap(err)
		}

		_ = res.Latencies.RecordValue(int64(min(time.Since(begin), maxLatency)))

		if i == 0 {
			res.Bits = bits
			fmt.Fprintf(out, " (%d bits are set) ", bits)
		} else if i%tenth == 0 {
			fmt.Fprint(out, ".")
		}
	}
	res.Elapsed = time.Since(start)

	fmt.Fprintf(out, "\n%g seconds per iteration\n", res.PerIteration().Seconds())
	fmt.Fprintf(out, "min %v  p50 %v  p99 %v  max %v  %s/s\n",
		time.Duration(res.Latencies.Min()),
		time.Duration(res.Latencies.ValueAtQuantile(50)),
		time.Duration(res.Latencies.ValueAtQuantile(99)),
		time.Duration(res.Latencies.Max()),
		humanize.IBytes(uint64(res.Throughput())))

	level.Info(t.logger()).Log("msg", "timed strategy", "strategy", s.Name, "bits", res.Bits,
		"per_iteration", res.PerIteration(), "throughput", humanize.IBytes(uint64(res.Throughput()))+"/s")

	return res, nil
}
