package bench

import (
	"github.com/clausecker/popcount"
	"github.com/go-kit/log/level"
	"github.com/zeebo/errs"
)

// Iterations holds how often each class of strategy is run.  Slow
// strategies get fewer iterations to keep the total time down.
type Iterations struct {
	Naive  int // the naive ground truth
	Kernel int // Kernighan and the lookup table
	Fast   int // everything else
}

// DefaultIterations are the iteration counts used by popbench.
var DefaultIterations = Iterations{Naive: 10, Kernel: 25, Fast: 100}

// A Step is one strategy of a benchmark plan.
type Step struct {
	Name       string
	Selector   popcount.Selector
	Threads    int
	Iterations int
}

// descriptions of the strategies in reports
var descriptions = map[popcount.Kernel]string{
	popcount.Naive:            "Naive implementation",
	popcount.Table:            "Lookup table implementation",
	popcount.Kernighan:        "Brian Kernighan's method",
	popcount.SidewaysAddition: "Sideways Addition",
	popcount.Popcount:         "Intrinsic implementation",
	popcount.Popcount2:        "Intrinsic implementation double",
	popcount.PopcountLoop:     "ASM implementation",
}

// Hyperthread is the mix run in the parallel pass.
var Hyperthread = popcount.Mix{
	A:      popcount.Popcount,
	B:      popcount.SidewaysAddition,
	RatioA: 1,
	RatioB: 1,
}

func describe(sel popcount.Selector) string {
	if k, ok := sel.(popcount.Kernel); ok {
		if d, ok := descriptions[k]; ok {
			return d
		}
	}

	if sel == popcount.Selector(Hyperthread) {
		return "Optimized hyperthread"
	}

	return sel.String()
}

// Plan returns the benchmark steps for a machine with the given number
// of threads.  The naive count comes first and serves as the ground
// truth.  A serial pass follows; the slow Kernighan and lookup table
// strategies are only part of it on machines with fewer than four
// threads.  If there is more than one thread, a parallel pass over all
// strategies and the Hyperthread mix ends the plan.
func Plan(threads int, iters Iterations) []Step {
	step := func(sel popcount.Selector, threads, n int, suffix string) Step {
		return Step{
			Name:       describe(sel) + suffix,
			Selector:   sel,
			Threads:    threads,
			Iterations: n,
		}
	}

	steps := []Step{step(popcount.Naive, threads, iters.Naive, "")}

	if threads < 4 {
		steps = append(steps,
			step(popcount.Kernighan, 1, iters.Kernel, " (serial)"),
			step(popcount.Table, 1, iters.Kernel, " (serial)"))
	}
	for _, k := range []popcount.Kernel{popcount.Popcount, popcount.Popcount2, popcount.PopcountLoop, popcount.SidewaysAddition} {
		steps = append(steps, step(k, 1, iters.Fast, " (serial)"))
	}

	if threads > 1 {
		steps = append(steps,
			step(popcount.Kernighan, threads, iters.Kernel, " (parallel)"),
			step(popcount.Table, threads, iters.Kernel, " (parallel)"))
		for _, k := range []popcount.Kernel{popcount.Popcount, popcount.Popcount2, popcount.PopcountLoop, popcount.SidewaysAddition} {
			steps = append(steps, step(k, threads, iters.Fast, " (parallel)"))
		}
		steps = append(steps, step(Hyperthread, threads, iters.Fast, " (parallel)"))
	}

	return steps
}

// Only returns the steps whose selector is one of sels.  The ground
// truth step is always kept.  Custom selectors that Plan does not
// produce are appended as serial and parallel steps.
func Only(steps []Step, threads int, iters Iterations, sels []popcount.Selector) []Step {
	if len(sels) == 0 {
		return steps
	}

	wanted := make(map[string]bool, len(sels))
	for _, sel := range sels {
		wanted[sel.String()] = true
	}

	var kept []Step
	seen := make(map[string]bool)
	for i, s := range steps {
		name := s.Selector.String()
		if i == 0 || wanted[name] {
			kept = append(kept, s)
			seen[name] = true
		}
	}

	for _, sel := range sels {
		if seen[sel.String()] {
			continue
		}

		seen[sel.String()] = true
		kept = append(kept, Step{describe(sel) + " (serial)", sel, 1, iters.Fast})
		if threads > 1 {
			kept = append(kept, Step{describe(sel) + " (parallel)", sel, threads, iters.Fast})
		}
	}

	return kept
}

// Strategy returns the strategy that counts with the step's selector
// and worker count.
func (s Step) Strategy() (Strategy, error) {
	pool, err := popcount.NewPool(s.Threads)
	if err != nil {
		return Strategy{}, Error.Wrap(err)
	}

	sel := s.Selector
	return Strategy{
		Name: s.Name,
		Count: func(buf []byte) (int, error) {
			return pool.Count(sel, buf)
		},
	}, nil
}

// Run times every step on buf.  The result of the first step is the
// ground truth; every later step whose bit count differs is reported
// as an error.  Failing steps do not stop the run.
func (t Timer) Run(steps []Step, buf []byte) ([]Result, error) {
	popcount.InitTable()

	var results []Result
	var group errs.Group
	for _, step := range steps {
		s, err := step.Strategy()
		if err != nil {
			group.Add(err)
			continue
		}

		res, err := t.Time(s, buf, step.Iterations)
		if err != nil {
			level.Error(t.logger()).Log("msg", "strategy failed", "strategy", step.Name, "err", err)
			group.Add(err)
			continue
		}

		if len(results) > 0 && res.Bits != results[0].Bits {
			err := Error.New("%s: counted %d bits, %s counted %d", res.Name, res.Bits, results[0].Name, results[0].Bits)
			level.Error(t.logger()).Log("msg", "count mismatch", "strategy", res.Name, "bits", res.Bits, "want", results[0].Bits)
			group.Add(err)
		}

		results = append(results, res)
	}

	return results, group.Err()
}
