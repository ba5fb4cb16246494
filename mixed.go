package popcount

import (
	"fmt"
	"math/bits"
)

// A Mix splits the workers of a pool into two groups in the ratio
// RatioA : RatioB.  Group A counts the first part of the chunk range
// with kernel A, group B the rest with kernel B.  The parts are
// disjoint and proportional to the group sizes, so every chunk is
// counted exactly once.  A and B must be single word kernels: Table,
// Kernighan, SidewaysAddition, or Popcount.
type Mix struct {
	A, B           Kernel
	RatioA, RatioB int
}

func (Mix) isSelector() {}

// String returns m in the form accepted by ParseSelector.
func (m Mix) String() string {
	return fmt.Sprintf("mixed:%v,%v,%d:%d", m.A, m.B, m.RatioA, m.RatioB)
}

// validate checks m and returns the word kernels of both groups.
func (m Mix) validate() (a, b func(uint64) int, err error) {
	for _, k := range [...]Kernel{m.A, m.B} {
		if !k.valid() || kernels[k].wordKernel == nil {
			return nil, nil, SelectorError.New("kernel %v cannot be mixed", k)
		}
	}

	if m.RatioA < 0 || m.RatioB < 0 || m.RatioA == 0 && m.RatioB == 0 {
		return nil, nil, ConfigError.New("invalid mix ratio %d:%d", m.RatioA, m.RatioB)
	}

	return kernels[m.A].wordKernel, kernels[m.B].wordKernel, nil
}

// SplitGroups returns the number of workers out of pool that belong to
// group A when splitting in the ratio ratioA : ratioB.  Workers with an
// index below the returned value are in group A, all others in group
// B.  The result lies between 0 and pool for any ratios, however
// large.
func SplitGroups(pool, ratioA, ratioB int) (int, error) {
	switch {
	case pool <= 0:
		return 0, ConfigError.New("pool must be positive, got %d", pool)
	case ratioA < 0 || ratioB < 0 || ratioA == 0 && ratioB == 0:
		return 0, ConfigError.New("invalid mix ratio %d:%d", ratioA, ratioB)
	}

	return mulDiv(pool, ratioA, uint64(ratioA)+uint64(ratioB)), nil
}

// SplitChunks returns how many of chunks go to a group of groupA out
// of pool workers.  Group A receives the chunks with indices below the
// returned value, group B the others.
func SplitChunks(chunks, pool, groupA int) (int, error) {
	switch {
	case chunks < 0:
		return 0, ConfigError.New("negative chunk count %d", chunks)
	case pool <= 0:
		return 0, ConfigError.New("pool must be positive, got %d", pool)
	case groupA < 0 || groupA > pool:
		return 0, ConfigError.New("group of %d workers does not fit a pool of %d", groupA, pool)
	}

	return mulDiv(chunks, groupA, uint64(pool)), nil
}

// mulDiv returns x*y/d rounded down, computed in 128 bits.  x, y are
// non-negative and y <= d, so the quotient never exceeds x.
func mulDiv(x, y int, d uint64) int {
	hi, lo := bits.Mul64(uint64(x), uint64(y))
	q, _ := bits.Div64(hi, lo, d)
	return int(q)
}

func (m Mix) count(buf []byte, threads int) (int, error) {
	kernelA, kernelB, err := m.validate()
	if err != nil {
		return 0, err
	}

	if m.A == Table || m.B == Table {
		InitTable()
	}

	g := Partition(len(buf), wordSize)
	groupA, err := SplitGroups(threads, m.RatioA, m.RatioB)
	if err != nil {
		return 0, err
	}

	split, err := SplitChunks(g.Chunks, threads, groupA)
	if err != nil {
		return 0, err
	}

	r := newRegion(min(threads, g.Chunks))
	r.share(0, split, groupA, func(lo, hi int) int {
		return singleChunks.sum(kernelA, buf, lo, hi)
	})
	r.share(split, g.Chunks, threads-groupA, func(lo, hi int) int {
		return singleChunks.sum(kernelB, buf, lo, hi)
	})

	return r.join() + countNaive(buf[g.ChunkedSize():]), nil
}
