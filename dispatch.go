// Copyright (c) 2020 Robert Clausecker <fuz@fuz.su>

// Population counts over large buffers.
//
// This package counts the set bits of a byte buffer with one of
// several interchangeable kernels: a naive bit by bit loop, a byte
// lookup table, Kernighan's clear-lowest-bit loop, sideways addition
// (SWAR), and the hardware population count instruction on single or
// double width words.  Except for the naive kernel, the buffer is cut
// into machine word chunks which are shared among a pool of worker
// goroutines; the bytes that do not fill a whole chunk are always
// counted naively, so buffers of any length and alignment are
// supported.
//
// Two further strategies exist.  A Mix splits the workers into two
// groups running different kernels over disjoint parts of the chunk
// range.  PopcountLoop gives each worker one contiguous region and
// counts it with a tight POPCNT loop written in assembly where the CPU
// supports it.
//
// All strategies return the same count for the same buffer,
// regardless of the number of workers.  Buffers are never written to.
package popcount

import "fmt"

// A Kernel identifies a bit counting strategy.
type Kernel int

const (
	Naive            Kernel = iota // bit by bit, no chunking
	Table                          // byte lookup table
	Kernighan                      // clear lowest set bit until zero
	SidewaysAddition               // SWAR sum within a register
	Popcount                       // hardware population count
	Popcount2                      // hardware population count, double width chunks
	PopcountLoop                   // hand-scheduled regions, one per worker
)

// each kernel has a name used when parsing and printing selectors.
// wordKernel is set for kernels that count a single word chunk and can
// thus take part in a Mix.
type kernelImpl struct {
	name       string
	wordKernel func(uint64) int
}

var kernels = [...]kernelImpl{
	Naive:            {"naive", nil},
	Table:            {"table", tableKernel},
	Kernighan:        {"kernighan", kernighanKernel},
	SidewaysAddition: {"sideways", sidewaysKernel},
	Popcount:         {"popcnt", popcountKernel},
	Popcount2:        {"popcnt2", nil},
	PopcountLoop:     {"asm", nil},
}

// Kernels returns all kernels in the order they are declared.
func Kernels() []Kernel {
	ks := make([]Kernel, len(kernels))
	for i := range ks {
		ks[i] = Kernel(i)
	}

	return ks
}

func (k Kernel) valid() bool {
	return k >= 0 && int(k) < len(kernels)
}

// String returns the name of k as accepted by ParseSelector.
func (k Kernel) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kernel(%d)", int(k))
	}

	return kernels[k].name
}

// A Selector picks the strategy used by Count.  It is either a Kernel
// or a Mix.
type Selector interface {
	fmt.Stringer
	isSelector()
}

func (Kernel) isSelector() {}

// Count counts the set bits in buf with the strategy sel, using the
// default pool.
func Count(sel Selector, buf []byte) (int, error) {
	return DefaultPool().Count(sel, buf)
}

// Count counts the set bits in buf with the strategy sel, using the
// workers of p.  The count does not depend on the number of workers.
// An empty buffer has no set bits.
func (p Pool) Count(sel Selector, buf []byte) (int, error) {
	threads := p.threads
	if threads <= 0 {
		return 0, ConfigError.New("thread pool unavailable")
	}

	switch sel := sel.(type) {
	case Kernel:
		return countKernel(sel, buf, threads)

	case Mix:
		return sel.count(buf, threads)

	case nil:
		return 0, SelectorError.New("no selector given")

	default:
		return 0, SelectorError.New("unsupported selector %T", sel)
	}
}

func countKernel(k Kernel, buf []byte, threads int) (int, error) {
	switch k {
	case Naive:
		return countNaive(buf), nil

	case Table:
		InitTable()
		return countChunked(singleChunks, tableKernel, buf, threads), nil

	case Kernighan, SidewaysAddition, Popcount:
		return countChunked(singleChunks, kernels[k].wordKernel, buf, threads), nil

	case Popcount2:
		return countChunked(doubleChunks, popcountKernel2, buf, threads), nil

	case PopcountLoop:
		return countLoop(buf, threads), nil

	default:
		return 0, SelectorError.New("unsupported kernel %v", k)
	}
}
