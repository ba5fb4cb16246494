// Copyright (c) 2020 Robert Clausecker <fuz@fuz.su>

package popcount

import (
	"encoding/binary"

	"golang.org/x/sync/errgroup"
)

const (
	wordSize   = 8            // width of a single chunk in bytes
	doubleSize = 2 * wordSize // width of a double chunk in bytes
)

// A Grid is the partition of a buffer into whole chunks of Width bytes
// and a tail of fewer than Width bytes.  Chunks*Width + Tail always
// equals the length of the partitioned buffer.
type Grid struct {
	Chunks int // number of whole chunks
	Width  int // chunk width in bytes
	Tail   int // leftover bytes after the last whole chunk
}

// Partition splits a buffer of bufsize bytes into chunks of width
// bytes.  width must be positive.
func Partition(bufsize, width int) Grid {
	return Grid{
		Chunks: bufsize / width,
		Width:  width,
		Tail:   bufsize % width,
	}
}

// ChunkedSize returns the number of bytes covered by whole chunks.
func (g Grid) ChunkedSize() int {
	return g.Chunks * g.Width
}

// loaders reinterpret the bytes of one chunk as an integer.  Reads go
// through encoding/binary, so the buffer does not need to be aligned.
func loadWord(buf []byte) uint64 {
	return binary.LittleEndian.Uint64(buf)
}

func loadDouble(buf []byte) [2]uint64 {
	return [2]uint64{
		binary.LittleEndian.Uint64(buf),
		binary.LittleEndian.Uint64(buf[wordSize:]),
	}
}

// chunking describes how a buffer is cut into chunks of type W.
type chunking[W any] struct {
	width int
	load  func([]byte) W
}

var (
	singleChunks = chunking[uint64]{wordSize, loadWord}
	doubleChunks = chunking[[2]uint64]{doubleSize, loadDouble}
)

// sum applies kernel to the chunks with indices lo to hi.
func (c chunking[W]) sum(kernel func(W) int, buf []byte, lo, hi int) int {
	n := 0
	for i := lo; i < hi; i++ {
		n += kernel(c.load(buf[i*c.width:]))
	}

	return n
}

// countChunked counts the set bits in buf by applying kernel to every
// whole chunk, sharing the chunks among threads workers, and counting
// the tail naively.
func countChunked[W any](c chunking[W], kernel func(W) int, buf []byte, threads int) int {
	g := Partition(len(buf), c.width)

	r := newRegion(min(threads, g.Chunks))
	r.share(0, g.Chunks, threads, func(lo, hi int) int {
		return c.sum(kernel, buf, lo, hi)
	})

	return r.join() + countNaive(buf[g.ChunkedSize():])
}

// blockRange returns the i-th of parts contiguous, nearly equal sized
// subranges of [0, n).  Earlier parts receive the remainder.
func blockRange(n, parts, i int) (lo, hi int) {
	q, r := n/parts, n%parts
	lo = i*q + min(i, r)
	hi = lo + q
	if i < r {
		hi++
	}

	return
}

// A region is one fork-join parallel region.  Each worker keeps a
// private total; the totals are only combined by join after all
// workers have finished.
type region struct {
	g      errgroup.Group
	totals []int
	next   int
}

// newRegion prepares a region for at most workers workers.  Callers
// bound workers by the number of chunks, so a large pool over a small
// buffer stays cheap.
func newRegion(workers int) *region {
	return &region{totals: make([]int, workers)}
}

// run starts one worker computing fn.
func (r *region) run(fn func() int) {
	slot := r.next
	r.next++
	r.g.Go(func() error {
		r.totals[slot] = fn()
		return nil
	})
}

// share distributes the chunk indices lo to hi over workers workers,
// giving each a contiguous block.  Every index is passed to fn exactly
// once.  No more workers are started than there are indices.
func (r *region) share(lo, hi, workers int, fn func(lo, hi int) int) {
	n := hi - lo
	workers = min(workers, n)
	for w := 0; w < workers; w++ {
		a, b := blockRange(n, workers, w)
		r.run(func() int { return fn(lo+a, lo+b) })
	}
}

// join waits for all workers and returns the sum of their totals.
func (r *region) join() int {
	_ = r.g.Wait() // workers never fail

	total := 0
	for _, t := range r.totals[:r.next] {
		total += t
	}

	return total
}
