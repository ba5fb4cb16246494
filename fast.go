// Copyright (c) 2020 Robert Clausecker <fuz@fuz.su>

package popcount

// each platform must provide an array loopFuncs of type loopImpl
// listing the available implementations of the hand-scheduled
// counting loop.  The member available indicates that the function
// would run on this machine.  The dispatch code picks the first
// function in the array for which available is true.  The generic
// implementation must be available under all circumstances so it can
// be run by the unit tests.

type loopImpl struct {
	loop      func([]byte) int
	name      string
	available bool
}

// optimal loop implementation selected at runtime
var loopFunc = pickLoop()

func pickLoop() loopImpl {
	for _, f := range loopFuncs {
		if f.available {
			return f
		}
	}

	panic("no implementation of the counting loop available")
}

// FastPath returns the name of the loop implementation used by the
// PopcountLoop kernel on this machine.
func FastPath() string {
	return loopFunc.name
}

// countLoop divides the whole chunks of buf into one contiguous region
// per worker and counts each region with the fastest available loop.
// The last region absorbs the chunks left over by the division.  There
// are never more regions than chunks.
func countLoop(buf []byte, threads int) int {
	g := Partition(len(buf), wordSize)
	regions := min(threads, g.Chunks)
	loop := loopFunc.loop

	r := newRegion(regions)
	if regions > 0 {
		perRegion := g.Chunks / regions * wordSize
		for t := 0; t < regions; t++ {
			lo, hi := t*perRegion, (t+1)*perRegion
			if t == regions-1 {
				hi = g.ChunkedSize()
			}

			region := buf[lo:hi]
			r.run(func() int { return loop(region) })
		}
	}

	return r.join() + countNaive(buf[g.ChunkedSize():])
}
