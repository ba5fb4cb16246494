// Copyright (c) 2024 Robert Clausecker <fuz@fuz.su>

package popcount

import "testing"

// test every implementation of the hand-scheduled loop that runs here
func TestLoopFuncs(t *testing.T) {
	for i := range loopFuncs {
		t.Run(loopFuncs[i].name, func(tt *testing.T) {
			if !loopFuncs[i].available {
				tt.SkipNow()
			}

			testLoop(tt, loopFuncs[i].loop)
		})
	}
}

// test the correctness of a loop implementation on whole words
func testLoop(t *testing.T, loop func([]byte) int) {
	for _, n := range testLengths {
		n &^= wordSize - 1
		buf := randomBuffer(uint64(n)+6, n+1)

		for off := 0; off <= 1; off++ {
			words := buf[off : off+n]
			if got, want := loop(words), countNaive(words); got != want {
				t.Errorf("length %d, offset %d: got %d, want %d", n, off, got, want)
			}
		}
	}
}

func TestFastPath(t *testing.T) {
	if FastPath() != loopFunc.name || !loopFunc.available {
		t.Errorf("unavailable fast path %q selected", FastPath())
	}
}
