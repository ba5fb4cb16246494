// Copyright (c) 2020 Robert Clausecker <fuz@fuz.su>

package popcount

// naive reference implementation, also used for the tail of every
// chunked count.  Do not alter.
func countNaive(buf []byte) int {
	n := 0
	for i := range buf {
		for j := 0; j < 8; j++ {
			if buf[i]&(1<<j) != 0 {
				n++
			}
		}
	}

	return n
}
