// Copyright (c) 2024 Robert Clausecker <fuz@fuz.su>

package popcount

import "testing"

// Check that saturated buffers are counted in full by every selector
func TestOverflow(t *testing.T) {
	const imax = 4
	const jmax = 17
	var buf [imax*4096 + jmax]byte

	for i := range buf {
		buf[i] = 0xff
	}

	for _, sel := range testSelectors() {
		t.Run(sel.String(), func(tt *testing.T) {
			for i := 1; i <= imax; i++ {
				for j := -jmax; j <= jmax; j++ {
					testOverflowBuf(tt, sel, buf[:i*4096+j])
				}
			}
		})
	}
}

func testOverflowBuf(t *testing.T, sel Selector, buf []byte) {
	for _, threads := range []int{1, 3, 8} {
		pool, err := NewPool(threads)
		if err != nil {
			t.Fatal(err)
		}

		count, err := pool.Count(sel, buf)
		if err != nil {
			t.Fatal(err)
		}

		if count != 8*len(buf) {
			t.Errorf("length %d, %d threads: got %d, want %d", len(buf), threads, count, 8*len(buf))
		}
	}
}
