// Copyright (c) 2021, 2022 Robert Clausecker <fuz@fuz.su>

package popcount

import "fmt"
import "strings"

const (
	// max number of entries in a test case
	maxTestcaseSize = 100
)

// Take a count function and a test case and return true if the
// test case is processed correctly.
func testPasses(count func([]byte) int, buf []byte) bool {
	return count(buf) == countNaive(buf)
}

// Take a failing test case and try to find the smallest possible test
// case to trigger the error.  This is done by repeatedly clearing bits
// that do not cause the test case to pass when cleared.  An attempt is
// also made to reduce the length of the test case.  This function
// modifies its argument and returns a subslice of it.
func minimizeTestcase(count func([]byte) int, tc []byte) []byte {
	// sanity check
	if testPasses(count, tc) {
		return nil
	}

	// try to turn off bits
	for i := len(tc) - 1; i >= 0; i-- {
		for j := 7; j >= 0; j-- {
			if tc[i]&(1<<j) == 0 {
				continue
			}

			tc[i] &^= 1 << j
			if testPasses(count, tc) {
				tc[i] |= 1 << j
			}
		}
	}

	// try to shorten the array
	for len(tc) > 0 && !testPasses(count, tc[:len(tc)-1]) {
		tc = tc[:len(tc)-1]
	}

	return tc
}

// build a string representation of the minimised test case if it is
// not too long.  If it is too long, return the empty string.
func testcaseString(tc []byte) string {
	if len(tc) == 0 {
		return "\tvar buf [0]byte"
	}

	var w strings.Builder
	entries := 0
	fmt.Fprintf(&w, "\tvar buf [%d]byte // %p\n", len(tc), &tc[0])
	for i := range tc {
		if tc[i] == 0 {
			continue
		}

		entries++
		if entries > maxTestcaseSize {
			return ""
		}

		fmt.Fprintf(&w, "\tbuf[%d] = %#02x\n", i, tc[i])
	}

	return w.String()
}
