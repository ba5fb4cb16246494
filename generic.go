package popcount

import "math/bits"

// masks for the sideways addition kernel
const (
	swar1 = ^uint64(0) / 3        // 0x5555...
	swar2 = ^uint64(0) / 15 * 3   // 0x3333...
	swar4 = ^uint64(0) / 255 * 15 // 0x0f0f...
	swar8 = ^uint64(0) / 255      // 0x0101...
)

// table kernel: sum the lookup table entries of the eight bytes
func tableKernel(w uint64) int {
	n := 0
	for i := 0; i < 8; i++ {
		n += int(lookup[byte(w>>(8*i))])
	}

	return n
}

// Kernighan kernel: clear the lowest set bit until none are left.
// The number of iterations equals the number of set bits.
func kernighanKernel(w uint64) int {
	n := 0
	for w != 0 {
		w &= w - 1
		n++
	}

	return n
}

// sideways addition kernel: sum bit pairs, nibbles, and bytes within
// the register, then gather the byte sums into the top byte with a
// multiplication.
func sidewaysKernel(w uint64) int {
	w -= w >> 1 & swar1
	w = w&swar2 + w>>2&swar2
	w = (w + w>>4) & swar4

	return int(w * swar8 >> 56)
}

// hardware population count kernel
func popcountKernel(w uint64) int {
	return bits.OnesCount64(w)
}

// hardware population count kernel, double width
func popcountKernel2(w [2]uint64) int {
	return bits.OnesCount64(w[0]) + bits.OnesCount64(w[1])
}

// portable version of the hand-scheduled loop.  len(buf) must be a
// multiple of 8.
func popcntLoopGeneric(buf []byte) int {
	n := 0
	for ; len(buf) >= wordSize; buf = buf[wordSize:] {
		n += bits.OnesCount64(loadWord(buf))
	}

	return n
}
