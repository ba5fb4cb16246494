//go:build amd64 && !purego

package popcount

import "golang.org/x/sys/cpu"

// count the set bits of the words in buf with POPCNT.  len(buf) must
// be a multiple of 8.
//
//go:noescape
func popcntLoopAsm(buf []byte) int

var loopFuncs = []loopImpl{
	{popcntLoopAsm, "popcnt", cpu.X86.HasPOPCNT},
	{popcntLoopGeneric, "generic", true},
}
