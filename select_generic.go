// Copyright (c) 2020 Robert Clausecker <fuz@fuz.su>

//go:build !amd64 || purego

package popcount

// generic variant only
var loopFuncs = []loopImpl{{popcntLoopGeneric, "generic", true}}
