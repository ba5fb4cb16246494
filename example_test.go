package popcount

import "fmt"

// This example counts the set bits of six bytes.  The numbers 1 and 2
// have one bit set each, while 3, 5, 6, and 9 have two bits set each,
// for a total of ten.
func ExampleCount() {
	buf := []byte{
		1, // bit 0 set
		2, // bit 1 set
		3, // bits 0 and 1 set
		5, // bits 0 and 2 set
		6, // bits 1 and 2 set
		9, // bits 0 and 3 set
	}

	n, err := Count(Popcount, buf)
	if err != nil {
		panic(err)
	}

	fmt.Println(n)
	// Output: 10
}

// This example splits the workers evenly between the hardware
// population count and sideways addition.
func ExampleMix() {
	buf := make([]byte, 1000)
	for i := range buf {
		buf[i] = 0x11
	}

	pool, err := NewPool(4)
	if err != nil {
		panic(err)
	}

	n, err := pool.Count(Mix{A: Popcount, B: SidewaysAddition, RatioA: 1, RatioB: 1}, buf)
	if err != nil {
		panic(err)
	}

	fmt.Println(n)
	// Output: 2000
}

func ExampleParseSelector() {
	sel, err := ParseSelector("mixed:popcnt,table,1:3")
	if err != nil {
		panic(err)
	}

	fmt.Println(sel)
	// Output: mixed:popcnt,table,1:3
}
