package popcount

import "sync"

// lookup maps each byte value to its population count.  It is filled
// exactly once by InitTable and only read afterwards.
var (
	lookup     [256]uint8
	lookupOnce sync.Once
)

// InitTable computes the byte lookup table used by the Table kernel.
// Count calls it before running a table based count, so calling it
// explicitly is only needed to keep the table setup out of a timed
// region.  Repeated and concurrent calls are harmless; all calls
// return after the table is complete and visible to every goroutine.
func InitTable() {
	lookupOnce.Do(func() {
		var b [1]byte
		for i := range lookup {
			b[0] = byte(i)
			lookup[i] = uint8(countNaive(b[:]))
		}
	})
}
