// Package randbuf fills benchmark buffers with random data.
package randbuf

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/zeebo/errs"
	"github.com/zeebo/pcg"
	"golang.org/x/sync/errgroup"
)

// Error is the class of errors returned by this package.
var Error = errs.Class("randbuf")

// A Generator fills buffers in parallel.  Every worker fills its own
// region of the buffer from a PCG generator seeded from Entropy.
type Generator struct {
	// Workers is the number of regions filled concurrently.  Values
	// below one mean one.
	Workers int

	// Entropy provides the seeds.  If nil, crypto/rand.Reader is used.
	Entropy io.Reader
}

// New allocates a buffer of size bytes and fills it.
func (g Generator) New(size int) ([]byte, error) {
	if size < 0 {
		return nil, Error.New("negative buffer size %d", size)
	}

	buf := make([]byte, size)
	if err := g.Fill(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// Fill overwrites buf with random bytes.  The last worker's region
// absorbs the bytes left over when dividing buf between the workers.
func (g Generator) Fill(buf []byte) error {
	workers := max(g.Workers, 1)
	entropy := g.Entropy
	if entropy == nil {
		entropy = rand.Reader
	}

	// seeds are read up front so that the entropy source is never
	// shared between goroutines
	seeds := make([]uint64, workers)
	var seed [8]byte
	for i := range seeds {
		if _, err := io.ReadFull(entropy, seed[:]); err != nil {
			return Error.Wrap(err)
		}
		seeds[i] = binary.LittleEndian.Uint64(seed[:])
	}

	per := len(buf) / workers

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		lo, hi := w*per, (w+1)*per
		if w == workers-1 {
			hi = len(buf)
		}

		region := buf[lo:hi]
		w := w
		eg.Go(func() error {
			fill(region, seeds[w])
			return nil
		})
	}

	return eg.Wait()
}

// fill writes the output of one generator into buf.
func fill(buf []byte, seed uint64) {
	rng := pcg.New(seed)
	for ; len(buf) >= 4; buf = buf[4:] {
		binary.LittleEndian.PutUint32(buf, rng.Uint32())
	}

	if len(buf) > 0 {
		var tail [4]byte
		binary.LittleEndian.PutUint32(tail[:], rng.Uint32())
		copy(buf, tail[:])
	}
}
