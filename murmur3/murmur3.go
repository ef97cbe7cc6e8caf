// Package murmur3 implements the seeded 32 bits Murmur3 (x86_32) variant used
// by Paimon to hash binary rows.
//
// The function differs from the canonical Murmur3 in how it consumes the tail
// of inputs which are not a multiple of 4 bytes: every remaining byte is sign
// extended to 32 bits and mixed on its own, which is what the Java
// implementation does when it reads bytes as signed values. HashWords covers
// the code path which only ever sees word aligned inputs, and drops the tail
// entirely when that assumption is violated.
package murmur3

import (
	"encoding/binary"
	"math/bits"

	"github.com/segmentio/paimon-go/internal/debug"
)

// DefaultSeed is the seed used by Paimon for row hashes.
const DefaultSeed = 42

const (
	c1 = 0xcc9e2d51
	c2 = 0x1b873593
	c3 = 0xe6546b64
	f1 = 0x85ebca6b
	f2 = 0xc2b2ae35
)

func mixK1(k1 uint32) uint32 {
	k1 *= c1
	k1 = bits.RotateLeft32(k1, 15)
	k1 *= c2
	return k1
}

func mixH1(h1, k1 uint32) uint32 {
	h1 ^= k1
	h1 = bits.RotateLeft32(h1, 13)
	return h1*5 + c3
}

func fmix(h1, length uint32) uint32 {
	h1 ^= length
	h1 ^= h1 >> 16
	h1 *= f1
	h1 ^= h1 >> 13
	h1 *= f2
	h1 ^= h1 >> 16
	return h1
}

func hashWords(h1 uint32, data []byte) uint32 {
	for len(data) >= 4 {
		h1 = mixH1(h1, mixK1(binary.LittleEndian.Uint32(data)))
		data = data[4:]
	}
	return h1
}

// Hash returns the hash of data. Inputs of any length are accepted.
func Hash(data []byte, seed uint32) int32 {
	aligned := len(data) &^ 3
	h1 := hashWords(seed, data[:aligned])

	for _, b := range data[aligned:] {
		h1 = mixH1(h1, mixK1(uint32(int32(int8(b)))))
	}

	return int32(fmix(h1, uint32(len(data))))
}

// HashWords returns the hash of data, which is expected to have a length that
// is a multiple of 4.
//
// When it does not, only the aligned prefix is mixed while the finalization
// still accounts for the full length. Builds with the invariants tag panic
// instead.
func HashWords(data []byte, seed uint32) int32 {
	debug.Assertf(len(data)%4 == 0, "murmur3: input length %d is not a multiple of 4", len(data))
	h1 := hashWords(seed, data)
	return int32(fmix(h1, uint32(len(data))))
}

// MultiHashWords writes to hashes the result of calling HashWords on each of
// the slices in values, returning the number of hashes written.
func MultiHashWords(hashes []int32, values [][]byte, seed uint32) int {
	n := len(hashes)
	if n > len(values) {
		n = len(values)
	}
	for i := range hashes[:n] {
		hashes[i] = HashWords(values[i], seed)
	}
	return n
}
