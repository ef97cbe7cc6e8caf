package murmur3_test

import (
	"math/rand"
	"testing"
	"time"

	ref "github.com/spaolacci/murmur3"

	"github.com/segmentio/paimon-go/internal/debug"
	"github.com/segmentio/paimon-go/internal/quick"
	"github.com/segmentio/paimon-go/murmur3"
)

func TestHash(t *testing.T) {
	tests := []struct {
		scenario string
		input    []byte
		hash     int32
	}{
		{scenario: "empty", input: []byte{}, hash: 142593372},
		{scenario: "one byte", input: []byte("a"), hash: 1485273170},
		{scenario: "positive tail", input: []byte("hello"), hash: -1008564952},
		{scenario: "negative tail byte", input: []byte{0xff}, hash: 1398487324},
		{scenario: "0x7f tail", input: []byte{0x7f}, hash: 1185089389},
		{scenario: "0x80 tail", input: []byte{0x80}, hash: 775851899},
		{scenario: "mixed sign tail", input: []byte{0x80, 0x01, 0xfe}, hash: -1563047820},
		{scenario: "aligned", input: []byte("hello world."), hash: -139938352},
		{scenario: "utf-8", input: []byte("你好"), hash: -1433715577},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			if h := murmur3.Hash(test.input, murmur3.DefaultSeed); h != test.hash {
				t.Errorf("hash mismatch: want=%d got=%d", test.hash, h)
			}
		})
	}
}

func TestHashWords(t *testing.T) {
	row := []byte{
		0, 0, 0, 0, 0, 0, 0, 0,
		1, 0, 0, 0, 0, 0, 0, 0,
	}
	if h := murmur3.HashWords(row, murmur3.DefaultSeed); h != 1465514398 {
		t.Errorf("hash mismatch: %d", h)
	}
	if h := murmur3.HashWords([]byte("hello world."), murmur3.DefaultSeed); h != -139938352 {
		t.Errorf("hash mismatch: %d", h)
	}
}

func TestHashWordsDropsTail(t *testing.T) {
	if debug.Invariants {
		t.Skip("unaligned inputs trip an assertion with the invariants tag")
	}

	tests := []struct {
		input []byte
		hash  int32
	}{
		{input: []byte("a"), hash: -582727230},
		{input: []byte{0xff}, hash: -582727230},
		{input: []byte("hello"), hash: 89687335},
		{input: []byte{0x80, 0x01, 0xfe}, hash: 1862275992},
		{input: []byte("你好"), hash: -1777295396},
	}

	for _, test := range tests {
		if h := murmur3.HashWords(test.input, murmur3.DefaultSeed); h != test.hash {
			t.Errorf("hash(%q): want=%d got=%d", test.input, test.hash, h)
		}
		if h := murmur3.Hash(test.input, murmur3.DefaultSeed); h == test.hash {
			t.Errorf("hash(%q): tail bytes were not mixed", test.input)
		}
	}
}

func TestHashWordsPanicsWithInvariants(t *testing.T) {
	if !debug.Invariants {
		t.Skip("requires the invariants build tag")
	}
	defer func() {
		if recover() == nil {
			t.Error("unaligned input did not panic")
		}
	}()
	murmur3.HashWords([]byte("abc"), murmur3.DefaultSeed)
}

func TestCanonicalVectors(t *testing.T) {
	tests := []struct {
		input []byte
		seed  uint32
		hash  uint32
	}{
		{input: []byte{}, seed: 1, hash: 0x514e28b7},
		{input: []byte{0x21, 0x43, 0x65, 0x87}, seed: 0, hash: 0xf55b516b},
		{input: []byte("aaaa"), seed: 0x9747b28c, hash: 0x5a97808a},
	}

	for _, test := range tests {
		if h := uint32(murmur3.HashWords(test.input, test.seed)); h != test.hash {
			t.Errorf("hash(%q): want=%08x got=%08x", test.input, test.hash, h)
		}
	}
}

func TestAlignedInputsMatchMurmur3(t *testing.T) {
	err := quick.Check(func(data []byte) bool {
		data = data[:len(data)&^3]
		want := int32(ref.Sum32WithSeed(data, murmur3.DefaultSeed))
		return murmur3.HashWords(data, murmur3.DefaultSeed) == want &&
			murmur3.Hash(data, murmur3.DefaultSeed) == want
	})
	if err != nil {
		t.Error(err)
	}
}

func TestMultiHashWords(t *testing.T) {
	const N = 10
	hashes := [N]int32{}
	values := [N][]byte{}

	for i := range values {
		values[i] = make([]byte, 4*i)
		for j := range values[i] {
			values[i][j] = byte(i + j)
		}
	}

	if n := murmur3.MultiHashWords(hashes[:], values[:], murmur3.DefaultSeed); n != N {
		t.Fatalf("wrong number of hashes: want=%d got=%d", N, n)
	}

	for i := range values {
		h := murmur3.HashWords(values[i], murmur3.DefaultSeed)

		if h != hashes[i] {
			t.Errorf("hash(%d): want=%08x got=%08x", i, h, hashes[i])
		}
	}
}

func BenchmarkHashWords(b *testing.B) {
	data := make([]byte, 64)
	rand.Read(data)
	b.SetBytes(int64(len(data)))
	benchmarkHashThroughput(b, func(seed uint32) int {
		murmur3.HashWords(data, seed)
		return 1
	})
}

func BenchmarkHash(b *testing.B) {
	data := make([]byte, 63)
	rand.Read(data)
	b.SetBytes(int64(len(data)))
	benchmarkHashThroughput(b, func(seed uint32) int {
		murmur3.Hash(data, seed)
		return 1
	})
}

func benchmarkHashThroughput(b *testing.B, f func(uint32) int) {
	hashes := int64(0)
	start := time.Now()

	for i := 0; i < b.N; i++ {
		hashes += int64(f(uint32(i)))
	}

	seconds := time.Since(start).Seconds()
	b.ReportMetric(float64(hashes)/seconds, "hash/s")
}
