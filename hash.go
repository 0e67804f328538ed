package hyperminhash

import (
	"github.com/dgryski/go-farm"
	"github.com/twmb/murmur3"
)

/*
Hasher produces the 128-bit element hash the sketch is built on. The two
halves feed different parts of the register update: the first drives the
leading-zero counter, the second selects the bucket and supplies the
minhash tail bits. Implementations must be deterministic.
*/
type Hasher interface {
	Sum128(data []byte) (uint64, uint64)
}

// Murmur3Hasher is the default hasher. It computes murmur3 x64_128, so
// sketches fed the canonical decimal encoding of their elements are
// hash-compatible with implementations built on mmh3.
type Murmur3Hasher struct{}

// Sum128 returns the two 64-bit halves of the murmur3 x64_128 digest.
func (Murmur3Hasher) Sum128(data []byte) (uint64, uint64) {
	return murmur3.Sum128(data)
}

// FarmHasher hashes with farmhash Fingerprint128. Sketches built with
// different hashers must never be merged or compared.
type FarmHasher struct{}

// Sum128 returns the two 64-bit halves of the farmhash fingerprint.
func (FarmHasher) Sum128(data []byte) (uint64, uint64) {
	return farm.Fingerprint128(data)
}
