package hyperminhash

import (
	"encoding/binary"
	"fmt"
)

// A packed integer array is framed with its bit width and element count as
// two little-endian 64-bit integers, followed by the elements' bits laid
// out MSB-first within each byte and zero-padded to a whole byte.
const packHeaderLen = 16

// packedLen returns the encoded size of n b-bit integers.
func packedLen(b uint, n int) int {
	return packHeaderLen + (int(b)*n+7)/8
}

// packBits encodes vals as b-bit unsigned integers. Values must fit in b
// bits; higher bits are discarded.
func packBits[T Register](b uint, vals []T) []byte {
	out := make([]byte, packedLen(b, len(vals)))
	binary.LittleEndian.PutUint64(out[0:], uint64(b))
	binary.LittleEndian.PutUint64(out[8:], uint64(len(vals)))

	pos := 0
	for _, v := range vals {
		for k := int(b) - 1; k >= 0; k-- {
			if uint64(v)>>uint(k)&1 == 1 {
				out[packHeaderLen+pos/8] |= 1 << (7 - pos%8)
			}
			pos++
		}
	}
	return out
}

// unpackBits decodes a packed array of n b-bit integers into register type
// T, verifying the frame against the expected register count and width.
func unpackBits[T Register](data []byte, wantBits uint, wantLen int) ([]T, error) {
	if len(data) < packHeaderLen {
		return nil, fmt.Errorf("%w: packed array truncated at %d bytes", ErrDecode, len(data))
	}
	b := binary.LittleEndian.Uint64(data[0:])
	n := binary.LittleEndian.Uint64(data[8:])
	if b != uint64(wantBits) {
		return nil, fmt.Errorf("%w: packed array has %d-bit elements, want %d", ErrDecode, b, wantBits)
	}
	if n != uint64(wantLen) {
		return nil, fmt.Errorf("%w: packed array has %d elements, want %d", ErrDecode, n, wantLen)
	}
	if want := packedLen(wantBits, wantLen); len(data) != want {
		return nil, fmt.Errorf("%w: packed array is %d bytes, want %d", ErrDecode, len(data), want)
	}

	vals := make([]T, wantLen)
	pos := 0
	for i := range vals {
		var v uint64
		for k := uint(0); k < wantBits; k++ {
			v <<= 1
			if data[packHeaderLen+pos/8]&(1<<(7-pos%8)) != 0 {
				v |= 1
			}
			pos++
		}
		vals[i] = T(v)
	}
	return vals, nil
}
