package hyperminhash

import (
	"encoding/binary"
	"fmt"
)

// Wire format: p, q, r as little-endian uint32, one collision-mode tag
// byte ('a', 'p' or 'f'), then the leading-zero registers packed at q+1
// bits each and the tails packed at r bits each.
const headerLen = 13

/*
MarshalBinary implements the encoding.BinaryMarshaler interface.
The encoding is byte-compatible across implementations of this sketch and
independent of the register type T.
*/
func (sk *Sketch[T]) MarshalBinary() ([]byte, error) {
	regs := packBits(sk.q+1, sk.reg)
	tails := packBits(sk.r, sk.sub)

	data := make([]byte, headerLen, headerLen+len(regs)+len(tails))
	binary.LittleEndian.PutUint32(data[0:], uint32(sk.p))
	binary.LittleEndian.PutUint32(data[4:], uint32(sk.q))
	binary.LittleEndian.PutUint32(data[8:], uint32(sk.r))
	data[12] = sk.mode.tag()
	data = append(data, regs...)
	data = append(data, tails...)
	return data, nil
}

/*
UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
It reconstructs the sketch serialized by MarshalBinary, failing with
ErrDecode on a bad mode tag, truncated buffer, or inconsistent lengths,
and with ErrParameter if the encoded parameters are invalid or the tails
do not fit the register type T.
*/
func (sk *Sketch[T]) UnmarshalBinary(data []byte) error {
	if len(data) < headerLen {
		return fmt.Errorf("%w: sketch truncated at %d bytes", ErrDecode, len(data))
	}
	p := uint(binary.LittleEndian.Uint32(data[0:]))
	q := uint(binary.LittleEndian.Uint32(data[4:]))
	r := uint(binary.LittleEndian.Uint32(data[8:]))
	mode, err := modeFromTag(data[12])
	if err != nil {
		return err
	}

	out, err := New[T](p, q, r, mode)
	if err != nil {
		return err
	}
	m := out.Len()

	regsEnd := headerLen + packedLen(q+1, m)
	tailsEnd := regsEnd + packedLen(r, m)
	if len(data) != tailsEnd {
		return fmt.Errorf("%w: sketch is %d bytes, want %d", ErrDecode, len(data), tailsEnd)
	}

	out.reg, err = unpackBits[uint8](data[headerLen:regsEnd], q+1, m)
	if err != nil {
		return err
	}
	out.sub, err = unpackBits[T](data[regsEnd:tailsEnd], r, m)
	if err != nil {
		return err
	}

	*sk = *out
	return nil
}

// Deserialize reconstructs a sketch from the bytes produced by
// MarshalBinary.
func Deserialize[T Register](data []byte) (*Sketch[T], error) {
	sk := new(Sketch[T])
	if err := sk.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return sk, nil
}
