// Package bytesutil defines byte-slice conversion helpers used throughout
// Merkleization and wire-adjacent code.
package bytesutil

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ToBytes returns a little-endian encoding of x truncated/padded to length n.
func ToBytes(x uint64, n int) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, x)
	if n <= 8 {
		return b[:n]
	}
	out := make([]byte, n)
	copy(out, b)
	return out
}

// ToBytes32 copies x into a fixed 32-byte array, truncating or zero-padding
// as needed.
func ToBytes32(x []byte) [32]byte {
	var out [32]byte
	copy(out[:], x)
	return out
}

// ToBytes4 copies x into a fixed 4-byte array.
func ToBytes4(x []byte) [4]byte {
	var out [4]byte
	copy(out[:], x)
	return out
}

// ToBytes48 copies x into a fixed 48-byte array.
func ToBytes48(x []byte) [48]byte {
	var out [48]byte
	copy(out[:], x)
	return out
}

// ToBytes96 copies x into a fixed 96-byte array.
func ToBytes96(x []byte) [96]byte {
	var out [96]byte
	copy(out[:], x)
	return out
}

// FromBytes8 reads a little-endian uint64 from the first 8 bytes of x.
func FromBytes8(x []byte) (uint64, error) {
	if len(x) < 8 {
		return 0, errors.New("input too short to decode a uint64")
	}
	return binary.LittleEndian.Uint64(x[:8]), nil
}

// SafeCopyRootAtIndex copies the 32-byte element at idx out of a flat byte
// slice of concatenated roots, returning an error if idx is out of range.
func SafeCopyRootAtIndex(roots []byte, idx uint64) ([]byte, error) {
	start := idx * 32
	if start+32 > uint64(len(roots)) {
		return nil, errors.Errorf("index %d out of range for root slice of length %d", idx, len(roots))
	}
	out := make([]byte, 32)
	copy(out, roots[start:start+32])
	return out, nil
}

// ReverseByteOrder returns a copy of input with its bytes reversed.
func ReverseByteOrder(input []byte) []byte {
	out := make([]byte, len(input))
	for i, b := range input {
		out[len(input)-1-i] = b
	}
	return out
}

// PadTo right-pads b with zero bytes until it reaches length l. If b is
// already at least that long it is returned unchanged.
func PadTo(b []byte, l int) []byte {
	if len(b) >= l {
		return b
	}
	out := make([]byte, l)
	copy(out, b)
	return out
}
