package ssz

import (
	"github.com/prysmaticlabs/gohashtree"

	"github.com/go-beacon/consensus-core/container/trie"
)

// Hashable is implemented by every consensus container capable of computing
// its own SSZ root.
type Hashable interface {
	HashTreeRoot() ([32]byte, error)
}

// MerkleizeVector hashes a list of 32-byte elements using the vectorized
// sha256 routine, padding odd layers with the depth-appropriate zero-hash.
func MerkleizeVector(elements [][32]byte, length uint64) [32]byte {
	depth := Depth(length)
	if len(elements) == 0 {
		return trie.ZeroHashes[depth]
	}
	for i := uint8(0); i < depth; i++ {
		if len(elements)%2 == 1 {
			elements = append(elements, trie.ZeroHashes[i])
		}
		next := make([][32]byte, len(elements)/2)
		if err := gohashtree.Hash(next, elements); err != nil {
			h := DefaultHasher()
			for j := range next {
				next[j] = h.Combi(elements[2*j], elements[2*j+1])
			}
		}
		elements = next
	}
	return elements[0]
}

// MerkleizeVectorSSZ hashes each element and Merkleizes the resulting roots.
func MerkleizeVectorSSZ[T Hashable](elements []T, length uint64) ([32]byte, error) {
	roots := make([][32]byte, len(elements))
	for i, el := range elements {
		r, err := el.HashTreeRoot()
		if err != nil {
			return [32]byte{}, err
		}
		roots[i] = r
	}
	return MerkleizeVector(roots, length), nil
}

// MerkleizeListSSZ is MerkleizeVectorSSZ with the list's length mixed in.
func MerkleizeListSSZ[T Hashable](elements []T, limit uint64) ([32]byte, error) {
	body, err := MerkleizeVectorSSZ(elements, limit)
	if err != nil {
		return [32]byte{}, err
	}
	lenBytes := Uint64Root(uint64(len(elements)))
	return MixInLength(body, lenBytes[:8]), nil
}

// MerkleizeByteSliceSSZ Merkleizes a byte slice as a fixed vector of bytes.
func MerkleizeByteSliceSSZ(input []byte) ([32]byte, error) {
	numChunks := (len(input) + 31) / 32
	if numChunks == 0 {
		return trie.ZeroHashes[0], nil
	}
	chunks := make([][32]byte, numChunks)
	for i := range chunks {
		start := 32 * i
		end := start + 32
		if end > len(input) {
			end = len(input)
		}
		copy(chunks[i][:], input[start:end])
	}
	return MerkleizeVector(chunks, uint64(numChunks)), nil
}
