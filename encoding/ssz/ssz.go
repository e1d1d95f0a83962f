// Package ssz implements the SSZ-style Merkleization used to compute the
// canonical hash_tree_root of consensus containers: fixed-width
// little-endian integers, left-packed Merkle trees padded to the next power
// of two, and container roots formed by Merkleizing the concatenation of
// field roots.
package ssz

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"github.com/prysmaticlabs/gohashtree"

	"github.com/go-beacon/consensus-core/container/trie"
	"github.com/go-beacon/consensus-core/crypto/hash"
)

// Hasher combines two sibling nodes into their parent.
type Hasher interface {
	Combi(a, b [32]byte) [32]byte
}

type sha256Hasher struct{ fn hash.HashFn }

func (h sha256Hasher) Combi(a, b [32]byte) [32]byte { return h.fn(a, b) }

// DefaultHasher returns the sha256-backed Hasher used throughout the core.
func DefaultHasher() Hasher {
	return sha256Hasher{fn: hash.CustomSHA256Hasher()}
}

// Pack splits and zero-pads a list of basic-type byte encodings into
// 32-byte chunks, per the SSZ packing rule for lists of small fixed-size
// elements.
func Pack(inputs [][]byte) ([][]byte, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	var flat []byte
	for _, in := range inputs {
		flat = append(flat, in...)
	}
	numChunks := (len(flat) + 31) / 32
	if numChunks == 0 {
		numChunks = 1
	}
	chunks := make([][]byte, numChunks)
	for i := range chunks {
		chunk := make([]byte, 32)
		start := i * 32
		end := start + 32
		if end > len(flat) {
			end = len(flat)
		}
		copy(chunk, flat[start:end])
		chunks[i] = chunk
	}
	return chunks, nil
}

// BitwiseMerkleize Merkleizes chunks (already 32-byte aligned) up to limit
// leaves, padding with zero-hashes.
func BitwiseMerkleize(hasher Hasher, chunks [][]byte, count, limit uint64) ([32]byte, error) {
	if count > limit {
		return [32]byte{}, errors.Errorf("merkleizing %d chunks exceeds limit %d", count, limit)
	}
	leaves := make([][32]byte, len(chunks))
	for i, c := range chunks {
		copy(leaves[i][:], c)
	}
	return merkleizeLeaves(hasher, leaves, limit), nil
}

func merkleizeLeaves(hasher Hasher, leaves [][32]byte, limit uint64) [32]byte {
	depth := Depth(limit)
	if len(leaves) == 0 {
		return trie.ZeroHashes[depth]
	}
	layer := leaves
	for d := uint8(0); d < depth; d++ {
		next := make([][32]byte, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			if i+1 < len(layer) {
				next = append(next, hasher.Combi(layer[i], layer[i+1]))
			} else {
				next = append(next, hasher.Combi(layer[i], trie.ZeroHashes[d]))
			}
		}
		layer = next
	}
	return layer[0]
}

// Depth returns the Merkle-tree depth needed to hold v leaves.
func Depth(v uint64) uint8 {
	if v <= 1 {
		return 0
	}
	v--
	var out uint8
	for v > 0 {
		v >>= 1
		out++
	}
	return out
}

// MixInLength hashes root together with a 32-byte little-endian length
// field, per SSZ's "mix in length" convention for variable-size lists.
func MixInLength(root [32]byte, length []byte) [32]byte {
	chunks := make([][32]byte, 2)
	chunks[0] = root
	copy(chunks[1][:], length)
	if err := gohashtree.Hash(chunks, chunks); err != nil {
		h := hash.CustomSHA256Hasher()
		return h(chunks[0], chunks[1])
	}
	return chunks[0]
}

// Uint64Root returns the little-endian Merkle leaf for a uint64.
func Uint64Root(val uint64) [32]byte {
	var out [32]byte
	binary.LittleEndian.PutUint64(out[:8], val)
	return out
}
