// Package trie defines a sparse Merkle trie used for the deposit contract
// style incremental root (and reused by callers needing a mutable, indexable
// Merkle structure rather than the one-shot Merkleize helpers in encoding/ssz).
package trie

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/crypto/hash"
	"github.com/go-beacon/consensus-core/encoding/bytesutil"
)

// SparseMerkleTrie is a fixed-depth, incrementally updatable Merkle trie.
type SparseMerkleTrie struct {
	depth         uint
	branches      [][][]byte
	originalItems [][]byte
}

// NewTrie returns an empty trie of the given depth, seeded with a single
// zero leaf.
func NewTrie(depth uint64) (*SparseMerkleTrie, error) {
	var zeroBytes [32]byte
	return GenerateTrieFromItems([][]byte{zeroBytes[:]}, depth)
}

// GenerateTrieFromItems builds a trie bottom-up from a list of leaves.
func GenerateTrieFromItems(items [][]byte, depth uint64) (*SparseMerkleTrie, error) {
	if len(items) == 0 {
		return nil, errors.New("no items provided to generate Merkle trie")
	}
	layers := make([][][]byte, depth+1)
	transformed := make([][]byte, len(items))
	for i := range items {
		arr := bytesutil.ToBytes32(items[i])
		transformed[i] = arr[:]
	}
	layers[0] = transformed
	for i := uint64(0); i < depth; i++ {
		if len(layers[i])%2 == 1 {
			layers[i] = append(layers[i], ZeroHashes[i][:])
		}
		next := make([][]byte, 0, len(layers[i])/2)
		for j := 0; j < len(layers[i]); j += 2 {
			concat := hash.Hash(append(append([]byte{}, layers[i][j]...), layers[i][j+1]...))
			next = append(next, concat[:])
		}
		layers[i+1] = next
	}
	return &SparseMerkleTrie{branches: layers, originalItems: items, depth: uint(depth)}, nil
}

// Items returns the original leaves inserted into the trie.
func (m *SparseMerkleTrie) Items() [][]byte { return m.originalItems }

// HashTreeRoot mixes the trie's root with the little-endian count of items,
// matching the deposit-contract incremental root convention.
func (m *SparseMerkleTrie) HashTreeRoot() ([32]byte, error) {
	enc := [32]byte{}
	count := uint64(len(m.originalItems))
	if len(m.originalItems) == 1 && bytes.Equal(m.originalItems[0], ZeroHashes[0][:]) {
		count = 0
	}
	binary.LittleEndian.PutUint64(enc[:], count)
	root := m.branches[len(m.branches)-1][0]
	return hash.Hash(append(append([]byte{}, root...), enc[:]...)), nil
}

// Insert writes item at index, updating every ancestor hash on the path to
// the root.
func (m *SparseMerkleTrie) Insert(item []byte, index int) error {
	if index < 0 {
		return errors.Errorf("negative index provided: %d", index)
	}
	for index >= len(m.branches[0]) {
		m.branches[0] = append(m.branches[0], ZeroHashes[0][:])
	}
	leaf := bytesutil.ToBytes32(item)
	m.branches[0][index] = leaf[:]
	if index >= len(m.originalItems) {
		m.originalItems = append(m.originalItems, leaf[:])
	} else {
		m.originalItems[index] = leaf[:]
	}
	cur := index
	root := leaf
	for i := 0; i < int(m.depth); i++ {
		isLeft := cur%2 == 0
		neighborIdx := cur ^ 1
		var neighbor []byte
		if neighborIdx >= len(m.branches[i]) {
			neighbor = ZeroHashes[i][:]
		} else {
			neighbor = m.branches[i][neighborIdx]
		}
		if isLeft {
			root = hash.Hash(append(append([]byte{}, root[:]...), neighbor...))
		} else {
			root = hash.Hash(append(append([]byte{}, neighbor...), root[:]...))
		}
		parentIdx := cur / 2
		if parentIdx >= len(m.branches[i+1]) {
			m.branches[i+1] = append(m.branches[i+1], root[:])
		} else {
			m.branches[i+1][parentIdx] = root[:]
		}
		cur = parentIdx
	}
	return nil
}

// MerkleProof returns the sibling path from leaf index up to the root,
// followed by the little-endian item count as required by the deposit
// contract's proof convention.
func (m *SparseMerkleTrie) MerkleProof(index int) ([][]byte, error) {
	if index < 0 {
		return nil, errors.Errorf("merkle index is negative: %d", index)
	}
	if index >= len(m.branches[0]) {
		return nil, errors.Errorf("merkle index out of range in trie, max range: %d, received: %d", len(m.branches[0]), index)
	}
	proof := make([][]byte, m.depth+1)
	for i := uint(0); i < m.depth; i++ {
		subIndex := (uint(index) / (1 << i)) ^ 1
		if subIndex < uint(len(m.branches[i])) {
			item := bytesutil.ToBytes32(m.branches[i][subIndex])
			proof[i] = item[:]
		} else {
			proof[i] = ZeroHashes[i][:]
		}
	}
	enc := [32]byte{}
	binary.LittleEndian.PutUint64(enc[:], uint64(len(m.originalItems)))
	proof[len(proof)-1] = enc[:]
	return proof, nil
}

// VerifyMerkleProofWithDepth verifies a Merkle branch of the given depth
// against root.
func VerifyMerkleProofWithDepth(root, item []byte, merkleIndex uint64, proof [][]byte, depth uint64) bool {
	if uint64(len(proof)) != depth+1 {
		return false
	}
	if depth >= 64 {
		return false
	}
	node := bytesutil.ToBytes32(item)
	for i := uint64(0); i <= depth; i++ {
		if (merkleIndex/(uint64(1)<<i))%2 != 0 {
			node = hash.Hash(append(append([]byte{}, proof[i]...), node[:]...))
		} else {
			node = hash.Hash(append(append([]byte{}, node[:]...), proof[i]...))
		}
	}
	return bytes.Equal(root, node[:])
}

// VerifyMerkleProof verifies a proof whose depth is implied by its length.
func VerifyMerkleProof(root, item []byte, merkleIndex uint64, proof [][]byte) bool {
	if len(proof) == 0 {
		return false
	}
	return VerifyMerkleProofWithDepth(root, item, merkleIndex, proof, uint64(len(proof)-1))
}

// Copy performs a deep copy of the trie.
func (m *SparseMerkleTrie) Copy() *SparseMerkleTrie {
	dst := make([][][]byte, len(m.branches))
	for i, layer := range m.branches {
		dst[i] = make([][]byte, len(layer))
		for j, b := range layer {
			dst[i][j] = append([]byte{}, b...)
		}
	}
	items := make([][]byte, len(m.originalItems))
	for i, b := range m.originalItems {
		items[i] = append([]byte{}, b...)
	}
	return &SparseMerkleTrie{depth: m.depth, branches: dst, originalItems: items}
}

// NumOfItems returns the count of items in the trie, treating a single zero
// leaf as an empty trie.
func (m *SparseMerkleTrie) NumOfItems() int {
	var zero [32]byte
	if len(m.originalItems) == 1 && bytes.Equal(m.originalItems[0], zero[:]) {
		return 0
	}
	return len(m.originalItems)
}
