package trie

import "github.com/go-beacon/consensus-core/crypto/hash"

// ZeroHashes is a precomputed table of zero-subtree roots, indexed by tree
// depth, used to pad Merkle trees up to the next power of two without
// hashing actual zero leaves at every level.
var ZeroHashes [64][32]byte

func init() {
	ZeroHashes[0] = [32]byte{}
	for i := 1; i < len(ZeroHashes); i++ {
		ZeroHashes[i] = hash.Hash(append(ZeroHashes[i-1][:], ZeroHashes[i-1][:]...))
	}
}
