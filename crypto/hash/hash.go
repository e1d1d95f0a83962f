// Package hash provides the sha256 primitives used by the SSZ Merkleization
// routines. Every hash in the consensus core goes through here so the hash
// function can be swapped or instrumented in one place.
package hash

import "crypto/sha256"

// HashFn combines two 32-byte siblings into their parent node.
type HashFn func(a, b [32]byte) [32]byte

// CustomSHA256Hasher returns a HashFn backed by sha256, reusing a single
// hash.Hash across calls to avoid repeated allocation in hot Merkleization
// loops.
func CustomSHA256Hasher() HashFn {
	h := sha256.New()
	return func(a, b [32]byte) [32]byte {
		h.Reset()
		h.Write(a[:])
		h.Write(b[:])
		var out [32]byte
		copy(out[:], h.Sum(nil))
		return out
	}
}

// Hash returns the sha256 digest of data.
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}
