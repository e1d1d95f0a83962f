package bls

import "github.com/go-beacon/consensus-core/crypto/bls/common"

// SignatureSet is a batch of (signature, message, public key) triples
// accumulated across a block's operations so BLS verification can happen in
// a single batched pairing check instead of one call per operation.
type SignatureSet struct {
	Signatures [][]byte
	PublicKeys []common.PublicKey
	Messages   [][32]byte
}

// NewSet constructs an empty signature set.
func NewSet() *SignatureSet {
	return &SignatureSet{
		Signatures: [][]byte{},
		PublicKeys: []common.PublicKey{},
		Messages:   [][32]byte{},
	}
}

// Join merges set into s and returns s.
func (s *SignatureSet) Join(set *SignatureSet) *SignatureSet {
	s.Signatures = append(s.Signatures, set.Signatures...)
	s.PublicKeys = append(s.PublicKeys, set.PublicKeys...)
	s.Messages = append(s.Messages, set.Messages...)
	return s
}

// Verify batch-verifies every triple in the set as a single unit.
func (s *SignatureSet) Verify() (bool, error) {
	return VerifyMultipleSignatures(s.Signatures, s.Messages, s.PublicKeys)
}

// Copy returns a deep copy of s.
func (s *SignatureSet) Copy() *SignatureSet {
	signatures := make([][]byte, len(s.Signatures))
	pubkeys := make([]common.PublicKey, len(s.PublicKeys))
	messages := make([][32]byte, len(s.Messages))
	for i := range s.Signatures {
		sig := make([]byte, len(s.Signatures[i]))
		copy(sig, s.Signatures[i])
		signatures[i] = sig
	}
	for i := range s.PublicKeys {
		pubkeys[i] = s.PublicKeys[i].Copy()
	}
	copy(messages, s.Messages)
	return &SignatureSet{Signatures: signatures, PublicKeys: pubkeys, Messages: messages}
}
