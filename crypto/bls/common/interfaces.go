// Package common defines the BLS interfaces implemented by the blst-backed
// signature scheme, kept separate from the bls package so callers can depend
// on the interfaces without pulling in the cgo binding.
package common

// SecretKey represents a BLS secret key.
type SecretKey interface {
	PublicKey() PublicKey
	Sign(msg []byte) Signature
	Marshal() []byte
}

// PublicKey represents a BLS public key.
type PublicKey interface {
	Marshal() []byte
	Copy() PublicKey
	Aggregate(other PublicKey) PublicKey
	Equals(other PublicKey) bool
}

// Signature represents a BLS signature.
type Signature interface {
	Verify(pubKey PublicKey, msg []byte) bool
	Marshal() []byte
}
