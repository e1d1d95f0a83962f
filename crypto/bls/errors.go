package bls

import "github.com/pkg/errors"

var (
	// ErrDeserialize is returned when a compressed key or signature could
	// not be decompressed onto the curve.
	ErrDeserialize = errors.New("could not deserialize BLS point")
	// ErrMismatchedLengths is returned when batch-verification inputs do
	// not all have equal length.
	ErrMismatchedLengths = errors.New("mismatched signature, message, and public key slice lengths")
)
