package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/crypto/bls"
)

// VerifySigningRoot derives the domain for domainType at epoch, builds the
// signing root for the given container root, and checks sig against the
// validator at proposerIdx's public key. Every single-signer signature in
// block processing (proposer header, randao reveal, voluntary exit) goes
// through this one path.
func VerifySigningRoot(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, idx primitives.ValidatorIndex, epoch primitives.Epoch, domainType [4]byte, objectRoot [32]byte, sig [96]byte) error {
	v, err := st.ValidatorAtIndex(idx)
	if err != nil {
		return coreerr.PreconditionMissingf("could not look up validator %d: %v", idx, err)
	}
	pub, err := bls.PublicKeyFromBytes(v.PublicKey[:])
	if err != nil {
		return coreerr.WrapInvalidSignature(err, "could not deserialize validator public key")
	}
	signature, err := bls.SignatureFromBytes(sig[:])
	if err != nil {
		return coreerr.WrapInvalidSignature(err, "could not deserialize signature")
	}
	domain := helpers.Domain(cfg, st, epoch, domainType)
	signingRoot := helpers.ComputeSigningRoot(objectRoot, domain)
	if !signature.Verify(pub, signingRoot[:]) {
		return coreerr.InvalidSignaturef("signature does not verify for validator %d", idx)
	}
	return nil
}
