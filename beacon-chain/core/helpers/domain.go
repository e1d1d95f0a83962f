package helpers

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/crypto/hash"
)

// Domain derives the signing domain for domainType at epoch, selecting
// between the state's previous and current fork version depending on which
// side of the fork boundary epoch falls, then mixing in the genesis
// validators root so signatures from one chain can never be replayed on a
// fork sharing the same validator set.
func Domain(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, epoch primitives.Epoch, domainType [4]byte) [32]byte {
	fork := st.Fork()
	version := fork.CurrentVersion
	if epoch < fork.Epoch {
		version = fork.PreviousVersion
	}
	return ComputeDomain(domainType, version, st.GenesisValidatorsRoot())
}

// ComputeDomain builds a signing domain from its three components directly,
// for callers (genesis construction, spec-vector tests) that don't have a
// live state to read a fork from.
func ComputeDomain(domainType [4]byte, forkVersion [4]byte, genesisValidatorsRoot [32]byte) [32]byte {
	buf := make([]byte, 4+32)
	copy(buf[:4], forkVersion[:])
	copy(buf[4:], genesisValidatorsRoot[:])
	forkDataRoot := hash.Hash(buf)

	var domain [32]byte
	copy(domain[:4], domainType[:])
	copy(domain[4:], forkDataRoot[:28])
	return domain
}

// ComputeSigningRoot mixes a domain into an object's data root, producing the
// value that gets BLS-signed rather than the raw data root, so a signature
// scoped to one domain can never be replayed as if made in another.
func ComputeSigningRoot(objectRoot [32]byte, domain [32]byte) [32]byte {
	buf := make([]byte, 64)
	copy(buf[:32], objectRoot[:])
	copy(buf[32:], domain[:])
	return hash.Hash(buf)
}
