package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/crypto/hash"
	"github.com/go-beacon/consensus-core/encoding/ssz"
)

// ProcessRandao verifies the proposer's randao reveal against its own
// public key and mixes it into the randao mix for the current epoch, the
// chain's sole source of unpredictability for future shuffling.
func ProcessRandao(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, proposerIndex primitives.ValidatorIndex, randaoReveal [96]byte) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	epochRoot := ssz.Uint64Root(uint64(currentEpoch))
	if err := VerifySigningRoot(cfg, st, proposerIndex, currentEpoch, cfg.DomainRandao, epochRoot, randaoReveal); err != nil {
		return coreerr.WrapInvalidSignature(err, "could not verify randao reveal")
	}

	mixIndex := uint64(currentEpoch) % uint64(cfg.EpochsPerHistoricalVector)
	oldMix := st.RandaoMixAtIndex(mixIndex)
	revealHash := hash.Hash(randaoReveal[:])
	newMix := hash.Hash(append(append([]byte{}, oldMix[:]...), revealHash[:]...))
	st.SetRandaoMixAtIndex(mixIndex, newMix)
	return nil
}
