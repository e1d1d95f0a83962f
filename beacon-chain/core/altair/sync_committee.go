// Package altair implements the sync-committee machinery introduced in the
// Altair upgrade: periodic committee rotation, layered on top of the same
// shuffling primitives phase0 committees use.
package altair

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessSyncCommitteeUpdates rotates the next sync committee into current
// and draws a fresh next committee, once every EpochsPerSyncCommitteePeriod
// at the period boundary.
func ProcessSyncCommitteeUpdates(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	nextEpoch := helpers.NextEpoch(cfg, st.Slot())
	if uint64(nextEpoch)%uint64(cfg.EpochsPerSyncCommitteePeriod) != 0 {
		return nil
	}
	current := st.NextSyncCommittee()
	next, err := computeSyncCommittee(cfg, st, nextEpoch+cfg.EpochsPerSyncCommitteePeriod)
	if err != nil {
		return err
	}
	st.SetSyncCommittees(current, next)
	return nil
}

// computeSyncCommittee draws SyncCommitteeSize public keys for the committee
// serving at epoch, from the active set as of epoch.
func computeSyncCommittee(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, epoch primitives.Epoch) ([][48]byte, error) {
	active := st.ActiveValidatorIndices(epoch)
	seed := helpers.Seed(cfg, st, epoch, cfg.DomainSyncCommittee)
	indices, err := helpers.ComputeSyncCommitteeIndices(cfg, st, active, seed, cfg.SyncCommitteeSize)
	if err != nil {
		return nil, err
	}
	validators := st.Validators()
	pubkeys := make([][48]byte, len(indices))
	for i, idx := range indices {
		pubkeys[i] = validators[idx].PublicKey
	}
	return pubkeys, nil
}
