package epoch

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
)

// ProcessSlashingsReset zeroes out the slashings-vector slot that is about to
// be reused, EpochsPerSlashingsVector epochs from now. The vector is a ring
// buffer of total-slashed-per-epoch entries used to compute the correlation
// penalty in precompute.ProcessSlashings.
func ProcessSlashingsReset(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	nextEpoch := helpers.NextEpoch(cfg, st.Slot())
	index := uint64(nextEpoch) % uint64(cfg.EpochsPerSlashingsVector)
	st.SetSlashingAtIndex(index, 0)
	return nil
}
