package epoch

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
)

// ProcessEth1DataReset clears the accumulated eth1 votes at the boundary of
// each voting period so the next period starts counting from zero.
func ProcessEth1DataReset(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	nextEpoch := helpers.NextEpoch(cfg, st.Slot())
	if uint64(nextEpoch)%uint64(cfg.EpochsPerEth1VotingPeriod) == 0 {
		st.ResetEth1DataVotes()
	}
	return nil
}
