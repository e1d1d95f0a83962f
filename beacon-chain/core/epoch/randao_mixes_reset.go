package epoch

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
)

// ProcessRandaoMixesReset seeds the randao mix slot the next epoch will read
// from with the current epoch's mix, so a lookback that lands exactly on the
// boundary still finds a valid value before any block in the next epoch has
// contributed randomness of its own.
func ProcessRandaoMixesReset(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	nextEpoch := helpers.NextEpoch(cfg, st.Slot())
	mix := st.RandaoMixAtIndex(uint64(currentEpoch) % uint64(cfg.EpochsPerHistoricalVector))
	st.SetRandaoMixAtIndex(uint64(nextEpoch)%uint64(cfg.EpochsPerHistoricalVector), mix)
	return nil
}
