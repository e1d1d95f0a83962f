// Package epoch implements the per-epoch state transition: justification and
// finalization, rewards and penalties, registry and slashings maintenance,
// and the housekeeping resets that run once at every epoch boundary.
package epoch

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/altair"
	"github.com/go-beacon/consensus-core/beacon-chain/core/epoch/precompute"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/validators"
	"github.com/go-beacon/consensus-core/config/params"
)

// ProcessEpoch runs the full epoch transition against st. ProcessSlots calls
// it as part of slot advancement, once st has been moved to the first slot
// of a new epoch; ProcessEpoch itself does not check for an epoch boundary.
func ProcessEpoch(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	bal, vals, err := precompute.New(cfg, st)
	if err != nil {
		return err
	}
	if err := ProcessJustificationAndFinalization(cfg, st, bal); err != nil {
		return err
	}
	if err := ProcessInactivityUpdates(cfg, st, vals); err != nil {
		return err
	}
	if err := precompute.ProcessRewardsAndPenalties(cfg, st, bal, vals); err != nil {
		return err
	}
	if err := validators.ProcessRegistryUpdates(cfg, st); err != nil {
		return err
	}
	if err := precompute.ProcessSlashings(cfg, st, bal, vals); err != nil {
		return err
	}
	if err := ProcessEth1DataReset(cfg, st); err != nil {
		return err
	}
	if err := ProcessEffectiveBalanceUpdates(cfg, st); err != nil {
		return err
	}
	if err := ProcessSlashingsReset(cfg, st); err != nil {
		return err
	}
	if err := ProcessRandaoMixesReset(cfg, st); err != nil {
		return err
	}
	if err := ProcessParticipationFlagUpdates(st); err != nil {
		return err
	}
	if err := altair.ProcessSyncCommitteeUpdates(cfg, st); err != nil {
		return err
	}
	st.InvalidateActiveIndices(helpers.NextEpoch(cfg, st.Slot()))
	return nil
}
