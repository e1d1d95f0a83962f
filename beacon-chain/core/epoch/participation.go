package epoch

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/epoch/precompute"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessParticipationFlagUpdates rotates this epoch's participation record
// into the previous-epoch record and clears the current one, so the next epoch
// starts recording fresh attestations against an empty current record.
func ProcessParticipationFlagUpdates(st *statenative.CachedBeaconState) error {
	st.RotateParticipation()
	return nil
}

// ProcessInactivityUpdates advances the inactivity score of every validator
// active in the previous epoch: a validator that was timely for the target
// loses one point (never below zero), any other gains InactivityScoreBias
// with no upper bound. Outside an inactivity leak every such score is then
// further reduced by InactivityScoreRecoveryRate, floored at zero.
func ProcessInactivityUpdates(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, vals []precompute.Validator) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	if currentEpoch == cfg.GenesisEpoch {
		return nil
	}
	finalized := st.FinalizedCheckpoint()
	prevEpoch := helpers.PrevEpoch(cfg, st.Slot())
	inLeak := uint64(prevEpoch)-uint64(finalized.Epoch) > uint64(cfg.MinEpochsToInactivityPenalty)

	scores := st.InactivityScores()
	for i, v := range vals {
		if !v.IsActivePrevEpoch {
			continue
		}
		idx := primitives.ValidatorIndex(i)
		score := scores[idx]
		if hasTimelyTarget(v.PrevEpochFlags) {
			if score > 0 {
				score--
			}
		} else {
			score += cfg.InactivityScoreBias
		}
		if !inLeak && score > cfg.InactivityScoreRecoveryRate {
			score -= cfg.InactivityScoreRecoveryRate
		} else if !inLeak {
			score = 0
		}
		st.SetInactivityScoreAtIndex(idx, score)
	}
	return nil
}

func hasTimelyTarget(flags byte) bool { return flags&blocks.TimelyTargetFlag != 0 }
