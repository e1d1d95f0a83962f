package precompute

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessRewardsAndPenalties applies the previous epoch's attestation
// rewards and penalties to every validator's balance, using the Altair
// weighted-component formula (source/target/head each contribute a fixed
// share of the base reward) plus the inactivity-leak penalty for validators
// still lagging while the chain hasn't finalized recently.
func ProcessRewardsAndPenalties(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, bal *Balance, vals []Validator) error {
	prevEpoch := helpers.PrevEpoch(cfg, st.Slot())
	if prevEpoch == cfg.GenesisEpoch {
		return nil
	}
	inactivityScores := st.InactivityScores()
	balances := st.Balances()
	finalityDelay := finalityDelay(cfg, st)

	for i, v := range vals {
		if !v.IsActivePrevEpoch {
			continue
		}
		idx := primitives.ValidatorIndex(i)
		base := baseReward(cfg, bal.ActiveCurrentEpoch, v.EffectiveBalance)

		var reward, penalty uint64
		reward += componentDelta(base, cfg.TimelySourceWeight, cfg.WeightDenominator, bal.PrevEpochSource, bal.ActivePrevEpoch, hasFlag(v.PrevEpochFlags, blocks.TimelySourceFlag))
		reward += componentDelta(base, cfg.TimelyTargetWeight, cfg.WeightDenominator, bal.PrevEpochTarget, bal.ActivePrevEpoch, hasFlag(v.PrevEpochFlags, blocks.TimelyTargetFlag))
		reward += componentDelta(base, cfg.TimelyHeadWeight, cfg.WeightDenominator, bal.PrevEpochHead, bal.ActivePrevEpoch, hasFlag(v.PrevEpochFlags, blocks.TimelyHeadFlag))

		if !hasFlag(v.PrevEpochFlags, blocks.TimelySourceFlag) {
			penalty += base * cfg.TimelySourceWeight / cfg.WeightDenominator
		}
		if !hasFlag(v.PrevEpochFlags, blocks.TimelyTargetFlag) {
			penalty += base * cfg.TimelyTargetWeight / cfg.WeightDenominator
		}
		if finalityDelay > uint64(cfg.MinEpochsToInactivityPenalty) {
			penalty += v.EffectiveBalance * uint64(inactivityScores[idx]) / (cfg.InactivityScoreBias * inactivityPenaltyQuotient(cfg))
		}

		if reward > penalty {
			balances[idx] += reward - penalty
		} else {
			deficit := penalty - reward
			if deficit > balances[idx] {
				balances[idx] = 0
			} else {
				balances[idx] -= deficit
			}
		}
	}
	for i, b := range balances {
		if err := st.SetBalanceAtIndex(primitives.ValidatorIndex(i), b); err != nil {
			return err
		}
	}
	return nil
}

func baseReward(cfg *params.BeaconChainConfig, totalActiveBalance primitives.Gwei, effectiveBalance uint64) uint64 {
	increments := effectiveBalance / cfg.EffectiveBalanceIncrement
	perIncrement := cfg.EffectiveBalanceIncrement * cfg.BaseRewardFactor / integerSqrt(uint64(totalActiveBalance))
	return perIncrement * increments
}

func componentDelta(base, weight, denom uint64, componentBalance, totalBalance primitives.Gwei, timely bool) uint64 {
	if !timely {
		return 0
	}
	return base * weight * uint64(componentBalance) / (uint64(totalBalance) * denom)
}

func finalityDelay(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) uint64 {
	prevEpoch := helpers.PrevEpoch(cfg, st.Slot())
	finalized := st.FinalizedCheckpoint()
	if uint64(prevEpoch) < uint64(finalized.Epoch) {
		return 0
	}
	return uint64(prevEpoch) - uint64(finalized.Epoch)
}

// inactivityPenaltyQuotient returns the divisor applied to inactivity-score
// based penalties; kept as its own function since post-Altair forks scale it
// differently and this is the seam that would change.
func inactivityPenaltyQuotient(cfg *params.BeaconChainConfig) uint64 {
	return cfg.InactivityPenaltyQuotient
}

func integerSqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
