// Package validators implements registry mutations shared by block
// processing and epoch processing: activation-eligibility transitions,
// churn-limited exit queuing, and slashing penalties. Every function here
// mutates a *statenative.CachedBeaconState in place and returns only an
// error, matching the transition engine's copy-at-the-boundary convention.
package validators

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ChurnLimit returns how many validators may enter or exit the active set in
// a single epoch, scaling with the active validator count but never falling
// below the configured minimum.
func ChurnLimit(cfg *params.BeaconChainConfig, activeCount uint64) uint64 {
	limit := activeCount / cfg.ChurnLimitQuotient
	if limit < cfg.MinPerEpochChurnLimit {
		return cfg.MinPerEpochChurnLimit
	}
	return limit
}

// InitiateValidatorExit queues idx to leave the active set, assigning it the
// earliest exit epoch that respects the churn limit: if the current
// exit-queue epoch is already full, the validator is pushed to the next one.
func InitiateValidatorExit(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, idx primitives.ValidatorIndex) error {
	validators := st.Validators()
	v, err := st.ValidatorAtIndex(idx)
	if err != nil {
		return err
	}
	if v.ExitEpoch != cfg.FarFutureEpoch {
		return nil
	}

	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	exitQueueEpoch := cfg.FarFutureEpoch
	for _, other := range validators {
		if other.ExitEpoch == cfg.FarFutureEpoch {
			continue
		}
		candidate := other.ExitEpoch
		if candidate < currentEpoch+cfg.MaxSeedLookahead+1 {
			continue
		}
		if exitQueueEpoch == cfg.FarFutureEpoch || candidate > exitQueueEpoch {
			exitQueueEpoch = candidate
		}
	}
	if exitQueueEpoch == cfg.FarFutureEpoch {
		exitQueueEpoch = currentEpoch + cfg.MaxSeedLookahead + 1
	}

	exitQueueChurn := uint64(0)
	for _, other := range validators {
		if other.ExitEpoch == exitQueueEpoch {
			exitQueueChurn++
		}
	}
	active := st.ActiveValidatorIndices(currentEpoch)
	if exitQueueChurn >= ChurnLimit(cfg, uint64(len(active))) {
		exitQueueEpoch++
	}

	v.ExitEpoch = exitQueueEpoch
	v.WithdrawableEpoch = exitQueueEpoch + cfg.MinValidatorWithdrawabilityDelay
	return st.UpdateValidatorAtIndex(idx, v)
}

// SlashValidator marks idx slashed, forces its exit via InitiateValidatorExit,
// burns its slashed balance into the current epoch's slashings accumulator,
// and immediately credits the block proposer, the only party rewarded, with
// (effective balance / WhistleBlowerRewardQuotient) / ProposerRewardQuotient.
// The reward is newly credited; the slashed validator loses only the
// slashing penalty.
func SlashValidator(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, idx primitives.ValidatorIndex, minSlashingPenaltyQuotient uint64) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	if err := InitiateValidatorExit(cfg, st, idx); err != nil {
		return err
	}
	v, err := st.ValidatorAtIndex(idx)
	if err != nil {
		return err
	}
	v.Slashed = true
	if v.WithdrawableEpoch < currentEpoch+cfg.EpochsPerSlashingsVector {
		v.WithdrawableEpoch = currentEpoch + cfg.EpochsPerSlashingsVector
	}
	if err := st.UpdateValidatorAtIndex(idx, v); err != nil {
		return err
	}

	slashingIndex := uint64(currentEpoch) % uint64(cfg.EpochsPerSlashingsVector)
	slashings := st.Slashings()
	st.SetSlashingAtIndex(slashingIndex, slashings[slashingIndex]+v.EffectiveBalance)

	bal, err := st.BalanceAtIndex(idx)
	if err != nil {
		return err
	}
	penalty := v.EffectiveBalance / minSlashingPenaltyQuotient
	if penalty > bal {
		penalty = bal
	}
	if err := st.SetBalanceAtIndex(idx, bal-penalty); err != nil {
		return err
	}

	proposer, err := helpers.BeaconProposerIndex(cfg, st)
	if err != nil {
		return err
	}
	whistleblowerReward := v.EffectiveBalance / cfg.WhistleBlowerRewardQuotient
	proposerReward := whistleblowerReward / cfg.ProposerRewardQuotient
	proposerBal, err := st.BalanceAtIndex(proposer)
	if err != nil {
		return err
	}
	return st.SetBalanceAtIndex(proposer, proposerBal+proposerReward)
}

// ProcessRegistryUpdates advances activation-eligible validators into the
// activation queue and turns the queue into ActivationEpoch assignments
// bounded by the epoch's churn limit, then queues any validator whose
// effective balance has dropped below the ejection threshold for exit.
func ProcessRegistryUpdates(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	validators := st.Validators()

	for i, v := range validators {
		idx := primitives.ValidatorIndex(i)
		if isEligibleForActivationQueue(cfg, v) {
			v.ActivationEligibilityEpoch = currentEpoch + 1
			if err := st.UpdateValidatorAtIndex(idx, v); err != nil {
				return err
			}
		}
		if v.IsActive(currentEpoch) && v.EffectiveBalance <= cfg.EjectionBalance {
			if err := InitiateValidatorExit(cfg, st, idx); err != nil {
				return err
			}
		}
	}

	validators = st.Validators()
	active := st.ActiveValidatorIndices(currentEpoch)
	limit := ChurnLimit(cfg, uint64(len(active)))

	var queue []primitives.ValidatorIndex
	for i, v := range validators {
		if isEligibleForActivation(cfg, v, currentEpoch) {
			queue = append(queue, primitives.ValidatorIndex(i))
		}
	}
	sortByEligibilityEpochThenIndex(validators, queue)

	for i, idx := range queue {
		if uint64(i) >= limit {
			break
		}
		v := validators[idx]
		v.ActivationEpoch = helpers.ActivationExitEpoch(cfg, currentEpoch)
		if err := st.UpdateValidatorAtIndex(idx, v); err != nil {
			return err
		}
	}
	return nil
}

func isEligibleForActivationQueue(cfg *params.BeaconChainConfig, v blocks.Validator) bool {
	return v.ActivationEligibilityEpoch == cfg.FarFutureEpoch &&
		v.EffectiveBalance == cfg.MaxEffectiveBalance
}

func isEligibleForActivation(cfg *params.BeaconChainConfig, v blocks.Validator, currentEpoch primitives.Epoch) bool {
	return v.ActivationEligibilityEpoch <= currentEpoch &&
		v.ActivationEpoch == cfg.FarFutureEpoch
}

func sortByEligibilityEpochThenIndex(validators []blocks.Validator, queue []primitives.ValidatorIndex) {
	for i := 1; i < len(queue); i++ {
		for j := i; j > 0; j-- {
			a, b := validators[queue[j-1]], validators[queue[j]]
			if a.ActivationEligibilityEpoch < b.ActivationEligibilityEpoch {
				break
			}
			if a.ActivationEligibilityEpoch == b.ActivationEligibilityEpoch && queue[j-1] < queue[j] {
				break
			}
			queue[j-1], queue[j] = queue[j], queue[j-1]
		}
	}
}
