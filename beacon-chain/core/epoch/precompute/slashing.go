package precompute

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessSlashings applies the epoch-boundary penalty to each slashed
// validator whose withdrawable epoch is exactly half a slashings vector after
// the current epoch: each one is charged a share of the total slashed balance
// over the slashings vector, proportional to its own effective balance,
// scaled by ProportionalSlashingMultiplier.
func ProcessSlashings(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, bal *Balance, vals []Validator) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	totalSlashed := primitives.Gwei(0)
	for _, s := range st.Slashings() {
		totalSlashed = totalSlashed.AddGwei(primitives.Gwei(s))
	}
	adjusted := primitives.Gwei(uint64(totalSlashed) * cfg.ProportionalSlashingMultiplier)
	totalActive := bal.ActiveCurrentEpoch
	increment := cfg.EffectiveBalanceIncrement

	for i, v := range vals {
		if !v.IsSlashed {
			continue
		}
		idx := primitives.ValidatorIndex(i)
		record, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return err
		}
		if record.WithdrawableEpoch != currentEpoch+cfg.EpochsPerSlashingsVector/2 {
			continue
		}
		penaltyNumerator := (v.EffectiveBalance / increment) * uint64(minGwei(adjusted, totalActive))
		penalty := penaltyNumerator / uint64(totalActive) * increment
		curBal, err := st.BalanceAtIndex(idx)
		if err != nil {
			return err
		}
		if penalty > curBal {
			penalty = curBal
		}
		if err := st.SetBalanceAtIndex(idx, curBal-penalty); err != nil {
			return err
		}
	}
	return nil
}

func minGwei(a, b primitives.Gwei) primitives.Gwei {
	if a < b {
		return a
	}
	return b
}
