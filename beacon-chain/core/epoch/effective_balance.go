package epoch

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessEffectiveBalanceUpdates recomputes each validator's effective
// balance from its actual balance, applying hysteresis so a balance
// oscillating near a rounding boundary doesn't flip the effective balance
// every epoch: it only moves down past a lower threshold or up past a
// higher one, and always in EffectiveBalanceIncrement steps.
func ProcessEffectiveBalanceUpdates(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	hysteresisIncrement := cfg.EffectiveBalanceIncrement / cfg.HysteresisQuotient
	downward := hysteresisIncrement * cfg.HysteresisDownwardMultiplier
	upward := hysteresisIncrement * cfg.HysteresisUpwardMultiplier

	validators := st.Validators()
	balances := st.Balances()
	for i, v := range validators {
		idx := primitives.ValidatorIndex(i)
		bal := balances[i]
		if bal+downward < v.EffectiveBalance || v.EffectiveBalance+upward < bal {
			newEffective := bal - bal%cfg.EffectiveBalanceIncrement
			if newEffective > cfg.MaxEffectiveBalance {
				newEffective = cfg.MaxEffectiveBalance
			}
			if newEffective != v.EffectiveBalance {
				v.EffectiveBalance = newEffective
				if err := st.UpdateValidatorAtIndex(idx, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
