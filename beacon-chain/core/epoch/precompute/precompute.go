// Package precompute computes the per-epoch aggregate balances that
// justification, reward, and inactivity processing all need, in a single
// pass over the validator registry rather than recomputing active/attesting
// sets from scratch for every downstream consumer.
package precompute

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Balance holds the aggregate effective balances precompute needs: total
// active balance, and the balance of validators that were timely for each of
// source, target, and head, split by which epoch's participation record they
// came from.
type Balance struct {
	ActiveCurrentEpoch  primitives.Gwei
	ActivePrevEpoch     primitives.Gwei
	CurrentEpochSource  primitives.Gwei
	CurrentEpochTarget  primitives.Gwei
	PrevEpochSource     primitives.Gwei
	PrevEpochTarget     primitives.Gwei
	PrevEpochHead       primitives.Gwei
}

// Validator carries the per-validator derived flags precompute produces,
// consumed by reward/penalty computation without re-reading participation
// bytes.
type Validator struct {
	IsActiveCurrentEpoch bool
	IsActivePrevEpoch    bool
	IsSlashed            bool
	CurrentEpochFlags    byte
	PrevEpochFlags       byte
	EffectiveBalance     uint64
}

// New computes the Balance totals and per-validator flag table for st in a
// single pass.
func New(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) (*Balance, []Validator, error) {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	prevEpoch := helpers.PrevEpoch(cfg, st.Slot())

	registry := st.Validators()
	currentParticipation := st.CurrentEpochParticipation()
	prevParticipation := st.PreviousEpochParticipation()

	bal := &Balance{}
	vals := make([]Validator, len(registry))

	for i, v := range registry {
		idx := primitives.ValidatorIndex(i)
		isCurrentActive := v.IsActive(currentEpoch)
		isPrevActive := v.IsActive(prevEpoch)
		vals[i] = Validator{
			IsActiveCurrentEpoch: isCurrentActive,
			IsActivePrevEpoch:    isPrevActive,
			IsSlashed:            v.Slashed,
			EffectiveBalance:     v.EffectiveBalance,
		}
		if int(idx) < len(currentParticipation) {
			vals[i].CurrentEpochFlags = currentParticipation[idx]
		}
		if int(idx) < len(prevParticipation) {
			vals[i].PrevEpochFlags = prevParticipation[idx]
		}

		eb := primitives.Gwei(v.EffectiveBalance)
		if isCurrentActive {
			bal.ActiveCurrentEpoch = bal.ActiveCurrentEpoch.AddGwei(eb)
		}
		if isPrevActive {
			bal.ActivePrevEpoch = bal.ActivePrevEpoch.AddGwei(eb)
			if hasFlag(vals[i].PrevEpochFlags, blocks.TimelySourceFlag) {
				bal.PrevEpochSource = bal.PrevEpochSource.AddGwei(eb)
			}
			if hasFlag(vals[i].PrevEpochFlags, blocks.TimelyTargetFlag) {
				bal.PrevEpochTarget = bal.PrevEpochTarget.AddGwei(eb)
			}
			if hasFlag(vals[i].PrevEpochFlags, blocks.TimelyHeadFlag) {
				bal.PrevEpochHead = bal.PrevEpochHead.AddGwei(eb)
			}
		}
		if isCurrentActive {
			if hasFlag(vals[i].CurrentEpochFlags, blocks.TimelySourceFlag) {
				bal.CurrentEpochSource = bal.CurrentEpochSource.AddGwei(eb)
			}
			if hasFlag(vals[i].CurrentEpochFlags, blocks.TimelyTargetFlag) {
				bal.CurrentEpochTarget = bal.CurrentEpochTarget.AddGwei(eb)
			}
		}
	}

	floor := primitives.Gwei(cfg.EffectiveBalanceIncrement)
	bal.ActiveCurrentEpoch = maxGwei(bal.ActiveCurrentEpoch, floor)
	bal.ActivePrevEpoch = maxGwei(bal.ActivePrevEpoch, floor)
	return bal, vals, nil
}

func hasFlag(flags, mask byte) bool { return flags&mask != 0 }

func maxGwei(a, b primitives.Gwei) primitives.Gwei {
	if a > b {
		return a
	}
	return b
}
