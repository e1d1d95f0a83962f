// Package helpers implements the small, pure computations the
// state-transition engine and fork-choice share: slot/epoch arithmetic,
// shuffling, committee assignment, and signing-domain derivation. Every
// function here is deterministic in its explicit inputs, never reaching for
// global state.
package helpers

import (
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// SlotToEpoch returns the epoch containing slot under cfg.
func SlotToEpoch(cfg *params.BeaconChainConfig, slot primitives.Slot) primitives.Epoch {
	return primitives.Epoch(uint64(slot) / uint64(cfg.SlotsPerEpoch))
}

// CurrentEpoch returns the epoch of state.slot.
func CurrentEpoch(cfg *params.BeaconChainConfig, slot primitives.Slot) primitives.Epoch {
	return SlotToEpoch(cfg, slot)
}

// PrevEpoch returns the previous epoch, floored at genesis.
func PrevEpoch(cfg *params.BeaconChainConfig, slot primitives.Slot) primitives.Epoch {
	current := CurrentEpoch(cfg, slot)
	if current > cfg.GenesisEpoch {
		return current - 1
	}
	return cfg.GenesisEpoch
}

// NextEpoch returns the epoch following state.slot's epoch.
func NextEpoch(cfg *params.BeaconChainConfig, slot primitives.Slot) primitives.Epoch {
	return CurrentEpoch(cfg, slot) + 1
}

// StartSlot returns the first slot of epoch.
func StartSlot(cfg *params.BeaconChainConfig, epoch primitives.Epoch) primitives.Slot {
	return primitives.Slot(uint64(epoch) * uint64(cfg.SlotsPerEpoch))
}

// IsEpochStart reports whether slot is the first slot of its epoch.
func IsEpochStart(cfg *params.BeaconChainConfig, slot primitives.Slot) bool {
	return uint64(slot)%uint64(cfg.SlotsPerEpoch) == 0
}

// IsEpochEnd reports whether slot is the last slot of its epoch.
func IsEpochEnd(cfg *params.BeaconChainConfig, slot primitives.Slot) bool {
	return IsEpochStart(cfg, slot+1)
}

// SlotsSinceEpochStart returns how many slots into its epoch slot falls.
func SlotsSinceEpochStart(cfg *params.BeaconChainConfig, slot primitives.Slot) primitives.Slot {
	return slot - StartSlot(cfg, CurrentEpoch(cfg, slot))
}

// ActivationExitEpoch returns the earliest epoch at which a validator
// processed in epoch may become active, delayed by MaxSeedLookahead so the
// shuffling that will select its committees is already unpredictable to it.
func ActivationExitEpoch(cfg *params.BeaconChainConfig, epoch primitives.Epoch) primitives.Epoch {
	return epoch + cfg.MaxSeedLookahead + 1
}
