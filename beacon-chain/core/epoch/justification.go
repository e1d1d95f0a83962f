package epoch

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/epoch/precompute"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessJustificationAndFinalization rotates the justification bitfield and
// advances the justified/finalized checkpoints using the FFG supermajority
// rule: an epoch justifies when validators holding at least two-thirds of
// active balance attested to it as their target. Finality follows from the
// four bit-pattern rules over consecutive justified epochs (Casper FFG's
// k=1,2,3 finalization rules).
func ProcessJustificationAndFinalization(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, bal *precompute.Balance) error {
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	if currentEpoch <= cfg.GenesisEpoch+1 {
		return nil
	}
	prevEpoch := currentEpoch - 1
	prevPrevEpoch := currentEpoch - 2

	oldPrevJustified := st.PreviousJustifiedCheckpoint()
	oldCurrJustified := st.CurrentJustifiedCheckpoint()
	bits := st.JustificationBits()

	// Shift the bitfield left, dropping the oldest tracked epoch and freeing
	// bit 0 for prevEpoch's outcome below.
	bits = (bits << 1) & 0x0F

	st.SetPreviousJustifiedCheckpoint(oldCurrJustified)

	blockRoots := st.BlockRoots()
	prevPrevRoot := blockRootAtEpochStart(cfg, prevPrevEpoch, blockRoots)
	if isSupermajority(bal.PrevEpochTarget, bal.ActivePrevEpoch) {
		st.SetCurrentJustifiedCheckpoint(primitives.Checkpoint{Epoch: prevPrevEpoch, Root: prevPrevRoot})
		bits |= 1 << 1
	}

	prevRoot := blockRootAtEpochStart(cfg, prevEpoch, blockRoots)
	if isSupermajority(bal.CurrentEpochTarget, bal.ActiveCurrentEpoch) {
		st.SetCurrentJustifiedCheckpoint(primitives.Checkpoint{Epoch: prevEpoch, Root: prevRoot})
		bits |= 1 << 0
	}

	st.SetJustificationBits(bits)

	finalized := st.FinalizedCheckpoint()

	// Rule 1: epochs [prevPrevEpoch-2, prevPrevEpoch] all justified, oldest finalizes.
	if bits&0x0E == 0x0E && oldPrevJustified.Epoch+2 == prevPrevEpoch {
		finalized = oldPrevJustified
	}
	// Rule 2: epochs [prevPrevEpoch-1, prevPrevEpoch] justified via bits 1,2 pattern.
	if bits&0x06 == 0x06 && oldPrevJustified.Epoch+1 == prevPrevEpoch {
		finalized = oldPrevJustified
	}
	// Rule 3: epochs [prevEpoch-2, prevEpoch] justified.
	if bits&0x07 == 0x07 && oldCurrJustified.Epoch+2 == prevEpoch {
		finalized = oldCurrJustified
	}
	// Rule 4: epochs [prevEpoch-1, prevEpoch] justified.
	if bits&0x03 == 0x03 && oldCurrJustified.Epoch+1 == prevEpoch {
		finalized = oldCurrJustified
	}

	st.SetFinalizedCheckpoint(finalized)
	return nil
}

func isSupermajority(numerator, denominator primitives.Gwei) bool {
	if denominator == 0 {
		return false
	}
	return uint64(numerator)*3 >= uint64(denominator)*2
}

func blockRootAtEpochStart(cfg *params.BeaconChainConfig, epoch primitives.Epoch, blockRoots [][32]byte) [32]byte {
	slot := helpers.StartSlot(cfg, epoch)
	return blockRoots[uint64(slot)%uint64(len(blockRoots))]
}
