// Package transition implements the top-level state-transition function:
// advancing slots (caching roots and running epoch processing at
// boundaries) and applying a block's body and envelope on top.
package transition

import (
	"context"

	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/epoch"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	consensusblocks "github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ProcessSlot caches the pre-state's own root into the state-roots vector,
// fills it into the latest block header's state root if that is still zero,
// and caches the header's own root into the block-roots vector, mirroring what every later block's parent-root check needs to
// find.
func ProcessSlot(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) error {
	prevStateRoot, err := st.HashTreeRoot()
	if err != nil {
		return err
	}
	if err := st.SetStateRootAtIndex(uint64(st.Slot())%uint64(cfg.SlotsPerHistoricalRoot), prevStateRoot); err != nil {
		return err
	}
	header := st.LatestBlockHeader()
	if header.StateRoot == [32]byte{} {
		header.StateRoot = prevStateRoot
		st.SetLatestBlockHeader(header)
	}
	headerRoot, err := header.HashTreeRoot()
	if err != nil {
		return err
	}
	return st.SetBlockRootAtIndex(uint64(st.Slot())%uint64(cfg.SlotsPerHistoricalRoot), headerRoot)
}

// ProcessSlots advances st from its current slot to targetSlot, running
// ProcessSlot once for each slot left behind (targetSlot itself is not
// processed) and epoch.ProcessEpoch whenever the new slot starts an epoch.
func ProcessSlots(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, targetSlot primitives.Slot) error {
	if targetSlot <= st.Slot() {
		return coreerr.InvalidOperationf("target slot %d is not later than state slot %d", targetSlot, st.Slot())
	}
	for st.Slot() < targetSlot {
		if err := ProcessSlot(cfg, st); err != nil {
			return err
		}
		nextSlot := st.Slot() + 1
		st.SetSlot(nextSlot)
		if helpers.IsEpochStart(cfg, nextSlot) {
			if err := epoch.ProcessEpoch(cfg, st); err != nil {
				return err
			}
		}
	}
	return nil
}

// ExecuteStateTransition advances pre up to the block's slot, verifies the
// block's own proposer signature, applies the block's body, and checks the
// resulting state root matches what the block committed to. It mutates and
// returns the same state rather than copying, leaving copy-before-call to
// the orchestrator for fork-choice candidate states.
func ExecuteStateTransition(ctx context.Context, cfg *params.BeaconChainConfig, engine blocks.ExecutionEngine, pre *statenative.CachedBeaconState, signed *consensusblocks.SignedBeaconBlock) (*statenative.CachedBeaconState, error) {
	if signed == nil || signed.Block == nil {
		return nil, coreerr.InvalidOperationf("nil signed block")
	}
	block := signed.Block

	if pre.Slot() < block.Slot {
		if err := ProcessSlots(cfg, pre, block.Slot); err != nil {
			return nil, err
		}
	}

	blockRoot, err := block.Root()
	if err != nil {
		return nil, coreerr.WrapInvalidOperation(err, "could not hash block")
	}
	epochOfSlot := helpers.SlotToEpoch(cfg, block.Slot)
	if err := blocks.VerifySigningRoot(cfg, pre, block.ProposerIndex, epochOfSlot, cfg.DomainBeaconProposer, blockRoot, signed.Signature); err != nil {
		return nil, err
	}

	if err := blocks.ProcessBlock(ctx, cfg, pre, engine, block); err != nil {
		return nil, err
	}

	gotRoot, err := pre.HashTreeRoot()
	if err != nil {
		return nil, err
	}
	if gotRoot != block.StateRoot {
		return nil, coreerr.StateRootMismatchf("post-state root %x does not match block's committed root %x", gotRoot, block.StateRoot)
	}
	return pre, nil
}
