package blockchain

import (
	"context"

	"github.com/pkg/errors"
	"go.opencensus.io/trace"

	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/transition"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// ReceiveBlock validates signed against the current chain state, runs the
// state-transition engine, persists the result, and reruns fork choice. It
// implements the receive_block entry point: fetch pre-state for parent_root,
// invoke state transition, persist block+state, notify fork-choice,
// recompute head.
func (s *Service) ReceiveBlock(ctx context.Context, signed *blocks.SignedBeaconBlock) (Outcome, error) {
	ctx, span := trace.StartSpan(ctx, "blockchain.ReceiveBlock")
	defer span.End()

	if signed == nil || signed.Block == nil {
		return Rejected, coreerr.InvalidOperationf("nil signed block")
	}
	block := signed.Block

	blockRoot, err := block.Root()
	if err != nil {
		return Rejected, errors.Wrap(err, "could not hash block")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fc.HasNode(blockRoot) {
		return Ignored, nil
	}
	if s.badBlocks[block.ParentRoot] {
		s.badBlocks[blockRoot] = true
		s.emitBlockRejected(blockRoot, errBadAncestor)
		return Rejected, withBlockRoot(errBadAncestor, blockRoot)
	}
	if !s.fc.HasNode(block.ParentRoot) {
		return Ignored, errParentUnknown
	}

	parentState, err := s.stateByRootLocked(block.ParentRoot)
	if err != nil {
		return Ignored, errors.Wrap(err, "could not load parent state")
	}
	candidate, err := parentState.Copy()
	if err != nil {
		return Rejected, errors.Wrap(err, "could not copy parent state")
	}

	post, err := transition.ExecuteStateTransition(ctx, s.cfg, s.engine, candidate, signed)
	if err != nil {
		if coreerr.Is(err, coreerr.ClassExecutionUnavailable) {
			return Ignored, withBlockRoot(err, blockRoot)
		}
		s.badBlocks[blockRoot] = true
		wrapped := withBlockRoot(err, blockRoot)
		s.emitBlockRejected(blockRoot, wrapped)
		return Rejected, wrapped
	}

	var justifiedToSave, finalizedToSave *primitives.Checkpoint
	newJustified := post.CurrentJustifiedCheckpoint()
	justifiedAdvances := newJustified.Epoch > s.fc.JustifiedCheckpoint().Epoch
	if justifiedAdvances {
		justifiedToSave = &newJustified
	}
	newFinalized := post.FinalizedCheckpoint()
	finalizedAdvances := newFinalized.Epoch > s.fc.FinalizedCheckpoint().Epoch
	if finalizedAdvances {
		finalizedToSave = &newFinalized
	}

	if err := s.db.SaveBlockAndState(blockRoot, signed, post.BeaconState, justifiedToSave, finalizedToSave); err != nil {
		return Rejected, errors.Wrap(err, "could not persist block, state, and checkpoint atomically")
	}
	s.states.Put(blockRoot, post)

	justifiedEpoch := post.CurrentJustifiedCheckpoint().Epoch
	finalizedEpoch := post.FinalizedCheckpoint().Epoch
	if err := s.fc.InsertNode(blockRoot, block.ParentRoot, block.Slot, justifiedEpoch, finalizedEpoch); err != nil {
		return Rejected, errors.Wrap(err, "could not insert block into fork choice")
	}

	s.refreshJustificationLocked(newJustified, justifiedAdvances, newFinalized, finalizedAdvances)
	if err := s.recomputeHeadLocked(); err != nil {
		return Rejected, errors.Wrap(err, "could not persist new head")
	}

	logStateTransitionData(s.cfg, block, blockRoot)
	s.emitBlockProcessed(blockRoot, block.Slot)
	return Accepted, nil
}

// refreshJustificationLocked applies checkpoints already committed to the
// persistent store by ReceiveBlock's atomic write to the in-memory
// fork-choice store, emitting events and pruning when either advances.
// Called with s.mu held.
func (s *Service) refreshJustificationLocked(newJustified primitives.Checkpoint, justifiedAdvances bool, newFinalized primitives.Checkpoint, finalizedAdvances bool) {
	if justifiedAdvances {
		s.fc.UpdateJustifiedCheckpoint(newJustified)
		s.emitCheckpointJustified(newJustified)
	}

	if finalizedAdvances {
		s.fc.UpdateFinalizedCheckpoint(newFinalized)
		s.fc.Prune(newFinalized.Root)
		if st, ok := s.states.Get(newFinalized.Root); ok {
			s.states.Pin(newFinalized.Root, st)
		}
		s.emitCheckpointFinalized(newFinalized)
	}
}

// recomputeHeadLocked reruns LMD-GHOST and, if the winner differs from the
// current head, persists and updates head bookkeeping and emits HeadChanged
// with the number of blocks the two heads' common ancestor sits below the
// old head.
func (s *Service) recomputeHeadLocked() error {
	newHead, err := s.fc.Head()
	if err != nil {
		return errors.Wrap(err, "could not compute head")
	}
	if newHead == s.headRoot {
		return nil
	}
	oldHead := s.headRoot
	depth := s.reorgDepthLocked(oldHead, newHead)
	if err := s.db.SaveHead(newHead); err != nil {
		return errors.Wrap(err, "could not save head")
	}
	s.headRoot = newHead
	s.emitHeadChanged(newHead, oldHead, depth)
	return nil
}

// reorgDepthLocked counts how many blocks back oldHead must be undone to
// reach the common ancestor with newHead, by walking both chains back
// through the stored blocks (until a block is missing or is its own parent)
// and diffing.
func (s *Service) reorgDepthLocked(oldHead, newHead [32]byte) uint64 {
	oldChain := s.ancestryLocked(oldHead)
	newSet := make(map[[32]byte]bool)
	for _, r := range s.ancestryLocked(newHead) {
		newSet[r] = true
	}
	var depth uint64
	for _, r := range oldChain {
		if newSet[r] {
			return depth
		}
		depth++
	}
	return depth
}

func (s *Service) ancestryLocked(root [32]byte) [][32]byte {
	var chain [][32]byte
	cur := root
	for {
		block, err := s.db.Block(cur)
		if err != nil || block == nil {
			break
		}
		chain = append(chain, cur)
		if cur == block.Block.ParentRoot {
			break
		}
		cur = block.Block.ParentRoot
	}
	return chain
}
