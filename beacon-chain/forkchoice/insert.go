package forkchoice

import (
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// InsertNode adds a new block to the store. The parent must already be
// known, and the block's slot must be later than the finalized checkpoint's
// slot: both are preconditions the orchestrator is expected to have
// checked against the block's post-state before calling in, so a violation
// here means the caller skipped a step rather than that the block is merely
// unprocessable yet.
func (s *Store) InsertNode(root, parentRoot [32]byte, slot primitives.Slot, justifiedEpoch, finalizedEpoch primitives.Epoch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[root]; ok {
		return nil
	}
	if _, ok := s.nodes[parentRoot]; !ok {
		return coreerr.PreconditionMissingf("fork choice parent %x not found for block %x", parentRoot, root)
	}
	if slot <= s.finalizedSlotLocked() {
		return coreerr.InvalidOperationf("block slot %d is not later than finalized slot", slot)
	}

	s.nodes[root] = &Node{
		Root:           root,
		ParentRoot:     parentRoot,
		Slot:           slot,
		JustifiedEpoch: justifiedEpoch,
		FinalizedEpoch: finalizedEpoch,
	}
	s.children[parentRoot] = append(s.children[parentRoot], root)

	if justifiedEpoch > s.bestJustified.Epoch {
		s.bestJustified = primitives.Checkpoint{Epoch: justifiedEpoch, Root: root}
	}
	return nil
}

func (s *Store) finalizedSlotLocked() primitives.Slot {
	n, ok := s.nodes[s.finalized.Root]
	if !ok {
		return 0
	}
	return n.Slot
}
