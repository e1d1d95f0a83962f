package forkchoice

import (
	"bytes"

	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// SetProposerBoost marks root as the block that should receive the
// proposer-score boost for the slot it was timely in.
func (s *Store) SetProposerBoost(root [32]byte, slot primitives.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposerBoostRoot = root
	s.proposerBoostSlot = slot
}

// Head runs LMD-GHOST from the justified block, descending to the
// heaviest-weighted viable child at each step and breaking ties by the
// lexicographically greatest root.
func (s *Store) Head() ([32]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := s.justified.Root
	if _, ok := s.nodes[start]; !ok {
		return [32]byte{}, coreerr.PreconditionMissingf("justified block %x not found in fork choice store", start)
	}

	weights := s.computeWeightsLocked()

	current := start
	for {
		kids := s.children[current]
		var best [32]byte
		var bestWeight primitives.Gwei
		found := false
		for _, kid := range kids {
			n := s.nodes[kid]
			if !s.viableLocked(n) {
				continue
			}
			w := weights[kid]
			if !found || w > bestWeight || (w == bestWeight && bytes.Compare(kid[:], best[:]) > 0) {
				best = kid
				bestWeight = w
				found = true
			}
		}
		if !found {
			return current, nil
		}
		current = best
	}
}

// viableLocked reports whether n's checkpoint bookkeeping is still
// consistent with the store's current justified/finalized view; this is
// the FFG filter over LMD-GHOST descent.
func (s *Store) viableLocked(n *Node) bool {
	if n.FinalizedEpoch != s.finalized.Epoch && n.FinalizedEpoch != 0 {
		return false
	}
	if n.JustifiedEpoch != s.justified.Epoch && n.JustifiedEpoch != 0 {
		return false
	}
	return true
}

// computeWeightsLocked derives each known node's subtree weight: every
// validator's balance is added to every ancestor of the block it last voted
// for, with the proposer-boost block getting an extra flat bump.
func (s *Store) computeWeightsLocked() map[[32]byte]primitives.Gwei {
	weights := make(map[[32]byte]primitives.Gwei, len(s.nodes))
	for idx, v := range s.latestMessage {
		if s.equivocating[idx] {
			continue
		}
		bal := s.balances[idx]
		s.addToAncestryLocked(weights, v.root, bal)
	}
	if s.proposerBoostRoot != [32]byte{} {
		var total primitives.Gwei
		for _, b := range s.balances {
			total = total.AddGwei(b)
		}
		boost := primitives.Gwei(uint64(total) * s.cfg.ProposerScoreBoost / 100)
		s.addToAncestryLocked(weights, s.proposerBoostRoot, boost)
	}
	return weights
}

func (s *Store) addToAncestryLocked(weights map[[32]byte]primitives.Gwei, root [32]byte, amount primitives.Gwei) {
	for {
		n, ok := s.nodes[root]
		if !ok {
			return
		}
		weights[root] = weights[root].AddGwei(amount)
		if root == s.finalized.Root {
			return
		}
		root = n.ParentRoot
	}
}
