package blockchain

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// HeadRoot returns the block root of the current canonical head.
func (s *Service) HeadRoot() [32]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.headRoot
}

// HeadState returns the cached state for the current head, or nil if it has
// been evicted (callers needing a guaranteed hit should keep their own
// reference across a ReceiveBlock call rather than re-fetching later).
func (s *Service) HeadState() *statenative.CachedBeaconState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, _ := s.states.Get(s.headRoot)
	return st
}

// JustifiedCheckpoint returns the fork-choice store's current justified
// checkpoint.
func (s *Service) JustifiedCheckpoint() primitives.Checkpoint {
	return s.fc.JustifiedCheckpoint()
}

// FinalizedCheckpoint returns the fork-choice store's current finalized
// checkpoint.
func (s *Service) FinalizedCheckpoint() primitives.Checkpoint {
	return s.fc.FinalizedCheckpoint()
}

// IsBadBlock reports whether root was previously quarantined for failing
// state transition.
func (s *Service) IsBadBlock(root [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badBlocks[root]
}

// GenesisTime returns the unix timestamp, in seconds, that slot 0 began at.
func (s *Service) GenesisTime() uint64 {
	return s.genesisTime
}

// PruneAttestationPool discards pooled attestations for slots at least one
// epoch behind the current head, keyed off the head slot rather than wall
// clock so it stays correct across empty-slot periods.
func (s *Service) PruneAttestationPool() {
	s.mu.RLock()
	head, ok := s.states.Get(s.headRoot)
	s.mu.RUnlock()
	if !ok {
		return
	}
	headSlot := head.Slot()
	cutoff := s.cfg.SlotsPerEpoch
	if headSlot <= cutoff {
		return
	}
	s.attestationPool.DeleteBySlot(headSlot - cutoff)
}

// StateByRoot returns the cached state for root, fetching and re-wrapping
// from the persistent store on a cache miss.
func (s *Service) StateByRoot(root [32]byte) (*statenative.CachedBeaconState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateByRootLocked(root)
}

func (s *Service) stateByRootLocked(root [32]byte) (*statenative.CachedBeaconState, error) {
	if st, ok := s.states.Get(root); ok {
		return st, nil
	}
	raw, err := s.db.State(root)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errParentUnknown
	}
	cached, err := statenative.New(raw, s.cfg)
	if err != nil {
		return nil, err
	}
	s.states.Put(root, cached)
	return cached, nil
}
