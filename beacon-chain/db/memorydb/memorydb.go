// Package memorydb implements the same iface.Database contract as kv,
// backed by plain maps, for tests that don't need real persistence.
package memorydb

import (
	"sync"

	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Store is an in-memory iface.Database.
type Store struct {
	mu sync.RWMutex

	blocks    map[[32]byte]*blocks.SignedBeaconBlock
	states    map[[32]byte]*state.BeaconState
	badBlocks map[[32]byte]bool
	archive   map[primitives.Slot][32]byte

	justified primitives.Checkpoint
	finalized primitives.Checkpoint
	head      [32]byte
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		blocks:    make(map[[32]byte]*blocks.SignedBeaconBlock),
		states:    make(map[[32]byte]*state.BeaconState),
		badBlocks: make(map[[32]byte]bool),
		archive:   make(map[primitives.Slot][32]byte),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) SaveBlock(root [32]byte, block *blocks.SignedBeaconBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[root] = block
	return nil
}

func (s *Store) Block(root [32]byte) (*blocks.SignedBeaconBlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.blocks[root], nil
}

func (s *Store) HasBlock(root [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blocks[root]
	return ok
}

func (s *Store) SaveState(root [32]byte, st *state.BeaconState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[root] = st
	return nil
}

func (s *Store) State(root [32]byte) (*state.BeaconState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.states[root], nil
}

func (s *Store) HasState(root [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.states[root]
	return ok
}

// SaveBlockAndState commits block, state, and any advanced checkpoint under
// a single lock, matching kv.Store's atomic bbolt transaction.
func (s *Store) SaveBlockAndState(root [32]byte, block *blocks.SignedBeaconBlock, st *state.BeaconState, justified, finalized *primitives.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[root] = block
	s.states[root] = st
	if justified != nil {
		s.justified = *justified
	}
	if finalized != nil {
		s.finalized = *finalized
	}
	return nil
}

func (s *Store) SaveJustifiedCheckpoint(cp primitives.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.justified = cp
	return nil
}

func (s *Store) JustifiedCheckpoint() (primitives.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.justified, nil
}

func (s *Store) SaveFinalizedCheckpoint(cp primitives.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = cp
	return nil
}

func (s *Store) FinalizedCheckpoint() (primitives.Checkpoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized, nil
}

func (s *Store) SaveHead(root [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.head = root
	return nil
}

func (s *Store) Head() ([32]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.head, nil
}

func (s *Store) MarkBadBlock(root [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.badBlocks[root] = true
	return nil
}

func (s *Store) IsBadBlock(root [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.badBlocks[root]
}

func (s *Store) SaveArchivePoint(slot primitives.Slot, root [32]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.archive[slot] = root
	return nil
}

func (s *Store) ArchivePoint(slot primitives.Slot) ([32]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	root, ok := s.archive[slot]
	return root, ok, nil
}
