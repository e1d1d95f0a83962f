// Package forkchoice implements LMD-GHOST with an FFG justification filter
// over a root-indexed flat table of blocks: nodes are keyed by their own
// root, a parent link is a root lookup rather than a pointer, and pruning on
// finalization is a single map rebuild rather than a tree walk.
package forkchoice

import (
	"sync"

	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Node is one block's fork-choice bookkeeping: enough to weigh it and walk
// its ancestry without ever holding a pointer to another Node.
type Node struct {
	Root           [32]byte
	ParentRoot     [32]byte
	Slot           primitives.Slot
	JustifiedEpoch primitives.Epoch
	FinalizedEpoch primitives.Epoch
}

// vote is a validator's most recent LMD-GHOST attestation.
type vote struct {
	root  [32]byte
	epoch primitives.Epoch
}

// Store holds every block known to fork choice since the last finalization,
// the per-validator latest votes, and the checkpoints votes are weighed
// against.
type Store struct {
	mu sync.RWMutex

	cfg *params.BeaconChainConfig

	nodes    map[[32]byte]*Node
	children map[[32]byte][][32]byte

	justified         primitives.Checkpoint
	bestJustified     primitives.Checkpoint
	previousJustified primitives.Checkpoint
	finalized         primitives.Checkpoint

	latestMessage map[primitives.ValidatorIndex]vote
	equivocating  map[primitives.ValidatorIndex]bool
	balances      map[primitives.ValidatorIndex]primitives.Gwei

	proposerBoostRoot [32]byte
	proposerBoostSlot primitives.Slot

	time        primitives.Slot
	genesisTime uint64
}

// NewStore creates a store rooted at the genesis block.
func NewStore(cfg *params.BeaconChainConfig, genesisRoot [32]byte, genesisTime uint64) *Store {
	genesisCheckpoint := primitives.Checkpoint{Epoch: cfg.GenesisEpoch, Root: genesisRoot}
	return &Store{
		cfg: cfg,
		nodes: map[[32]byte]*Node{
			genesisRoot: {Root: genesisRoot, Slot: 0, JustifiedEpoch: cfg.GenesisEpoch, FinalizedEpoch: cfg.GenesisEpoch},
		},
		children:          make(map[[32]byte][][32]byte),
		justified:         genesisCheckpoint,
		bestJustified:     genesisCheckpoint,
		previousJustified: genesisCheckpoint,
		finalized:         genesisCheckpoint,
		latestMessage:     make(map[primitives.ValidatorIndex]vote),
		equivocating:      make(map[primitives.ValidatorIndex]bool),
		balances:          make(map[primitives.ValidatorIndex]primitives.Gwei),
		genesisTime:       genesisTime,
	}
}

// HasNode reports whether root is known to the store.
func (s *Store) HasNode(root [32]byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[root]
	return ok
}

// JustifiedCheckpoint returns the store's current justified checkpoint.
func (s *Store) JustifiedCheckpoint() primitives.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.justified
}

// FinalizedCheckpoint returns the store's current finalized checkpoint.
func (s *Store) FinalizedCheckpoint() primitives.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.finalized
}

// NodeCount returns how many blocks the store is tracking.
func (s *Store) NodeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// SetBalances replaces the effective balances used to weigh votes, called by
// the orchestrator whenever the justified state's registry changes.
func (s *Store) SetBalances(balances map[primitives.ValidatorIndex]primitives.Gwei) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances = balances
}

// UpdateJustifiedCheckpoint sets the store's active justified checkpoint
// directly, bypassing the best-justified staging OnTick normally applies;
// used when the orchestrator already knows the switch is safe (e.g. at
// startup, or moving strictly forward within the same epoch).
func (s *Store) UpdateJustifiedCheckpoint(cp primitives.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previousJustified = s.justified
	s.justified = cp
	if cp.Epoch > s.bestJustified.Epoch {
		s.bestJustified = cp
	}
}

// UpdateFinalizedCheckpoint sets the store's finalized checkpoint. Callers
// follow up with Prune(cp.Root) once they're done reading anything that
// depends on the old tree shape.
func (s *Store) UpdateFinalizedCheckpoint(cp primitives.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finalized = cp
}

// PreviousJustifiedCheckpoint returns the checkpoint that was justified
// before the current one.
func (s *Store) PreviousJustifiedCheckpoint() primitives.Checkpoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previousJustified
}
