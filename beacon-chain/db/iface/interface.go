// Package iface defines the persistent-store contract the orchestrator
// depends on, so it can run against either the bbolt-backed store or an
// in-memory double in tests without caring which.
package iface

import (
	"io"

	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Database is the typed key/value contract every persistence backend
// implements: block/<root>, state/<root>, checkpoint/{justified,finalized},
// head, badblock/<root>, archive/<slot>/<root>.
type Database interface {
	io.Closer

	SaveBlock(root [32]byte, block *blocks.SignedBeaconBlock) error
	Block(root [32]byte) (*blocks.SignedBeaconBlock, error)
	HasBlock(root [32]byte) bool

	SaveState(root [32]byte, st *state.BeaconState) error
	State(root [32]byte) (*state.BeaconState, error)
	HasState(root [32]byte) bool

	// SaveBlockAndState persists a block, its post-state, and any checkpoint
	// that advanced because of it as a single atomic unit; justified and
	// finalized are nil when that checkpoint didn't change.
	SaveBlockAndState(root [32]byte, block *blocks.SignedBeaconBlock, st *state.BeaconState, justified, finalized *primitives.Checkpoint) error

	SaveJustifiedCheckpoint(cp primitives.Checkpoint) error
	JustifiedCheckpoint() (primitives.Checkpoint, error)
	SaveFinalizedCheckpoint(cp primitives.Checkpoint) error
	FinalizedCheckpoint() (primitives.Checkpoint, error)

	SaveHead(root [32]byte) error
	Head() ([32]byte, error)

	MarkBadBlock(root [32]byte) error
	IsBadBlock(root [32]byte) bool

	SaveArchivePoint(slot primitives.Slot, root [32]byte) error
	ArchivePoint(slot primitives.Slot) ([32]byte, bool, error)
}
