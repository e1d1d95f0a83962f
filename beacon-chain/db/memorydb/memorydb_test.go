package memorydb_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/db/memorydb"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func TestBlockRoundTrip(t *testing.T) {
	s := memorydb.NewStore()
	root := [32]byte{1}
	signed := &blocks.SignedBeaconBlock{Block: &blocks.BeaconBlock{Slot: 5}}

	if s.HasBlock(root) {
		t.Fatal("expected unknown block to be absent")
	}
	if err := s.SaveBlock(root, signed); err != nil {
		t.Fatalf("SaveBlock: %v", err)
	}
	if !s.HasBlock(root) {
		t.Fatal("expected saved block to be present")
	}
	got, err := s.Block(root)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if got.Block.Slot != 5 {
		t.Fatalf("got slot %d, want 5", got.Block.Slot)
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := memorydb.NewStore()
	root := [32]byte{2}
	st := state.New(nil, nil)
	st.SetSlot(primitives.Slot(10))

	if s.HasState(root) {
		t.Fatal("expected unknown state to be absent")
	}
	if err := s.SaveState(root, st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	if !s.HasState(root) {
		t.Fatal("expected saved state to be present")
	}
	got, err := s.State(root)
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if got.Slot() != 10 {
		t.Fatalf("got slot %d, want 10", got.Slot())
	}
}

func TestCheckpointsAndHead(t *testing.T) {
	s := memorydb.NewStore()

	justified := primitives.Checkpoint{Epoch: 3, Root: [32]byte{3}}
	if err := s.SaveJustifiedCheckpoint(justified); err != nil {
		t.Fatalf("SaveJustifiedCheckpoint: %v", err)
	}
	got, err := s.JustifiedCheckpoint()
	if err != nil {
		t.Fatalf("JustifiedCheckpoint: %v", err)
	}
	if got != justified {
		t.Fatalf("got %+v, want %+v", got, justified)
	}

	finalized := primitives.Checkpoint{Epoch: 2, Root: [32]byte{4}}
	if err := s.SaveFinalizedCheckpoint(finalized); err != nil {
		t.Fatalf("SaveFinalizedCheckpoint: %v", err)
	}
	gotF, err := s.FinalizedCheckpoint()
	if err != nil {
		t.Fatalf("FinalizedCheckpoint: %v", err)
	}
	if gotF != finalized {
		t.Fatalf("got %+v, want %+v", gotF, finalized)
	}

	head := [32]byte{5}
	if err := s.SaveHead(head); err != nil {
		t.Fatalf("SaveHead: %v", err)
	}
	gotHead, err := s.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if gotHead != head {
		t.Fatalf("got head %x, want %x", gotHead, head)
	}
}

func TestBadBlock(t *testing.T) {
	s := memorydb.NewStore()
	root := [32]byte{6}
	if s.IsBadBlock(root) {
		t.Fatal("expected unmarked block to not be bad")
	}
	if err := s.MarkBadBlock(root); err != nil {
		t.Fatalf("MarkBadBlock: %v", err)
	}
	if !s.IsBadBlock(root) {
		t.Fatal("expected marked block to be bad")
	}
}

func TestArchivePoint(t *testing.T) {
	s := memorydb.NewStore()
	slot := primitives.Slot(64)

	if _, ok, err := s.ArchivePoint(slot); err != nil || ok {
		t.Fatalf("expected no archive point, got ok=%v err=%v", ok, err)
	}

	root := [32]byte{7}
	if err := s.SaveArchivePoint(slot, root); err != nil {
		t.Fatalf("SaveArchivePoint: %v", err)
	}
	got, ok, err := s.ArchivePoint(slot)
	if err != nil {
		t.Fatalf("ArchivePoint: %v", err)
	}
	if !ok {
		t.Fatal("expected archive point to be present")
	}
	if got != root {
		t.Fatalf("got %x, want %x", got, root)
	}
}

func TestClose(t *testing.T) {
	s := memorydb.NewStore()
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
