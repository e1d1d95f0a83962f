package blocks_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/config/params"
	consensusblocks "github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func newSlashingTestState(t *testing.T, cfg *params.BeaconChainConfig, v consensusblocks.Validator) *statenative.CachedBeaconState {
	t.Helper()
	st := state.New([]consensusblocks.Validator{v}, []uint64{cfg.MaxEffectiveBalance})
	cached, err := statenative.New(st, cfg)
	if err != nil {
		t.Fatalf("statenative.New: %v", err)
	}
	return cached
}

func signedHeader(slot primitives.Slot, proposer primitives.ValidatorIndex, stateRoot byte) *consensusblocks.SignedBeaconBlockHeader {
	h := &consensusblocks.BeaconBlockHeader{Slot: slot, ProposerIndex: proposer}
	h.StateRoot[0] = stateRoot
	return &consensusblocks.SignedBeaconBlockHeader{Header: h}
}

// All of these admissibility checks run before signature verification, so
// each one can be tested in isolation without a real BLS signature.

func TestProcessProposerSlashingRejectsNilHeader(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newSlashingTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch, WithdrawableEpoch: cfg.FarFutureEpoch})
	slashing := &consensusblocks.ProposerSlashing{Header1: signedHeader(1, 0, 1), Header2: nil}
	if err := blocks.ProcessProposerSlashing(cfg, st, slashing); err == nil {
		t.Fatal("expected an error for a slashing with a nil header")
	}
}

func TestProcessProposerSlashingRejectsMismatchedSlots(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newSlashingTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch, WithdrawableEpoch: cfg.FarFutureEpoch})
	slashing := &consensusblocks.ProposerSlashing{
		Header1: signedHeader(1, 0, 1),
		Header2: signedHeader(2, 0, 2),
	}
	if err := blocks.ProcessProposerSlashing(cfg, st, slashing); err == nil {
		t.Fatal("expected an error for headers at different slots")
	}
}

func TestProcessProposerSlashingRejectsMismatchedProposerIndices(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newSlashingTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch, WithdrawableEpoch: cfg.FarFutureEpoch})
	slashing := &consensusblocks.ProposerSlashing{
		Header1: signedHeader(1, 0, 1),
		Header2: signedHeader(1, 1, 2),
	}
	if err := blocks.ProcessProposerSlashing(cfg, st, slashing); err == nil {
		t.Fatal("expected an error for headers with different proposer indices")
	}
}

func TestProcessProposerSlashingRejectsIdenticalHeaders(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newSlashingTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch, WithdrawableEpoch: cfg.FarFutureEpoch})
	slashing := &consensusblocks.ProposerSlashing{
		Header1: signedHeader(1, 0, 1),
		Header2: signedHeader(1, 0, 1),
	}
	err := blocks.ProcessProposerSlashing(cfg, st, slashing)
	if err == nil {
		t.Fatal("expected an error for two identical headers (no equivocation proven)")
	}
	if !coreerr.Is(err, coreerr.ClassInvalidOperation) {
		t.Fatalf("got error class for %v, want ClassInvalidOperation", err)
	}
}

func TestProcessProposerSlashingRejectsUnknownProposer(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newSlashingTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch, WithdrawableEpoch: cfg.FarFutureEpoch})
	slashing := &consensusblocks.ProposerSlashing{
		Header1: signedHeader(1, 7, 1),
		Header2: signedHeader(1, 7, 2),
	}
	err := blocks.ProcessProposerSlashing(cfg, st, slashing)
	if err == nil {
		t.Fatal("expected an error for an out-of-range proposer index")
	}
	if !coreerr.Is(err, coreerr.ClassPreconditionMissing) {
		t.Fatalf("got error class for %v, want ClassPreconditionMissing", err)
	}
}

func TestProcessProposerSlashingRejectsAlreadySlashed(t *testing.T) {
	cfg := params.MainnetConfig()
	v := consensusblocks.Validator{
		Slashed:           true,
		ExitEpoch:         cfg.GenesisEpoch + 1,
		WithdrawableEpoch: cfg.FarFutureEpoch,
	}
	st := newSlashingTestState(t, cfg, v)
	slashing := &consensusblocks.ProposerSlashing{
		Header1: signedHeader(1, 0, 1),
		Header2: signedHeader(1, 0, 2),
	}
	err := blocks.ProcessProposerSlashing(cfg, st, slashing)
	if err == nil {
		t.Fatal("expected an error re-slashing an already-slashed proposer")
	}
	if !coreerr.Is(err, coreerr.ClassInvalidOperation) {
		t.Fatalf("got error class for %v, want ClassInvalidOperation", err)
	}
}

func TestProcessProposerSlashingRejectsWithdrawnProposer(t *testing.T) {
	cfg := params.MainnetConfig()
	v := consensusblocks.Validator{
		ExitEpoch:         cfg.GenesisEpoch,
		WithdrawableEpoch: cfg.GenesisEpoch, // already past withdrawal, not slashable
	}
	st := newSlashingTestState(t, cfg, v)
	slashing := &consensusblocks.ProposerSlashing{
		Header1: signedHeader(1, 0, 1),
		Header2: signedHeader(1, 0, 2),
	}
	if err := blocks.ProcessProposerSlashing(cfg, st, slashing); err == nil {
		t.Fatal("expected an error slashing a proposer at or past its withdrawable epoch")
	}
}
