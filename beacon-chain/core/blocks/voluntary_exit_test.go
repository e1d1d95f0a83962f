package blocks_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/config/params"
	consensusblocks "github.com/go-beacon/consensus-core/consensus-types/blocks"
)

func newExitTestState(t *testing.T, cfg *params.BeaconChainConfig, v consensusblocks.Validator) *statenative.CachedBeaconState {
	t.Helper()
	st := state.New([]consensusblocks.Validator{v}, []uint64{cfg.MaxEffectiveBalance})
	cached, err := statenative.New(st, cfg)
	if err != nil {
		t.Fatalf("statenative.New: %v", err)
	}
	return cached
}

// All of these admissibility checks run before signature verification, so
// each one can be tested in isolation without a real BLS signature.

func TestProcessVoluntaryExitRejectsNilExit(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newExitTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch})
	if err := blocks.ProcessVoluntaryExit(cfg, st, &consensusblocks.SignedVoluntaryExit{}); err == nil {
		t.Fatal("expected an error for a signed exit with a nil Exit")
	}
}

func TestProcessVoluntaryExitRejectsUnknownValidator(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newExitTestState(t, cfg, consensusblocks.Validator{ExitEpoch: cfg.FarFutureEpoch})
	signed := &consensusblocks.SignedVoluntaryExit{Exit: &consensusblocks.VoluntaryExit{ValidatorIndex: 99}}
	err := blocks.ProcessVoluntaryExit(cfg, st, signed)
	if err == nil {
		t.Fatal("expected an error for an out-of-range validator index")
	}
	if !coreerr.Is(err, coreerr.ClassPreconditionMissing) {
		t.Fatalf("got error class for %v, want ClassPreconditionMissing", err)
	}
}

func TestProcessVoluntaryExitRejectsInactiveValidator(t *testing.T) {
	cfg := params.MainnetConfig()
	v := consensusblocks.Validator{
		ActivationEpoch:   cfg.FarFutureEpoch, // never activated
		ExitEpoch:         cfg.FarFutureEpoch,
		WithdrawableEpoch: cfg.FarFutureEpoch,
	}
	st := newExitTestState(t, cfg, v)
	signed := &consensusblocks.SignedVoluntaryExit{Exit: &consensusblocks.VoluntaryExit{ValidatorIndex: 0}}
	err := blocks.ProcessVoluntaryExit(cfg, st, signed)
	if err == nil {
		t.Fatal("expected an error exiting a validator that is not active")
	}
	if !coreerr.Is(err, coreerr.ClassInvalidOperation) {
		t.Fatalf("got error class for %v, want ClassInvalidOperation", err)
	}
}

func TestProcessVoluntaryExitRejectsAlreadyExited(t *testing.T) {
	cfg := params.MainnetConfig()
	v := consensusblocks.Validator{
		ActivationEpoch:   cfg.GenesisEpoch,
		ExitEpoch:         cfg.GenesisEpoch + 5, // already queued to exit
		WithdrawableEpoch: cfg.FarFutureEpoch,
	}
	st := newExitTestState(t, cfg, v)
	signed := &consensusblocks.SignedVoluntaryExit{Exit: &consensusblocks.VoluntaryExit{ValidatorIndex: 0}}
	if err := blocks.ProcessVoluntaryExit(cfg, st, signed); err == nil {
		t.Fatal("expected an error re-exiting a validator that already has an exit epoch")
	}
}

func TestProcessVoluntaryExitRejectsFutureExitEpoch(t *testing.T) {
	cfg := params.MainnetConfig()
	v := consensusblocks.Validator{
		ActivationEpoch:   cfg.GenesisEpoch,
		ExitEpoch:         cfg.FarFutureEpoch,
		WithdrawableEpoch: cfg.FarFutureEpoch,
	}
	st := newExitTestState(t, cfg, v) // slot 0, so current epoch is genesis
	signed := &consensusblocks.SignedVoluntaryExit{Exit: &consensusblocks.VoluntaryExit{
		ValidatorIndex: 0,
		Epoch:          cfg.GenesisEpoch + 1,
	}}
	if err := blocks.ProcessVoluntaryExit(cfg, st, signed); err == nil {
		t.Fatal("expected an error for an exit whose epoch has not arrived yet")
	}
}

func TestProcessVoluntaryExitRejectsUnseasonedValidator(t *testing.T) {
	cfg := params.MainnetConfig()
	currentEpoch := cfg.GenesisEpoch + cfg.ShardCommitteePeriod - 1
	st := newExitTestState(t, cfg, consensusblocks.Validator{
		ActivationEpoch:   cfg.GenesisEpoch,
		ExitEpoch:         cfg.FarFutureEpoch,
		WithdrawableEpoch: cfg.FarFutureEpoch,
	})
	st.SetSlot(helpers.StartSlot(cfg, currentEpoch))

	signed := &consensusblocks.SignedVoluntaryExit{Exit: &consensusblocks.VoluntaryExit{
		ValidatorIndex: 0,
		Epoch:          currentEpoch,
	}}
	err := blocks.ProcessVoluntaryExit(cfg, st, signed)
	if err == nil {
		t.Fatal("expected an error exiting a validator before its shard committee period has elapsed")
	}
	if !coreerr.Is(err, coreerr.ClassInvalidOperation) {
		t.Fatalf("got error class for %v, want ClassInvalidOperation", err)
	}
}
