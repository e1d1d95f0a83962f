package transition_test

import (
	"context"
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/core/transition"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func genesisCachedState(t *testing.T, cfg *params.BeaconChainConfig, numValidators int) *statenative.CachedBeaconState {
	t.Helper()
	validators := make([]blocks.Validator, numValidators)
	balances := make([]uint64, numValidators)
	for i := range validators {
		validators[i] = blocks.Validator{
			EffectiveBalance:           cfg.MaxEffectiveBalance,
			ActivationEligibilityEpoch: cfg.GenesisEpoch,
			ActivationEpoch:            cfg.GenesisEpoch,
			ExitEpoch:                  cfg.FarFutureEpoch,
			WithdrawableEpoch:          cfg.FarFutureEpoch,
		}
		balances[i] = cfg.MaxEffectiveBalance
	}
	st := state.New(validators, balances)
	st.SetCurrentJustifiedCheckpoint(primitives.Checkpoint{Epoch: cfg.GenesisEpoch})
	st.SetFinalizedCheckpoint(primitives.Checkpoint{Epoch: cfg.GenesisEpoch})

	cached, err := statenative.New(st, cfg)
	if err != nil {
		t.Fatalf("statenative.New: %v", err)
	}
	return cached
}

// Scenario: empty genesis transition. From a genesis state at slot 0 with 16
// validators each at the maximum effective balance, advance to slot 32 (one
// mainnet epoch) with no blocks.
func TestProcessSlotsEmptyGenesisTransition(t *testing.T) {
	cfg := params.MainnetConfig()
	st := genesisCachedState(t, cfg, 16)

	if err := transition.ProcessSlots(cfg, st, 32); err != nil {
		t.Fatalf("ProcessSlots: %v", err)
	}

	if st.Slot() != 32 {
		t.Fatalf("got slot %d, want 32", st.Slot())
	}
	for i, bal := range st.Balances() {
		if bal != cfg.MaxEffectiveBalance {
			t.Errorf("validator %d balance = %d, want unchanged %d", i, bal, cfg.MaxEffectiveBalance)
		}
	}
	for i, flag := range st.CurrentEpochParticipation() {
		if flag != 0 {
			t.Errorf("validator %d current-epoch participation = %d, want 0 (no attestations were made)", i, flag)
		}
	}
	if got := st.CurrentJustifiedCheckpoint().Epoch; got != cfg.GenesisEpoch {
		t.Errorf("current justified checkpoint epoch = %d, want genesis epoch %d (no justification possible this early)", got, cfg.GenesisEpoch)
	}
}

func TestProcessSlotsRejectsNonForwardTarget(t *testing.T) {
	cfg := params.MainnetConfig()
	st := genesisCachedState(t, cfg, 4)
	if err := transition.ProcessSlots(cfg, st, 10); err != nil {
		t.Fatalf("ProcessSlots: %v", err)
	}
	// Re-applying to an already-transitioned state at the same or an
	// earlier target slot must fail rather than silently no-op.
	if err := transition.ProcessSlots(cfg, st, 10); err == nil {
		t.Fatal("expected an error re-advancing to a target slot the state already reached")
	}
	if err := transition.ProcessSlots(cfg, st, 5); err == nil {
		t.Fatal("expected an error advancing to a target slot behind the current slot")
	}
}

func TestProcessSlotCachesHistoricalRoots(t *testing.T) {
	cfg := params.MainnetConfig()
	st := genesisCachedState(t, cfg, 4)

	if err := transition.ProcessSlot(cfg, st); err != nil {
		t.Fatalf("ProcessSlot: %v", err)
	}

	stateRoots := st.StateRoots()
	var zero [32]byte
	if stateRoots[0] == zero {
		t.Error("expected slot 0's state root to be cached into the historical-roots ring")
	}
}

func TestExecuteStateTransitionRejectsNilBlock(t *testing.T) {
	cfg := params.MainnetConfig()
	st := genesisCachedState(t, cfg, 4)
	if _, err := transition.ExecuteStateTransition(context.Background(), cfg, nil, st, nil); err == nil {
		t.Fatal("expected an error for a nil signed block")
	}
}
