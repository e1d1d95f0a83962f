package validators_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/core/validators"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func newRegistryTestState(t *testing.T, cfg *params.BeaconChainConfig, n int) *statenative.CachedBeaconState {
	t.Helper()
	vs := make([]blocks.Validator, n)
	bals := make([]uint64, n)
	for i := range vs {
		vs[i] = blocks.Validator{
			EffectiveBalance:           cfg.MaxEffectiveBalance,
			ActivationEligibilityEpoch: cfg.GenesisEpoch,
			ActivationEpoch:            cfg.GenesisEpoch,
			ExitEpoch:                  cfg.FarFutureEpoch,
			WithdrawableEpoch:          cfg.FarFutureEpoch,
		}
		bals[i] = cfg.MaxEffectiveBalance
	}
	st := state.New(vs, bals)
	cached, err := statenative.New(st, cfg)
	if err != nil {
		t.Fatalf("statenative.New: %v", err)
	}
	return cached
}

func TestChurnLimitFloorsAtMinimum(t *testing.T) {
	cfg := params.MainnetConfig()
	if got := validators.ChurnLimit(cfg, 10); got != cfg.MinPerEpochChurnLimit {
		t.Errorf("ChurnLimit(10) = %d, want the minimum %d", got, cfg.MinPerEpochChurnLimit)
	}
}

func TestChurnLimitScalesWithActiveCount(t *testing.T) {
	cfg := params.MainnetConfig()
	active := cfg.ChurnLimitQuotient * 10
	want := active / cfg.ChurnLimitQuotient
	if got := validators.ChurnLimit(cfg, active); got != want {
		t.Errorf("ChurnLimit(%d) = %d, want %d", active, got, want)
	}
}

func TestInitiateValidatorExitSetsExitAndWithdrawableEpoch(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newRegistryTestState(t, cfg, 4)

	if err := validators.InitiateValidatorExit(cfg, st, 0); err != nil {
		t.Fatalf("InitiateValidatorExit: %v", err)
	}
	v, err := st.ValidatorAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	wantExit := cfg.GenesisEpoch + cfg.MaxSeedLookahead + 1
	if v.ExitEpoch != wantExit {
		t.Errorf("got exit epoch %d, want %d", v.ExitEpoch, wantExit)
	}
	if v.WithdrawableEpoch != v.ExitEpoch+cfg.MinValidatorWithdrawabilityDelay {
		t.Errorf("got withdrawable epoch %d, want exit epoch + delay", v.WithdrawableEpoch)
	}
}

func TestInitiateValidatorExitIsIdempotent(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newRegistryTestState(t, cfg, 4)

	if err := validators.InitiateValidatorExit(cfg, st, 0); err != nil {
		t.Fatal(err)
	}
	first, err := st.ValidatorAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	if err := validators.InitiateValidatorExit(cfg, st, 0); err != nil {
		t.Fatal(err)
	}
	second, err := st.ValidatorAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	if first.ExitEpoch != second.ExitEpoch {
		t.Error("a validator that already has an exit epoch must not be requeued")
	}
}

func TestInitiateValidatorExitRespectsChurnLimit(t *testing.T) {
	cfg := params.MainnetConfig()
	// Few validators means the churn limit is MinPerEpochChurnLimit (4);
	// queue one extra than the limit in the same exit epoch and expect the
	// overflow validator to be pushed to the next epoch.
	n := int(cfg.MinPerEpochChurnLimit) + 1
	st := newRegistryTestState(t, cfg, n)

	for i := 0; i < n; i++ {
		if err := validators.InitiateValidatorExit(cfg, st, primitives.ValidatorIndex(i)); err != nil {
			t.Fatalf("InitiateValidatorExit(%d): %v", i, err)
		}
	}

	epochs := make(map[primitives.Epoch]int)
	for i := 0; i < n; i++ {
		v, err := st.ValidatorAtIndex(primitives.ValidatorIndex(i))
		if err != nil {
			t.Fatal(err)
		}
		epochs[v.ExitEpoch]++
	}
	if len(epochs) < 2 {
		t.Fatalf("expected the churn-limit overflow to spill into a second exit epoch, got exit epochs %v", epochs)
	}
}

func TestSlashValidatorMarksSlashedAndAppliesPenalty(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newRegistryTestState(t, cfg, 8)

	if err := validators.SlashValidator(cfg, st, 0, cfg.MinSlashingPenaltyQuotient); err != nil {
		t.Fatalf("SlashValidator: %v", err)
	}

	v, err := st.ValidatorAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Slashed {
		t.Fatal("expected the validator to be marked slashed")
	}
	if v.ExitEpoch == cfg.FarFutureEpoch {
		t.Fatal("expected a slashed validator to also be queued for exit")
	}

	bal, err := st.BalanceAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	wantPenalty := cfg.MaxEffectiveBalance / cfg.MinSlashingPenaltyQuotient
	if bal != cfg.MaxEffectiveBalance-wantPenalty {
		t.Errorf("got balance %d, want %d after slashing penalty", bal, cfg.MaxEffectiveBalance-wantPenalty)
	}

	slashings := st.Slashings()
	if slashings[0] != cfg.MaxEffectiveBalance {
		t.Errorf("got slashings bucket %d, want the slashed validator's effective balance %d", slashings[0], cfg.MaxEffectiveBalance)
	}
}

func TestSlashValidatorBalanceNeverUnderflows(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newRegistryTestState(t, cfg, 8)
	// Drain the balance to less than the computed penalty first.
	if err := st.SetBalanceAtIndex(0, 1); err != nil {
		t.Fatal(err)
	}

	if err := validators.SlashValidator(cfg, st, 0, cfg.MinSlashingPenaltyQuotient); err != nil {
		t.Fatalf("SlashValidator: %v", err)
	}
	bal, err := st.BalanceAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 0 {
		t.Errorf("got balance %d, want 0 (saturating penalty, no underflow)", bal)
	}
}

func TestProcessRegistryUpdatesEjectsBelowThreshold(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newRegistryTestState(t, cfg, 4)
	v, err := st.ValidatorAtIndex(1)
	if err != nil {
		t.Fatal(err)
	}
	v.EffectiveBalance = cfg.EjectionBalance
	if err := st.UpdateValidatorAtIndex(1, v); err != nil {
		t.Fatal(err)
	}

	if err := validators.ProcessRegistryUpdates(cfg, st); err != nil {
		t.Fatalf("ProcessRegistryUpdates: %v", err)
	}

	got, err := st.ValidatorAtIndex(1)
	if err != nil {
		t.Fatal(err)
	}
	if got.ExitEpoch == cfg.FarFutureEpoch {
		t.Fatal("expected the under-threshold validator to be queued for exit")
	}
	other, err := st.ValidatorAtIndex(0)
	if err != nil {
		t.Fatal(err)
	}
	if other.ExitEpoch != cfg.FarFutureEpoch {
		t.Error("validators above the ejection threshold must not be ejected")
	}
}

func TestProcessRegistryUpdatesActivatesEligibleValidator(t *testing.T) {
	cfg := params.MainnetConfig()
	st := newRegistryTestState(t, cfg, 4)
	v, err := st.ValidatorAtIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	v.ActivationEligibilityEpoch = cfg.GenesisEpoch
	v.ActivationEpoch = cfg.FarFutureEpoch
	if err := st.UpdateValidatorAtIndex(2, v); err != nil {
		t.Fatal(err)
	}

	if err := validators.ProcessRegistryUpdates(cfg, st); err != nil {
		t.Fatalf("ProcessRegistryUpdates: %v", err)
	}

	got, err := st.ValidatorAtIndex(2)
	if err != nil {
		t.Fatal(err)
	}
	if got.ActivationEpoch == cfg.FarFutureEpoch {
		t.Fatal("expected the eligible validator to be assigned an activation epoch")
	}
}
