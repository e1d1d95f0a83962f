package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/beacon-chain/core/validators"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ProcessVoluntaryExits verifies and applies every voluntary exit in a block
// body.
func ProcessVoluntaryExits(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, exits []*blocks.SignedVoluntaryExit) error {
	for _, e := range exits {
		if err := ProcessVoluntaryExit(cfg, st, e); err != nil {
			return err
		}
	}
	return nil
}

// ProcessVoluntaryExit verifies a single signed voluntary exit (validator
// active long enough, no exit already queued, signature valid) and queues the
// named validator's exit.
func ProcessVoluntaryExit(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, signed *blocks.SignedVoluntaryExit) error {
	if signed == nil || signed.Exit == nil {
		return coreerr.InvalidOperationf("nil voluntary exit")
	}
	exit := signed.Exit
	v, err := st.ValidatorAtIndex(exit.ValidatorIndex)
	if err != nil {
		return coreerr.PreconditionMissingf("could not look up validator %d: %v", exit.ValidatorIndex, err)
	}
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	if !v.IsActive(currentEpoch) {
		return coreerr.InvalidOperationf("validator %d is not active", exit.ValidatorIndex)
	}
	if v.ExitEpoch != cfg.FarFutureEpoch {
		return coreerr.InvalidOperationf("validator %d has already initiated exit", exit.ValidatorIndex)
	}
	if currentEpoch < exit.Epoch {
		return coreerr.InvalidOperationf("voluntary exit epoch %d is in the future", exit.Epoch)
	}
	if currentEpoch < v.ActivationEpoch+cfg.ShardCommitteePeriod {
		return coreerr.InvalidOperationf("validator %d has not been active long enough to exit", exit.ValidatorIndex)
	}

	exitRoot, err := exitSigningRoot(exit)
	if err != nil {
		return coreerr.WrapInvalidOperation(err, "could not hash voluntary exit")
	}
	if err := VerifySigningRoot(cfg, st, exit.ValidatorIndex, exit.Epoch, cfg.DomainVoluntaryExit, exitRoot, signed.Signature); err != nil {
		return coreerr.WrapInvalidSignature(err, "could not verify voluntary exit signature")
	}

	return validators.InitiateValidatorExit(cfg, st, exit.ValidatorIndex)
}

func exitSigningRoot(exit *blocks.VoluntaryExit) ([32]byte, error) {
	wrapped := &blocks.SignedVoluntaryExit{Exit: exit}
	return wrapped.HashTreeRoot()
}
