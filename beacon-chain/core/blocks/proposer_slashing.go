package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/beacon-chain/core/validators"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ProcessProposerSlashings verifies and applies every proposer slashing in a
// block body, slashing the proposer named by each one.
func ProcessProposerSlashings(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, slashings []*blocks.ProposerSlashing) error {
	for _, s := range slashings {
		if err := ProcessProposerSlashing(cfg, st, s); err != nil {
			return err
		}
	}
	return nil
}

// ProcessProposerSlashing verifies a single proposer slashing (two signed
// headers for the same slot and proposer, by a still-slashable validator) and
// slashes the named proposer.
func ProcessProposerSlashing(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, slashing *blocks.ProposerSlashing) error {
	if slashing == nil || slashing.Header1 == nil || slashing.Header1.Header == nil ||
		slashing.Header2 == nil || slashing.Header2.Header == nil {
		return coreerr.InvalidOperationf("nil header in proposer slashing")
	}
	h1, h2 := slashing.Header1.Header, slashing.Header2.Header
	if h1.Slot != h2.Slot {
		return coreerr.InvalidOperationf("mismatched header slots %d != %d", h1.Slot, h2.Slot)
	}
	if h1.ProposerIndex != h2.ProposerIndex {
		return coreerr.InvalidOperationf("mismatched proposer indices %d != %d", h1.ProposerIndex, h2.ProposerIndex)
	}
	if headersEqual(*h1, *h2) {
		return coreerr.InvalidOperationf("expected slashing headers to differ")
	}

	proposer, err := st.ValidatorAtIndex(h1.ProposerIndex)
	if err != nil {
		return coreerr.PreconditionMissingf("could not look up proposer %d: %v", h1.ProposerIndex, err)
	}
	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	if !proposer.IsSlashable(currentEpoch) {
		return coreerr.InvalidOperationf("proposer %d is not slashable at epoch %d", h1.ProposerIndex, currentEpoch)
	}

	headerEpoch := helpers.SlotToEpoch(cfg, h1.Slot)
	for _, signed := range []*blocks.SignedBeaconBlockHeader{slashing.Header1, slashing.Header2} {
		root, err := signed.Header.HashTreeRoot()
		if err != nil {
			return coreerr.WrapInvalidOperation(err, "could not hash signed header")
		}
		if err := VerifySigningRoot(cfg, st, h1.ProposerIndex, headerEpoch, cfg.DomainBeaconProposer, root, signed.Signature); err != nil {
			return coreerr.WrapInvalidSignature(err, "could not verify proposer slashing header signature")
		}
	}

	return validators.SlashValidator(cfg, st, h1.ProposerIndex, cfg.MinSlashingPenaltyQuotient)
}
