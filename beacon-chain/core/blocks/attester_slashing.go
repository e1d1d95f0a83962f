package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/beacon-chain/core/validators"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/crypto/bls"
	"github.com/go-beacon/consensus-core/crypto/bls/common"
)

// ProcessAttesterSlashings verifies and applies every attester slashing in a
// block body.
func ProcessAttesterSlashings(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, slashings []*blocks.AttesterSlashing) error {
	for _, s := range slashings {
		if err := ProcessAttesterSlashing(cfg, st, s); err != nil {
			return err
		}
	}
	return nil
}

// ProcessAttesterSlashing verifies a single attester slashing (two indexed
// attestations proving a double vote or a surround vote by an overlapping
// validator set) and slashes every validator in the intersection that is
// still slashable.
func ProcessAttesterSlashing(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, slashing *blocks.AttesterSlashing) error {
	if slashing == nil || slashing.Attestation1 == nil || slashing.Attestation2 == nil {
		return coreerr.InvalidOperationf("nil attestation in attester slashing")
	}
	att1, att2 := slashing.Attestation1, slashing.Attestation2
	if !isSlashableAttestationData(att1.Data, att2.Data) {
		return coreerr.InvalidOperationf("attestations are not mutually slashable")
	}
	if err := verifyIndexedAttestation(cfg, st, att1); err != nil {
		return coreerr.WrapInvalidOperation(err, "invalid first indexed attestation")
	}
	if err := verifyIndexedAttestation(cfg, st, att2); err != nil {
		return coreerr.WrapInvalidOperation(err, "invalid second indexed attestation")
	}

	currentEpoch := helpers.CurrentEpoch(cfg, st.Slot())
	slashedAny := false
	for _, idx := range intersection(att1.AttestingIndices, att2.AttestingIndices) {
		v, err := st.ValidatorAtIndex(idx)
		if err != nil {
			return coreerr.PreconditionMissingf("could not look up validator %d: %v", idx, err)
		}
		if !v.IsSlashable(currentEpoch) {
			continue
		}
		if err := validators.SlashValidator(cfg, st, idx, cfg.MinSlashingPenaltyQuotient); err != nil {
			return err
		}
		slashedAny = true
	}
	if !slashedAny {
		return coreerr.InvalidOperationf("no slashable validator in attestation intersection")
	}
	return nil
}

// isSlashableAttestationData reports whether a and b constitute either a
// double vote (same target epoch, different data) or a surround vote (one
// attestation's source/target interval strictly contains the other's).
func isSlashableAttestationData(a, b *blocks.AttestationData) bool {
	if a == nil || b == nil {
		return false
	}
	doubleVote := a.Target.Epoch == b.Target.Epoch && !a.Equal(*b)
	surroundVote := (a.Source.Epoch < b.Source.Epoch && b.Target.Epoch < a.Target.Epoch) ||
		(b.Source.Epoch < a.Source.Epoch && a.Target.Epoch < b.Target.Epoch)
	return doubleVote || surroundVote
}

func verifyIndexedAttestation(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, att *blocks.IndexedAttestation) error {
	if len(att.AttestingIndices) == 0 {
		return coreerr.InvalidOperationf("indexed attestation has no attesting indices")
	}
	for i := 1; i < len(att.AttestingIndices); i++ {
		if att.AttestingIndices[i] <= att.AttestingIndices[i-1] {
			return coreerr.InvalidOperationf("attesting indices are not sorted and unique")
		}
	}
	registry := st.Validators()
	var aggregatedKey common.PublicKey
	for _, idx := range att.AttestingIndices {
		if int(idx) >= len(registry) {
			return coreerr.PreconditionMissingf("attesting index %d out of range", idx)
		}
		key, err := bls.PublicKeyFromBytes(registry[idx].PublicKey[:])
		if err != nil {
			return coreerr.WrapInvalidSignature(err, "could not deserialize attester public key")
		}
		if aggregatedKey == nil {
			aggregatedKey = key
		} else {
			aggregatedKey = aggregatedKey.Aggregate(key)
		}
	}
	if aggregatedKey == nil {
		return coreerr.InvalidOperationf("empty aggregate public key")
	}

	dataRoot, err := att.Data.HashTreeRoot()
	if err != nil {
		return coreerr.WrapInvalidOperation(err, "could not hash attestation data")
	}
	epoch := att.Data.Target.Epoch
	domain := helpers.Domain(cfg, st, epoch, cfg.DomainBeaconAttester)
	signingRoot := helpers.ComputeSigningRoot(dataRoot, domain)

	sig, err := bls.SignatureFromBytes(att.Signature[:])
	if err != nil {
		return coreerr.WrapInvalidSignature(err, "could not deserialize signature")
	}
	if !sig.Verify(aggregatedKey, signingRoot[:]) {
		return coreerr.InvalidSignaturef("indexed attestation signature does not verify")
	}
	return nil
}

func intersection(a, b []primitives.ValidatorIndex) []primitives.ValidatorIndex {
	set := make(map[primitives.ValidatorIndex]bool, len(a))
	for _, idx := range a {
		set[idx] = true
	}
	var out []primitives.ValidatorIndex
	for _, idx := range b {
		if set[idx] {
			out = append(out, idx)
		}
	}
	return out
}
