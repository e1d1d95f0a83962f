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

func attestationData(sourceEpoch, targetEpoch primitives.Epoch, root byte) *consensusblocks.AttestationData {
	d := &consensusblocks.AttestationData{
		Source: primitives.Checkpoint{Epoch: sourceEpoch},
		Target: primitives.Checkpoint{Epoch: targetEpoch},
	}
	d.BeaconBlockRoot[0] = root
	return d
}

func indexedAttestation(data *consensusblocks.AttestationData, indices ...primitives.ValidatorIndex) *consensusblocks.IndexedAttestation {
	return &consensusblocks.IndexedAttestation{AttestingIndices: indices, Data: data}
}

func TestProcessAttesterSlashingRejectsNilAttestation(t *testing.T) {
	cfg := params.MainnetConfig()
	st, err := statenative.New(state.New(nil, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	slashing := &consensusblocks.AttesterSlashing{Attestation1: nil, Attestation2: nil}
	if err := blocks.ProcessAttesterSlashing(cfg, st, slashing); err == nil {
		t.Fatal("expected an error for a slashing with nil attestations")
	}
}

// Identical attestation data is neither a double vote nor a surround vote,
// so the mutual-slashability check must reject it before any signature work.
func TestProcessAttesterSlashingRejectsNonSlashableData(t *testing.T) {
	cfg := params.MainnetConfig()
	st, err := statenative.New(state.New(nil, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	data := attestationData(1, 2, 1)
	slashing := &consensusblocks.AttesterSlashing{
		Attestation1: indexedAttestation(data, 0),
		Attestation2: indexedAttestation(data, 0),
	}
	err = blocks.ProcessAttesterSlashing(cfg, st, slashing)
	if err == nil {
		t.Fatal("expected an error for two identical attestations (no double or surround vote)")
	}
	if !coreerr.Is(err, coreerr.ClassInvalidOperation) {
		t.Fatalf("got error class for %v, want ClassInvalidOperation", err)
	}
}

// A double vote (same target epoch, different data) passes the mutual
// slashability check and proceeds to verifyIndexedAttestation, where the
// unsorted-indices check fires before any BLS key material is touched.
func TestProcessAttesterSlashingRejectsUnsortedIndices(t *testing.T) {
	cfg := params.MainnetConfig()
	st, err := statenative.New(state.New(nil, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	data1 := attestationData(1, 5, 1)
	data2 := attestationData(1, 5, 2)
	slashing := &consensusblocks.AttesterSlashing{
		Attestation1: indexedAttestation(data1, 1, 0), // not sorted
		Attestation2: indexedAttestation(data2, 0),
	}
	err = blocks.ProcessAttesterSlashing(cfg, st, slashing)
	if err == nil {
		t.Fatal("expected an error for unsorted attesting indices")
	}
}

func TestProcessAttesterSlashingRejectsEmptyIndices(t *testing.T) {
	cfg := params.MainnetConfig()
	st, err := statenative.New(state.New(nil, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	data1 := attestationData(1, 5, 1)
	data2 := attestationData(1, 5, 2)
	slashing := &consensusblocks.AttesterSlashing{
		Attestation1: indexedAttestation(data1),
		Attestation2: indexedAttestation(data2, 0),
	}
	if err := blocks.ProcessAttesterSlashing(cfg, st, slashing); err == nil {
		t.Fatal("expected an error for an indexed attestation with no attesting indices")
	}
}

func TestIsSlashableAttestationDataDetectsSurroundVote(t *testing.T) {
	cfg := params.MainnetConfig()
	st, err := statenative.New(state.New(nil, nil), cfg)
	if err != nil {
		t.Fatal(err)
	}
	outer := attestationData(1, 10, 1) // source 1, target 10
	inner := attestationData(2, 9, 1) // surrounded by outer
	slashing := &consensusblocks.AttesterSlashing{
		Attestation1: indexedAttestation(outer, 1), // out of range, but surround check runs first
		Attestation2: indexedAttestation(inner, 1),
	}
	err = blocks.ProcessAttesterSlashing(cfg, st, slashing)
	// The surround vote passes the mutual-slashability gate; the failure here
	// must come from verifying the indexed attestation (out-of-range index,
	// wrapped as ClassInvalidOperation), not from isSlashableAttestationData
	// rejecting the pair.
	if err == nil {
		t.Fatal("expected an error from index verification")
	}
	if !coreerr.Is(err, coreerr.ClassInvalidOperation) {
		t.Fatalf("got error class for %v, want ClassInvalidOperation, meaning the surround vote was accepted as mutually slashable", err)
	}
}
