package blockchain

import (
	"context"

	"go.opencensus.io/trace"

	coreblocks "github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ReceiveAttestation resolves att's committee against the state of its
// target checkpoint's block,
// verifies aggregation-bit cardinality and the BLS aggregate signature, and
// feeds each attesting validator's vote into fork choice. It implements the
// receive_attestation entry point.
func (s *Service) ReceiveAttestation(ctx context.Context, att *blocks.Attestation) (Outcome, error) {
	_, span := trace.StartSpan(ctx, "blockchain.ReceiveAttestation")
	defer span.End()

	if att == nil || att.Data == nil {
		return Rejected, coreerr.InvalidOperationf("nil attestation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fc.HasNode(att.Data.BeaconBlockRoot) {
		return Ignored, errParentUnknown
	}

	target, err := s.stateByRootLocked(att.Data.Target.Root)
	if err != nil {
		return Ignored, err
	}

	committee, err := helpers.BeaconCommittee(s.cfg, target, att.Data.Slot, att.Data.CommitteeIndex)
	if err != nil {
		return Rejected, coreerr.WrapInvalidOperation(err, "could not compute beacon committee")
	}
	if len(att.AggregationBits)*8 < len(committee) {
		return Rejected, coreerr.InvalidOperationf("aggregation bitfield too short for committee size %d", len(committee))
	}
	attestingIndices := coreblocks.AttestingIndices(att, committee)
	if len(attestingIndices) == 0 {
		return Rejected, coreerr.InvalidOperationf("attestation has no participating validators")
	}

	if err := coreblocks.VerifyAttestationSignature(s.cfg, target, att, attestingIndices); err != nil {
		return Rejected, err
	}

	if err := s.attestationPool.Save(att); err != nil {
		return Rejected, err
	}

	for _, idx := range attestingIndices {
		s.fc.OnAttestation(idx, att.Data.BeaconBlockRoot, att.Data.Target.Epoch)
		s.emitAttestationProcessed(idx, att.Data.Target.Epoch)
	}
	if err := s.recomputeHeadLocked(); err != nil {
		return Rejected, err
	}

	return Accepted, nil
}
