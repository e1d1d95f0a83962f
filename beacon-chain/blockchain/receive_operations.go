package blockchain

import (
	"context"

	"go.opencensus.io/trace"

	coreblocks "github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ReceiveVoluntaryExit validates signed against a disposable copy of the
// head state and, if admissible, stages it for block inclusion.
func (s *Service) ReceiveVoluntaryExit(ctx context.Context, signed *blocks.SignedVoluntaryExit) (Outcome, error) {
	_, span := trace.StartSpan(ctx, "blockchain.ReceiveVoluntaryExit")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	head, ok := s.states.Get(s.headRoot)
	if !ok {
		return Ignored, errParentUnknown
	}
	scratch, err := head.Copy()
	if err != nil {
		return Rejected, err
	}
	if err := coreblocks.ProcessVoluntaryExit(s.cfg, scratch, signed); err != nil {
		if coreerr.Is(err, coreerr.ClassInvalidOperation) {
			return Ignored, err
		}
		return Rejected, err
	}
	s.voluntaryExits.Save(signed)
	return Accepted, nil
}

// ReceiveProposerSlashing validates ps and, if admissible, stages it for
// block inclusion.
func (s *Service) ReceiveProposerSlashing(ctx context.Context, ps *blocks.ProposerSlashing) (Outcome, error) {
	_, span := trace.StartSpan(ctx, "blockchain.ReceiveProposerSlashing")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	head, ok := s.states.Get(s.headRoot)
	if !ok {
		return Ignored, errParentUnknown
	}
	scratch, err := head.Copy()
	if err != nil {
		return Rejected, err
	}
	if err := coreblocks.ProcessProposerSlashing(s.cfg, scratch, ps); err != nil {
		if coreerr.Is(err, coreerr.ClassInvalidOperation) {
			return Ignored, err
		}
		return Rejected, err
	}
	s.slashingPool.SaveProposerSlashing(ps)
	return Accepted, nil
}

// ReceiveAttesterSlashing validates as and, if admissible, stages it for
// block inclusion.
func (s *Service) ReceiveAttesterSlashing(ctx context.Context, as *blocks.AttesterSlashing) (Outcome, error) {
	_, span := trace.StartSpan(ctx, "blockchain.ReceiveAttesterSlashing")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	head, ok := s.states.Get(s.headRoot)
	if !ok {
		return Ignored, errParentUnknown
	}
	scratch, err := head.Copy()
	if err != nil {
		return Rejected, err
	}
	if err := coreblocks.ProcessAttesterSlashing(s.cfg, scratch, as); err != nil {
		if coreerr.Is(err, coreerr.ClassInvalidOperation) {
			return Ignored, err
		}
		return Rejected, err
	}
	s.slashingPool.SaveAttesterSlashing(as)
	return Accepted, nil
}

// ReceiveDeposit records a deposit reported by an external eth1 feeder at
// its deposit-contract sequence index, for later inclusion in a block body.
// Deposit admissibility (Merkle proof, signature) is checked at inclusion
// time by ProcessDeposit, since it depends on the including block's own
// eth1 data vote.
func (s *Service) ReceiveDeposit(ctx context.Context, index uint64, d *blocks.Deposit) (Outcome, error) {
	_, span := trace.StartSpan(ctx, "blockchain.ReceiveDeposit")
	defer span.End()

	if d == nil || d.Data == nil {
		return Rejected, coreerr.InvalidOperationf("nil deposit")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depositPool.Save(index, d)
	return Accepted, nil
}
