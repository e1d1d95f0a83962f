package blockchain

import (
	"context"

	"go.opencensus.io/trace"

	"github.com/go-beacon/consensus-core/beacon-chain/core/transition"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// OnSlot ticks fork choice for slot and, if no block has arrived by the time
// its own slot elapses, advances the cached head state through empty slots
// so any epoch boundary within them still runs epoch processing. This keeps
// duty computation (proposer/committee assignments) correct even during a
// proposer's missed slot.
func (s *Service) OnSlot(ctx context.Context, slot primitives.Slot) {
	_, span := trace.StartSpan(ctx, "blockchain.OnSlot")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fc.OnTick(slot)

	head, ok := s.states.Get(s.headRoot)
	if ok && head.Slot() < slot {
		if err := transition.ProcessSlots(s.cfg, head, slot); err != nil {
			log.WithError(err).Warn("could not advance head state through empty slots")
		}
	}

	if err := s.recomputeHeadLocked(); err != nil {
		log.WithError(err).Error("could not persist new head")
	}
}
