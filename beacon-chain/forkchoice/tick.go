package forkchoice

import (
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// OnTick advances the store's internal clock to slot. At the first tick of
// a new epoch it promotes the best justified checkpoint seen so far into
// the active justified checkpoint, which is how a checkpoint that became
// justified mid-epoch (and so wasn't safe to switch to immediately, per the
// spec's equivocation-safety rule) takes effect. It also expires the
// proposer-score boost once its slot has passed.
func (s *Store) OnTick(slot primitives.Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prevEpoch := primitives.Epoch(uint64(s.time) / uint64(s.cfg.SlotsPerEpoch))
	s.time = slot
	newEpoch := primitives.Epoch(uint64(slot) / uint64(s.cfg.SlotsPerEpoch))

	if newEpoch > prevEpoch && s.bestJustified.Epoch > s.justified.Epoch {
		s.previousJustified = s.justified
		s.justified = s.bestJustified
	}
	if s.proposerBoostRoot != [32]byte{} && slot > s.proposerBoostSlot {
		s.proposerBoostRoot = [32]byte{}
	}
}

// Time returns the store's current tick slot.
func (s *Store) Time() primitives.Slot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}
