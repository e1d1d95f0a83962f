package forkchoice

import (
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// OnAttestation records validatorIndex's vote for blockRoot at targetEpoch.
// A vote older than the validator's stored message is ignored; a vote for
// the same target epoch but a different root than the stored one marks the
// validator as equivocating, permanently dropping its weight from every
// subtree rather than moving it.
func (s *Store) OnAttestation(validatorIndex primitives.ValidatorIndex, blockRoot [32]byte, targetEpoch primitives.Epoch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.equivocating[validatorIndex] {
		return
	}
	existing, ok := s.latestMessage[validatorIndex]
	if ok {
		if targetEpoch < existing.epoch {
			return
		}
		if targetEpoch == existing.epoch && existing.root != blockRoot {
			s.equivocating[validatorIndex] = true
			delete(s.latestMessage, validatorIndex)
			return
		}
	}
	s.latestMessage[validatorIndex] = vote{root: blockRoot, epoch: targetEpoch}
}

// IsEquivocating reports whether validatorIndex has been caught voting for
// two different blocks in the same target epoch.
func (s *Store) IsEquivocating(validatorIndex primitives.ValidatorIndex) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.equivocating[validatorIndex]
}
