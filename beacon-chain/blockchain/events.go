package blockchain

import "github.com/go-beacon/consensus-core/consensus-types/primitives"

// Observer is the capability set a subscriber registers: a function per
// event the orchestrator emits. Any field left nil is simply not invoked.
// There is no event bus and no dynamic dispatch beyond this struct boundary
// — the writer task calls each populated field directly and synchronously.
type Observer struct {
	OnHeadChanged           func(newHead, oldHead [32]byte, reorgDepth uint64)
	OnCheckpointJustified   func(cp primitives.Checkpoint)
	OnCheckpointFinalized   func(cp primitives.Checkpoint)
	OnBlockProcessed        func(root [32]byte, slot primitives.Slot)
	OnAttestationProcessed  func(validatorIndex primitives.ValidatorIndex, targetEpoch primitives.Epoch)
	OnBlockRejected         func(root [32]byte, reason error)
}

// Subscribe registers obs to receive future events. Returns an index that
// Unsubscribe accepts to remove it.
func (s *Service) Subscribe(obs Observer) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
	return len(s.observers) - 1
}

// Unsubscribe removes the observer registered at idx, leaving a zero-value
// gap so other indices remain stable.
func (s *Service) Unsubscribe(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.observers) {
		return
	}
	s.observers[idx] = Observer{}
}

func (s *Service) emitHeadChanged(newHead, oldHead [32]byte, reorgDepth uint64) {
	for _, o := range s.observers {
		if o.OnHeadChanged != nil {
			o.OnHeadChanged(newHead, oldHead, reorgDepth)
		}
	}
}

func (s *Service) emitCheckpointJustified(cp primitives.Checkpoint) {
	for _, o := range s.observers {
		if o.OnCheckpointJustified != nil {
			o.OnCheckpointJustified(cp)
		}
	}
}

func (s *Service) emitCheckpointFinalized(cp primitives.Checkpoint) {
	for _, o := range s.observers {
		if o.OnCheckpointFinalized != nil {
			o.OnCheckpointFinalized(cp)
		}
	}
}

func (s *Service) emitBlockProcessed(root [32]byte, slot primitives.Slot) {
	for _, o := range s.observers {
		if o.OnBlockProcessed != nil {
			o.OnBlockProcessed(root, slot)
		}
	}
}

func (s *Service) emitAttestationProcessed(idx primitives.ValidatorIndex, targetEpoch primitives.Epoch) {
	for _, o := range s.observers {
		if o.OnAttestationProcessed != nil {
			o.OnAttestationProcessed(idx, targetEpoch)
		}
	}
}

func (s *Service) emitBlockRejected(root [32]byte, reason error) {
	for _, o := range s.observers {
		if o.OnBlockRejected != nil {
			o.OnBlockRejected(root, reason)
		}
	}
}
