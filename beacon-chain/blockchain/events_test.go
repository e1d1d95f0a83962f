package blockchain

import (
	"testing"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func TestSubscribeEmitsToRegisteredObserver(t *testing.T) {
	s := &Service{}
	var gotNew, gotOld [32]byte
	var gotDepth uint64
	s.Subscribe(Observer{
		OnHeadChanged: func(newHead, oldHead [32]byte, reorgDepth uint64) {
			gotNew, gotOld, gotDepth = newHead, oldHead, reorgDepth
		},
	})

	s.emitHeadChanged([32]byte{1}, [32]byte{2}, 3)

	if gotNew != [32]byte{1} || gotOld != [32]byte{2} || gotDepth != 3 {
		t.Fatalf("observer did not receive expected event: new=%x old=%x depth=%d", gotNew, gotOld, gotDepth)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := &Service{}
	called := false
	idx := s.Subscribe(Observer{
		OnBlockProcessed: func(root [32]byte, slot primitives.Slot) { called = true },
	})
	s.Unsubscribe(idx)

	s.emitBlockProcessed([32]byte{1}, 5)

	if called {
		t.Fatal("expected unsubscribed observer to not be invoked")
	}
}

func TestUnsubscribeOutOfRangeIsNoop(t *testing.T) {
	s := &Service{}
	s.Unsubscribe(0)
	s.Unsubscribe(-1)
}

func TestNilObserverFieldsAreSkipped(t *testing.T) {
	s := &Service{}
	s.Subscribe(Observer{})

	// None of these should panic on a nil function field.
	s.emitHeadChanged([32]byte{}, [32]byte{}, 0)
	s.emitCheckpointJustified(primitives.Checkpoint{})
	s.emitCheckpointFinalized(primitives.Checkpoint{})
	s.emitBlockProcessed([32]byte{}, 0)
	s.emitAttestationProcessed(0, 0)
	s.emitBlockRejected([32]byte{}, nil)
}

func TestMultipleObserversAllReceiveEvent(t *testing.T) {
	s := &Service{}
	var a, b int
	s.Subscribe(Observer{OnAttestationProcessed: func(primitives.ValidatorIndex, primitives.Epoch) { a++ }})
	s.Subscribe(Observer{OnAttestationProcessed: func(primitives.ValidatorIndex, primitives.Epoch) { b++ }})

	s.emitAttestationProcessed(0, 0)

	if a != 1 || b != 1 {
		t.Fatalf("expected both observers invoked once, got a=%d b=%d", a, b)
	}
}
