package statenative_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/state"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func newCachedState(t *testing.T, slot primitives.Slot) *statenative.CachedBeaconState {
	t.Helper()
	raw := state.New(nil, nil)
	raw.SetSlot(slot)
	cached, err := statenative.New(raw, params.MainnetConfig())
	if err != nil {
		t.Fatalf("statenative.New: %v", err)
	}
	return cached
}

func TestStateCacheGetMiss(t *testing.T) {
	c, err := statenative.NewStateCache(2)
	if err != nil {
		t.Fatalf("NewStateCache: %v", err)
	}
	if _, ok := c.Get([32]byte{1}); ok {
		t.Fatal("expected miss on empty cache")
	}
}

func TestStateCachePutGet(t *testing.T) {
	c, err := statenative.NewStateCache(2)
	if err != nil {
		t.Fatalf("NewStateCache: %v", err)
	}
	root := [32]byte{1}
	st := newCachedState(t, 5)
	c.Put(root, st)

	got, ok := c.Get(root)
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if got.Slot() != 5 {
		t.Fatalf("got slot %d, want 5", got.Slot())
	}
}

func TestStateCacheEviction(t *testing.T) {
	c, err := statenative.NewStateCache(1)
	if err != nil {
		t.Fatalf("NewStateCache: %v", err)
	}
	rootA, rootB := [32]byte{1}, [32]byte{2}
	c.Put(rootA, newCachedState(t, 1))
	c.Put(rootB, newCachedState(t, 2))

	if _, ok := c.Get(rootA); ok {
		t.Fatal("expected rootA to be evicted once the cache filled past its size")
	}
	if _, ok := c.Get(rootB); !ok {
		t.Fatal("expected rootB to still be cached")
	}
}

func TestStateCachePinSurvivesEviction(t *testing.T) {
	c, err := statenative.NewStateCache(1)
	if err != nil {
		t.Fatalf("NewStateCache: %v", err)
	}
	pinned := [32]byte{1}
	c.Pin(pinned, newCachedState(t, 1))

	// Filling the unpinned tier past its size must not touch the pinned entry.
	c.Put([32]byte{2}, newCachedState(t, 2))
	c.Put([32]byte{3}, newCachedState(t, 3))

	if _, ok := c.Get(pinned); !ok {
		t.Fatal("expected pinned root to survive LRU pressure")
	}
}

func TestStateCacheUnpin(t *testing.T) {
	c, err := statenative.NewStateCache(2)
	if err != nil {
		t.Fatalf("NewStateCache: %v", err)
	}
	root := [32]byte{1}
	c.Pin(root, newCachedState(t, 1))
	c.Unpin(root)

	// Still reachable through the ordinary LRU tier after unpinning.
	if _, ok := c.Get(root); !ok {
		t.Fatal("expected unpinned root to remain cached via the LRU tier")
	}
}
