package cache_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/beacon-chain/cache"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func TestCommitteeCacheGetMiss(t *testing.T) {
	c, err := cache.NewCommitteeCache(2)
	if err != nil {
		t.Fatalf("NewCommitteeCache: %v", err)
	}
	if _, ok := c.Get([32]byte{1}); ok {
		t.Fatal("expected a miss on an empty cache")
	}
}

func TestCommitteeCachePutThenGet(t *testing.T) {
	c, err := cache.NewCommitteeCache(2)
	if err != nil {
		t.Fatal(err)
	}
	seed := [32]byte{1}
	want := [][]primitives.ValidatorIndex{{0, 1}, {2, 3}}
	c.Put(seed, want)

	got, ok := c.Get(seed)
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCommitteeCacheEvictsBeyondSize(t *testing.T) {
	c, err := cache.NewCommitteeCache(1)
	if err != nil {
		t.Fatal(err)
	}
	c.Put([32]byte{1}, [][]primitives.ValidatorIndex{{0}})
	c.Put([32]byte{2}, [][]primitives.ValidatorIndex{{1}})

	if _, ok := c.Get([32]byte{1}); ok {
		t.Fatal("expected the first entry to be evicted once the cache exceeded its size")
	}
	if _, ok := c.Get([32]byte{2}); !ok {
		t.Fatal("expected the most recently added entry to remain")
	}
}

func TestProposerIndexCacheKeysByEpochAndRoot(t *testing.T) {
	c, err := cache.NewProposerIndexCache(4)
	if err != nil {
		t.Fatalf("NewProposerIndexCache: %v", err)
	}
	rootA, rootB := [32]byte{1}, [32]byte{2}
	c.Put(5, rootA, []primitives.ValidatorIndex{7})

	if _, ok := c.Get(5, rootB); ok {
		t.Fatal("expected a miss for a different root at the same epoch")
	}
	if _, ok := c.Get(6, rootA); ok {
		t.Fatal("expected a miss for a different epoch at the same root")
	}
	got, ok := c.Get(5, rootA)
	if !ok {
		t.Fatal("expected a hit for the exact (epoch, root) pair")
	}
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("got %v, want [7]", got)
	}
}
