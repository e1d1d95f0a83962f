// Package cache holds the derived-value caches layered on top of a
// BeaconState: committee shuffles and proposer indices. Every cache here is a pure function of
// (state, key) — re-deriving a value from the underlying state must always
// reproduce whatever is cached, so a wrong cache entry is never load-bearing
// for correctness, only for speed.
package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// CommitteeCache memoizes the per-epoch committee shuffling keyed by the
// seed that determines it, avoiding a full shuffle recomputation for every
// attestation in the same epoch.
type CommitteeCache struct {
	lru *lru.Cache[[32]byte, [][]primitives.ValidatorIndex]
}

// NewCommitteeCache constructs a committee cache holding up to size seeds'
// worth of shuffles.
func NewCommitteeCache(size int) (*CommitteeCache, error) {
	c, err := lru.New[[32]byte, [][]primitives.ValidatorIndex](size)
	if err != nil {
		return nil, err
	}
	return &CommitteeCache{lru: c}, nil
}

// Get returns the cached committee list for seed, if present.
func (c *CommitteeCache) Get(seed [32]byte) ([][]primitives.ValidatorIndex, bool) {
	return c.lru.Get(seed)
}

// Put stores committees under seed.
func (c *CommitteeCache) Put(seed [32]byte, committees [][]primitives.ValidatorIndex) {
	c.lru.Add(seed, committees)
}

// ProposerIndexCache memoizes the proposer index for a given (epoch,
// registry-root) pair, since proposer selection depends on the whole active
// set and shouldn't be recomputed per slot query.
type ProposerIndexCache struct {
	lru *lru.Cache[proposerKey, []primitives.ValidatorIndex]
}

type proposerKey struct {
	epoch primitives.Epoch
	root  [32]byte
}

// NewProposerIndexCache constructs a proposer-index cache of the given size.
func NewProposerIndexCache(size int) (*ProposerIndexCache, error) {
	c, err := lru.New[proposerKey, []primitives.ValidatorIndex](size)
	if err != nil {
		return nil, err
	}
	return &ProposerIndexCache{lru: c}, nil
}

// Get returns the cached per-slot proposer indices for an epoch, keyed by
// the state root the shuffling was derived from.
func (c *ProposerIndexCache) Get(epoch primitives.Epoch, root [32]byte) ([]primitives.ValidatorIndex, bool) {
	return c.lru.Get(proposerKey{epoch: epoch, root: root})
}

// Put stores the proposer indices for an epoch.
func (c *ProposerIndexCache) Put(epoch primitives.Epoch, root [32]byte, indices []primitives.ValidatorIndex) {
	c.lru.Add(proposerKey{epoch: epoch, root: root}, indices)
}
