package statenative

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// StateCache holds cached states keyed by the root of the block whose
// post-state they are, recycling transition work across fork-choice candidates that share an
// ancestor. Callers pin the head, justified, and finalized roots separately
// so those three are never evicted by normal LRU pressure.
type StateCache struct {
	lru    *lru.Cache[[32]byte, *CachedBeaconState]
	pinned map[[32]byte]*CachedBeaconState
}

// NewStateCache constructs a state cache holding up to size unpinned states.
func NewStateCache(size int) (*StateCache, error) {
	c, err := lru.New[[32]byte, *CachedBeaconState](size)
	if err != nil {
		return nil, err
	}
	return &StateCache{lru: c, pinned: make(map[[32]byte]*CachedBeaconState)}, nil
}

// Get returns the cached state for root, checking pinned entries first.
func (c *StateCache) Get(root [32]byte) (*CachedBeaconState, bool) {
	if st, ok := c.pinned[root]; ok {
		return st, true
	}
	return c.lru.Get(root)
}

// Put stores st under root in the ordinary LRU tier.
func (c *StateCache) Put(root [32]byte, st *CachedBeaconState) {
	c.lru.Add(root, st)
}

// Pin moves the state for root into the pinned tier, exempting it from LRU
// eviction until Unpin is called for that root.
func (c *StateCache) Pin(root [32]byte, st *CachedBeaconState) {
	c.pinned[root] = st
}

// Unpin releases a previously pinned root back to ordinary LRU handling.
func (c *StateCache) Unpin(root [32]byte) {
	if st, ok := c.pinned[root]; ok {
		delete(c.pinned, root)
		c.lru.Add(root, st)
	}
}
