// Package statenative implements CachedBeaconState, the derived-value
// projection of a beacon-chain state.BeaconState that the transition engine
// and orchestrator actually operate on. It adds active-index, shuffling, and
// proposer-index caches on top of the raw state so hot paths (committee
// assignment, proposer selection) don't re-derive them per call.
package statenative

import (
	"github.com/go-beacon/consensus-core/beacon-chain/cache"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// CachedBeaconState wraps a state.BeaconState with lazily-populated
// derived-value caches. The active-index cache for an epoch is cleared only
// by InvalidateActiveIndices; mutating effective balances or the validator
// registry leaves it as it is.
type CachedBeaconState struct {
	*state.BeaconState

	cfg *params.BeaconChainConfig

	committees *cache.CommitteeCache
	proposers  *cache.ProposerIndexCache

	activeIndicesCache map[primitives.Epoch][]primitives.ValidatorIndex
}

// New wraps st with fresh caches sized for typical epoch-scale reuse.
func New(st *state.BeaconState, cfg *params.BeaconChainConfig) (*CachedBeaconState, error) {
	committees, err := cache.NewCommitteeCache(4)
	if err != nil {
		return nil, err
	}
	proposers, err := cache.NewProposerIndexCache(4)
	if err != nil {
		return nil, err
	}
	return &CachedBeaconState{
		BeaconState:        st,
		cfg:                cfg,
		committees:         committees,
		proposers:          proposers,
		activeIndicesCache: make(map[primitives.Epoch][]primitives.ValidatorIndex),
	}, nil
}

// Config returns the immutable network descriptor this cached state was
// built against.
func (c *CachedBeaconState) Config() *params.BeaconChainConfig { return c.cfg }

// ActiveValidatorIndices returns the indices of validators active at epoch,
// computing and caching the result on first request.
func (c *CachedBeaconState) ActiveValidatorIndices(epoch primitives.Epoch) []primitives.ValidatorIndex {
	if cached, ok := c.activeIndicesCache[epoch]; ok {
		return append([]primitives.ValidatorIndex{}, cached...)
	}
	validators := c.Validators()
	indices := make([]primitives.ValidatorIndex, 0, len(validators))
	for i, v := range validators {
		if v.IsActive(epoch) {
			indices = append(indices, primitives.ValidatorIndex(i))
		}
	}
	c.activeIndicesCache[epoch] = indices
	return append([]primitives.ValidatorIndex{}, indices...)
}

// InvalidateActiveIndices drops the cached active-index set for epoch,
// called after any registry or effective-balance mutation touching it.
func (c *CachedBeaconState) InvalidateActiveIndices(epoch primitives.Epoch) {
	delete(c.activeIndicesCache, epoch)
}

// TotalActiveBalance sums effective balances of validators active at epoch.
func (c *CachedBeaconState) TotalActiveBalance(epoch primitives.Epoch) primitives.Gwei {
	validators := c.Validators()
	var total primitives.Gwei
	for _, idx := range c.ActiveValidatorIndices(epoch) {
		total = total.AddGwei(primitives.Gwei(validators[idx].EffectiveBalance))
	}
	if total < primitives.Gwei(c.cfg.EffectiveBalanceIncrement) {
		return primitives.Gwei(c.cfg.EffectiveBalanceIncrement)
	}
	return total
}

// Committees returns the committee cache backing this state, for helpers
// that compute shuffles.
func (c *CachedBeaconState) Committees() *cache.CommitteeCache { return c.committees }

// Proposers returns the proposer-index cache backing this state.
func (c *CachedBeaconState) Proposers() *cache.ProposerIndexCache { return c.proposers }

// Copy deep-copies both the underlying state and resets derived caches,
// which is cheaper than trying to copy cache contents that may no longer
// apply once the state diverges.
func (c *CachedBeaconState) Copy() (*CachedBeaconState, error) {
	return New(c.BeaconState.Clone(), c.cfg)
}
