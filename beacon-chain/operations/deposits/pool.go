// Package deposits holds validator deposits handed to the orchestrator by
// an external eth1 log feeder, pending inclusion in a block body in eth1
// deposit-index order.
package deposits

import (
	"sort"
	"sync"

	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// Pool indexes pending deposits by their eth1 deposit-contract sequence
// number, since a block must include them contiguously starting from the
// state's next expected index.
type Pool struct {
	mu      sync.Mutex
	byIndex map[uint64]*blocks.Deposit
}

// NewPool returns an empty deposit pool.
func NewPool() *Pool {
	return &Pool{byIndex: make(map[uint64]*blocks.Deposit)}
}

// Save records d under its eth1 deposit index, overwriting any prior entry
// at that index (a feeder re-announcing the same log should be idempotent).
func (p *Pool) Save(index uint64, d *blocks.Deposit) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byIndex[index] = d
}

// Pending returns up to limit deposits starting at fromIndex, in strict
// index order, stopping at the first gap.
func (p *Pool) Pending(fromIndex uint64, limit int) []*blocks.Deposit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*blocks.Deposit, 0, limit)
	for i := fromIndex; len(out) < limit; i++ {
		d, ok := p.byIndex[i]
		if !ok {
			break
		}
		out = append(out, d)
	}
	return out
}

// Prune drops every recorded deposit below upTo, once the state's own
// eth1 deposit index has advanced past them.
func (p *Pool) Prune(upTo uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for idx := range p.byIndex {
		if idx < upTo {
			delete(p.byIndex, idx)
		}
	}
}

// Indices returns the currently held indices in ascending order, for
// diagnostics.
func (p *Pool) Indices() []uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]uint64, 0, len(p.byIndex))
	for idx := range p.byIndex {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
