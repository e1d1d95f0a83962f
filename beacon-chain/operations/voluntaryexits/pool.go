// Package voluntaryexits pools voluntary exits the orchestrator has
// accepted but not yet seen proposed into a block.
package voluntaryexits

import (
	"sync"

	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Pool deduplicates by validator index: a validator can only exit once.
type Pool struct {
	mu       sync.Mutex
	pending  map[primitives.ValidatorIndex]*blocks.SignedVoluntaryExit
	included map[primitives.ValidatorIndex]bool
}

// NewPool returns an empty voluntary-exit pool.
func NewPool() *Pool {
	return &Pool{
		pending:  make(map[primitives.ValidatorIndex]*blocks.SignedVoluntaryExit),
		included: make(map[primitives.ValidatorIndex]bool),
	}
}

// Save pools exit unless that validator has already exited.
func (p *Pool) Save(exit *blocks.SignedVoluntaryExit) {
	idx := exit.Exit.ValidatorIndex
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.included[idx] {
		return
	}
	p.pending[idx] = exit
}

// Pending returns up to limit pooled exits.
func (p *Pool) Pending(limit int) []*blocks.SignedVoluntaryExit {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*blocks.SignedVoluntaryExit, 0, limit)
	for _, e := range p.pending {
		if len(out) >= limit {
			break
		}
		out = append(out, e)
	}
	return out
}

// MarkIncluded records that idx has now exited on-chain.
func (p *Pool) MarkIncluded(idx primitives.ValidatorIndex) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.included[idx] = true
	delete(p.pending, idx)
}
