// Package slashings pools proposer and attester slashings the orchestrator
// has accepted but not yet seen proposed into a block.
package slashings

import (
	"sync"

	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Pool deduplicates both slashing kinds by the validator index they slash:
// one pending slashing per validator is enough, since a validator can only
// be slashed once.
type Pool struct {
	mu        sync.Mutex
	proposer  map[primitives.ValidatorIndex]*blocks.ProposerSlashing
	attester  map[primitives.ValidatorIndex]*blocks.AttesterSlashing
	included  map[primitives.ValidatorIndex]bool
}

// NewPool returns an empty slashings pool.
func NewPool() *Pool {
	return &Pool{
		proposer: make(map[primitives.ValidatorIndex]*blocks.ProposerSlashing),
		attester: make(map[primitives.ValidatorIndex]*blocks.AttesterSlashing),
		included: make(map[primitives.ValidatorIndex]bool),
	}
}

// SaveProposerSlashing pools ps unless that validator was already slashed.
func (p *Pool) SaveProposerSlashing(ps *blocks.ProposerSlashing) {
	idx := ps.Header1.Header.ProposerIndex
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.included[idx] {
		return
	}
	p.proposer[idx] = ps
}

// SaveAttesterSlashing pools as unless every one of its slashed validators
// was already slashed.
func (p *Pool) SaveAttesterSlashing(as *blocks.AttesterSlashing) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, idx := range as.Attestation1.AttestingIndices {
		if !p.included[idx] {
			p.attester[idx] = as
			return
		}
	}
}

// PendingProposerSlashings returns up to limit pooled proposer slashings.
func (p *Pool) PendingProposerSlashings(limit int) []*blocks.ProposerSlashing {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*blocks.ProposerSlashing, 0, limit)
	for _, ps := range p.proposer {
		if len(out) >= limit {
			break
		}
		out = append(out, ps)
	}
	return out
}

// PendingAttesterSlashings returns up to limit pooled attester slashings.
func (p *Pool) PendingAttesterSlashings(limit int) []*blocks.AttesterSlashing {
	p.mu.Lock()
	defer p.mu.Unlock()
	seen := make(map[*blocks.AttesterSlashing]bool)
	out := make([]*blocks.AttesterSlashing, 0, limit)
	for _, as := range p.attester {
		if seen[as] || len(out) >= limit {
			continue
		}
		seen[as] = true
		out = append(out, as)
	}
	return out
}

// MarkIncluded records that idx has now been slashed on-chain, so future
// duplicate reports for it are dropped.
func (p *Pool) MarkIncluded(idx primitives.ValidatorIndex) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.included[idx] = true
	delete(p.proposer, idx)
	delete(p.attester, idx)
}
