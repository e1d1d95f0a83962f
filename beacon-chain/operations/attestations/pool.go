// Package attestations holds attestations the orchestrator has accepted but
// not yet seen included in a block, keyed the way fork choice consumes them:
// one vote per (slot, committee, attested data) rather than per sender, so a
// validator's duplicate relays of the same vote collapse to one entry.
package attestations

import (
	"sync"

	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

type key struct {
	slot      primitives.Slot
	committee primitives.CommitteeIndex
	dataRoot  [32]byte
}

// Pool deduplicates forkchoice-bound attestations by (slot, committee_index,
// data_root); aggregation bits for the same key are merged by OR so a
// repeated vote widens the known aggregate rather than appending a
// duplicate.
type Pool struct {
	mu    sync.Mutex
	byKey map[key]*blocks.Attestation
}

// NewPool returns an empty attestation pool.
func NewPool() *Pool {
	return &Pool{byKey: make(map[key]*blocks.Attestation)}
}

// Save inserts att, merging aggregation bits with any existing entry for the
// same (slot, committee, data).
func (p *Pool) Save(att *blocks.Attestation) error {
	dataRoot, err := att.Data.HashTreeRoot()
	if err != nil {
		return err
	}
	k := key{slot: att.Data.Slot, committee: att.Data.CommitteeIndex, dataRoot: dataRoot}

	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.byKey[k]; ok {
		mergeBits(existing.AggregationBits, att.AggregationBits)
		return nil
	}
	cp := *att
	cp.AggregationBits = append([]byte{}, att.AggregationBits...)
	p.byKey[k] = &cp
	return nil
}

// All returns every pooled attestation, one per distinct key.
func (p *Pool) All() []*blocks.Attestation {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*blocks.Attestation, 0, len(p.byKey))
	for _, a := range p.byKey {
		out = append(out, a)
	}
	return out
}

// DeleteBySlot discards every pooled attestation for slots at or before
// upTo, called once those slots can no longer be included in a new block.
func (p *Pool) DeleteBySlot(upTo primitives.Slot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k := range p.byKey {
		if k.slot <= upTo {
			delete(p.byKey, k)
		}
	}
}

func mergeBits(dst, src []byte) {
	for i := range dst {
		if i < len(src) {
			dst[i] |= src[i]
		}
	}
}
