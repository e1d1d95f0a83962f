package blocks

import (
	"bytes"

	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ProcessBlockHeader verifies and applies the outer envelope of a block:
// slot match, proposer match, parent linkage, and that the proposer is not
// slashed, then records the header (with its own state root zeroed out,
// since the header can't commit to a root it's still being folded into) as
// the new latest-block-header.
func ProcessBlockHeader(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, block *blocks.BeaconBlock) error {
	if block.Slot != st.Slot() {
		return coreerr.InvalidOperationf("block slot %d does not match state slot %d", block.Slot, st.Slot())
	}
	if block.Slot <= st.LatestBlockHeader().Slot {
		return coreerr.InvalidOperationf("block slot %d is not later than latest header slot %d", block.Slot, st.LatestBlockHeader().Slot)
	}
	proposer, err := helpers.BeaconProposerIndex(cfg, st)
	if err != nil {
		return coreerr.WrapInvalidOperation(err, "could not compute proposer index")
	}
	if block.ProposerIndex != proposer {
		return coreerr.InvalidOperationf("block proposer index %d does not match expected %d", block.ProposerIndex, proposer)
	}

	parentHeaderRoot, err := st.LatestBlockHeader().HashTreeRoot()
	if err != nil {
		return coreerr.WrapInvalidOperation(err, "could not hash latest block header")
	}
	if block.ParentRoot != parentHeaderRoot {
		return coreerr.InvalidOperationf("block parent root does not match latest block header root")
	}

	validators := st.Validators()
	if int(block.ProposerIndex) >= len(validators) {
		return coreerr.PreconditionMissingf("proposer index %d out of validator registry range", block.ProposerIndex)
	}
	if validators[block.ProposerIndex].Slashed {
		return coreerr.InvalidOperationf("proposer at index %d is slashed", block.ProposerIndex)
	}

	bodyRoot, err := block.Body.HashTreeRoot()
	if err != nil {
		return coreerr.WrapInvalidOperation(err, "could not hash block body")
	}
	st.SetLatestBlockHeader(blocks.BeaconBlockHeader{
		Slot:          block.Slot,
		ProposerIndex: block.ProposerIndex,
		ParentRoot:    block.ParentRoot,
		StateRoot:     [32]byte{},
		BodyRoot:      bodyRoot,
	})
	return nil
}

// headersEqual reports whether two block headers are identical, used by
// proposer-slashing verification to require the two conflicting headers
// actually differ.
func headersEqual(a, b blocks.BeaconBlockHeader) bool {
	return a.Slot == b.Slot && a.ProposerIndex == b.ProposerIndex &&
		bytes.Equal(a.ParentRoot[:], b.ParentRoot[:]) &&
		bytes.Equal(a.StateRoot[:], b.StateRoot[:]) &&
		bytes.Equal(a.BodyRoot[:], b.BodyRoot[:])
}
