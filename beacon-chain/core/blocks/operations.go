package blocks

import (
	"context"

	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ProcessBlock applies a block's full body to st: header, randao, eth1 vote,
// operations in their fixed spec order, and finally the execution payload.
// It does not verify the block's own proposer signature — that is the
// caller's job, since it signs the whole SignedBeaconBlock rather than
// anything processed here.
func ProcessBlock(ctx context.Context, cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, engine ExecutionEngine, block *blocks.BeaconBlock) error {
	if block == nil || block.Body == nil {
		return coreerr.InvalidOperationf("nil block or block body")
	}
	if err := ProcessBlockHeader(cfg, st, block); err != nil {
		return err
	}
	if err := ProcessRandao(cfg, st, block.ProposerIndex, block.Body.RandaoReveal); err != nil {
		return err
	}
	if err := ProcessEth1DataVote(cfg, st, block.Body.Eth1Data); err != nil {
		return err
	}
	if err := checkOperationCounts(cfg, block.Body); err != nil {
		return err
	}
	if err := ProcessProposerSlashings(cfg, st, block.Body.ProposerSlashings); err != nil {
		return err
	}
	if err := ProcessAttesterSlashings(cfg, st, block.Body.AttesterSlashings); err != nil {
		return err
	}
	if err := ProcessAttestations(cfg, st, block.Body.Attestations); err != nil {
		return err
	}
	if err := ProcessDeposits(cfg, st, block.Body.Deposits); err != nil {
		return err
	}
	if err := ProcessVoluntaryExits(cfg, st, block.Body.VoluntaryExits); err != nil {
		return err
	}
	if block.Body.SyncAggregate != nil {
		if err := ProcessSyncAggregate(cfg, st, block.Body.SyncAggregate); err != nil {
			return err
		}
	}
	if block.Body.ExecutionPayload != nil {
		if err := ProcessExecutionPayload(ctx, st, engine, block.Body.ExecutionPayload); err != nil {
			return err
		}
	}
	return nil
}

func checkOperationCounts(cfg *params.BeaconChainConfig, body *blocks.BeaconBlockBody) error {
	if uint64(len(body.ProposerSlashings)) > cfg.MaxProposerSlashings {
		return coreerr.InvalidOperationf("too many proposer slashings: %d", len(body.ProposerSlashings))
	}
	if uint64(len(body.AttesterSlashings)) > cfg.MaxAttesterSlashings {
		return coreerr.InvalidOperationf("too many attester slashings: %d", len(body.AttesterSlashings))
	}
	if uint64(len(body.Attestations)) > cfg.MaxAttestations {
		return coreerr.InvalidOperationf("too many attestations: %d", len(body.Attestations))
	}
	if uint64(len(body.Deposits)) > cfg.MaxDeposits {
		return coreerr.InvalidOperationf("too many deposits: %d", len(body.Deposits))
	}
	if uint64(len(body.VoluntaryExits)) > cfg.MaxVoluntaryExits {
		return coreerr.InvalidOperationf("too many voluntary exits: %d", len(body.VoluntaryExits))
	}
	return nil
}
