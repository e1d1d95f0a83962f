// Package testing builds small, deterministic fixtures — a genesis-shaped
// state and its matching genesis block — for exercising the orchestrator,
// fork choice, and persistence layers in tests without hand-assembling a
// full validator set inline in every test file.
package testing

import (
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// NewGenesisState returns a BeaconState with numValidators validators, each
// active from genesis with the maximum effective balance, and the matching
// genesis block used to seed fork choice and the persistent store.
func NewGenesisState(cfg *params.BeaconChainConfig, numValidators int) (*state.BeaconState, *blocks.SignedBeaconBlock) {
	validators := make([]blocks.Validator, numValidators)
	balances := make([]uint64, numValidators)
	for i := range validators {
		validators[i] = blocks.Validator{
			EffectiveBalance:           cfg.MaxEffectiveBalance,
			ActivationEligibilityEpoch: cfg.GenesisEpoch,
			ActivationEpoch:            cfg.GenesisEpoch,
			ExitEpoch:                  cfg.FarFutureEpoch,
			WithdrawableEpoch:          cfg.FarFutureEpoch,
		}
		balances[i] = cfg.MaxEffectiveBalance
	}
	st := state.New(validators, balances)
	st.SetFork(primitives.Fork{CurrentVersion: cfg.GenesisForkVersion, PreviousVersion: cfg.GenesisForkVersion})
	st.SetCurrentJustifiedCheckpoint(primitives.Checkpoint{Epoch: cfg.GenesisEpoch})
	st.SetFinalizedCheckpoint(primitives.Checkpoint{Epoch: cfg.GenesisEpoch})

	genesisBlock := &blocks.SignedBeaconBlock{
		Block: &blocks.BeaconBlock{
			Body: &blocks.BeaconBlockBody{
				Eth1Data:      &blocks.Eth1Data{},
				SyncAggregate: &blocks.SyncAggregate{SyncCommitteeBits: make([]byte, 8)},
			},
		},
	}
	return st, genesisBlock
}
