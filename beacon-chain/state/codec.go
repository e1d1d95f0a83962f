package state

import (
	"bytes"
	"encoding/gob"

	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// snapshot mirrors BeaconState's private fields in an exported struct so
// gob, which only sees exported fields, can round-trip a state to and from
// the persistent store.
type snapshot struct {
	Slot                        primitives.Slot
	GenesisValidatorsRoot       [32]byte
	Fork                        primitives.Fork
	LatestBlockHeader           blocks.BeaconBlockHeader
	BlockRoots                  [][32]byte
	StateRoots                  [][32]byte
	HistoricalRoots             [][32]byte
	Eth1Data                    *blocks.Eth1Data
	Eth1DataVotes               []*blocks.Eth1Data
	Eth1DepositIndex            uint64
	Validators                  []blocks.Validator
	Balances                    []uint64
	RandaoMixes                 [][32]byte
	Slashings                   []uint64
	PreviousEpochParticipation  []byte
	CurrentEpochParticipation   []byte
	JustificationBits           byte
	PreviousJustifiedCheckpoint primitives.Checkpoint
	CurrentJustifiedCheckpoint  primitives.Checkpoint
	FinalizedCheckpoint         primitives.Checkpoint
	InactivityScores            []uint64
	CurrentSyncCommittee        [][48]byte
	NextSyncCommittee           [][48]byte
	LatestExecutionPayloadHeader *blocks.ExecutionPayloadHeader
}

// MarshalBinary implements encoding.BinaryMarshaler so a BeaconState can be
// written directly as a bbolt value.
func (b *BeaconState) MarshalBinary() ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := snapshot{
		Slot:                        b.slot,
		GenesisValidatorsRoot:       b.genesisValidatorsRoot,
		Fork:                        b.fork,
		LatestBlockHeader:           b.latestBlockHeader,
		BlockRoots:                  b.blockRoots,
		StateRoots:                  b.stateRoots,
		HistoricalRoots:             b.historicalRoots,
		Eth1Data:                    b.eth1Data,
		Eth1DataVotes:               b.eth1DataVotes,
		Eth1DepositIndex:            b.eth1DepositIndex,
		Validators:                  b.validators,
		Balances:                    b.balances,
		RandaoMixes:                 b.randaoMixes,
		Slashings:                   b.slashings,
		PreviousEpochParticipation:  b.previousEpochParticipation,
		CurrentEpochParticipation:   b.currentEpochParticipation,
		JustificationBits:           b.justificationBits,
		PreviousJustifiedCheckpoint: b.previousJustifiedCheckpoint,
		CurrentJustifiedCheckpoint:  b.currentJustifiedCheckpoint,
		FinalizedCheckpoint:         b.finalizedCheckpoint,
		InactivityScores:            b.inactivityScores,
		CurrentSyncCommittee:        b.currentSyncCommittee,
		NextSyncCommittee:           b.nextSyncCommittee,
		LatestExecutionPayloadHeader: b.latestExecutionPayloadHeader,
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, populating b from
// bytes previously produced by MarshalBinary.
func (b *BeaconState) UnmarshalBinary(data []byte) error {
	var s snapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slot = s.Slot
	b.genesisValidatorsRoot = s.GenesisValidatorsRoot
	b.fork = s.Fork
	b.latestBlockHeader = s.LatestBlockHeader
	b.blockRoots = s.BlockRoots
	b.stateRoots = s.StateRoots
	b.historicalRoots = s.HistoricalRoots
	b.eth1Data = s.Eth1Data
	b.eth1DataVotes = s.Eth1DataVotes
	b.eth1DepositIndex = s.Eth1DepositIndex
	b.validators = s.Validators
	b.balances = s.Balances
	b.randaoMixes = s.RandaoMixes
	b.slashings = s.Slashings
	b.previousEpochParticipation = s.PreviousEpochParticipation
	b.currentEpochParticipation = s.CurrentEpochParticipation
	b.justificationBits = s.JustificationBits
	b.previousJustifiedCheckpoint = s.PreviousJustifiedCheckpoint
	b.currentJustifiedCheckpoint = s.CurrentJustifiedCheckpoint
	b.finalizedCheckpoint = s.FinalizedCheckpoint
	b.inactivityScores = s.InactivityScores
	b.currentSyncCommittee = s.CurrentSyncCommittee
	b.nextSyncCommittee = s.NextSyncCommittee
	b.latestExecutionPayloadHeader = s.LatestExecutionPayloadHeader
	return nil
}
