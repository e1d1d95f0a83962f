// Package state defines the BeaconState value type: the hard snapshot the
// state-transition engine reads and produces. Mutation happens through
// methods that copy slices before returning them, matching the "immutable
// value with structural sharing" redesign note: callers never see a
// BeaconState mutated out from under them mid-read.
package state

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/config/fieldparams"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/encoding/ssz"
)

// BeaconState is the full consensus state at a single slot boundary.
type BeaconState struct {
	mu sync.RWMutex

	slot                      primitives.Slot
	genesisValidatorsRoot     [32]byte
	fork                      primitives.Fork
	latestBlockHeader         blocks.BeaconBlockHeader
	blockRoots                [][32]byte
	stateRoots                [][32]byte
	historicalRoots           [][32]byte
	eth1Data                  *blocks.Eth1Data
	eth1DataVotes             []*blocks.Eth1Data
	eth1DepositIndex          uint64
	validators                []blocks.Validator
	balances                  []uint64
	randaoMixes               [][32]byte
	slashings                 []uint64
	previousEpochParticipation []byte
	currentEpochParticipation  []byte
	justificationBits         byte
	previousJustifiedCheckpoint primitives.Checkpoint
	currentJustifiedCheckpoint  primitives.Checkpoint
	finalizedCheckpoint         primitives.Checkpoint
	inactivityScores          []uint64
	currentSyncCommittee      [][48]byte
	nextSyncCommittee         [][48]byte
	latestExecutionPayloadHeader *blocks.ExecutionPayloadHeader
}

// New builds a genesis-shaped BeaconState with the given validator set and
// balances; every other field starts at its zero value with vectors sized to
// their configured field lengths.
func New(validators []blocks.Validator, balances []uint64) *BeaconState {
	s := &BeaconState{
		validators:      validators,
		balances:        balances,
		blockRoots:      make([][32]byte, fieldparams.BlockRootsLength),
		stateRoots:      make([][32]byte, fieldparams.StateRootsLength),
		randaoMixes:     make([][32]byte, fieldparams.RandaoMixesLength),
		slashings:       make([]uint64, fieldparams.SlashingsLength),
		eth1Data:        &blocks.Eth1Data{},
		latestExecutionPayloadHeader: &blocks.ExecutionPayloadHeader{},
	}
	s.previousEpochParticipation = make([]byte, len(validators))
	s.currentEpochParticipation = make([]byte, len(validators))
	s.inactivityScores = make([]uint64, len(validators))
	return s
}

// Clone deep-copies the state so a caller can mutate the copy while other
// readers keep observing the original unchanged.
func (b *BeaconState) Clone() *BeaconState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cpy := &BeaconState{
		slot:                        b.slot,
		genesisValidatorsRoot:       b.genesisValidatorsRoot,
		fork:                        b.fork,
		latestBlockHeader:           b.latestBlockHeader,
		eth1DepositIndex:            b.eth1DepositIndex,
		justificationBits:           b.justificationBits,
		previousJustifiedCheckpoint: b.previousJustifiedCheckpoint,
		currentJustifiedCheckpoint:  b.currentJustifiedCheckpoint,
		finalizedCheckpoint:         b.finalizedCheckpoint,
	}
	cpy.blockRoots = append([][32]byte{}, b.blockRoots...)
	cpy.stateRoots = append([][32]byte{}, b.stateRoots...)
	cpy.historicalRoots = append([][32]byte{}, b.historicalRoots...)
	cpy.randaoMixes = append([][32]byte{}, b.randaoMixes...)
	cpy.slashings = append([]uint64{}, b.slashings...)
	cpy.validators = append([]blocks.Validator{}, b.validators...)
	cpy.balances = append([]uint64{}, b.balances...)
	cpy.previousEpochParticipation = append([]byte{}, b.previousEpochParticipation...)
	cpy.currentEpochParticipation = append([]byte{}, b.currentEpochParticipation...)
	cpy.inactivityScores = append([]uint64{}, b.inactivityScores...)
	cpy.currentSyncCommittee = append([][48]byte{}, b.currentSyncCommittee...)
	cpy.nextSyncCommittee = append([][48]byte{}, b.nextSyncCommittee...)
	eth1 := *b.eth1Data
	cpy.eth1Data = &eth1
	votes := make([]*blocks.Eth1Data, len(b.eth1DataVotes))
	for i, v := range b.eth1DataVotes {
		vv := *v
		votes[i] = &vv
	}
	cpy.eth1DataVotes = votes
	payload := *b.latestExecutionPayloadHeader
	cpy.latestExecutionPayloadHeader = &payload
	return cpy
}

// --- getters ---

func (b *BeaconState) Slot() primitives.Slot { b.mu.RLock(); defer b.mu.RUnlock(); return b.slot }
func (b *BeaconState) SetSlot(s primitives.Slot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slot = s
}

func (b *BeaconState) GenesisValidatorsRoot() [32]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.genesisValidatorsRoot
}
func (b *BeaconState) SetGenesisValidatorsRoot(r [32]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.genesisValidatorsRoot = r
}

func (b *BeaconState) Fork() primitives.Fork { b.mu.RLock(); defer b.mu.RUnlock(); return b.fork }
func (b *BeaconState) SetFork(f primitives.Fork) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fork = f
}

func (b *BeaconState) LatestBlockHeader() blocks.BeaconBlockHeader {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latestBlockHeader
}
func (b *BeaconState) SetLatestBlockHeader(h blocks.BeaconBlockHeader) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latestBlockHeader = h
}

func (b *BeaconState) BlockRoots() [][32]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][32]byte{}, b.blockRoots...)
}
func (b *BeaconState) SetBlockRootAtIndex(i uint64, r [32]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= uint64(len(b.blockRoots)) {
		return errors.Errorf("block root index %d out of range", i)
	}
	b.blockRoots[i] = r
	return nil
}

func (b *BeaconState) StateRoots() [][32]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][32]byte{}, b.stateRoots...)
}
func (b *BeaconState) SetStateRootAtIndex(i uint64, r [32]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i >= uint64(len(b.stateRoots)) {
		return errors.Errorf("state root index %d out of range", i)
	}
	b.stateRoots[i] = r
	return nil
}

func (b *BeaconState) AppendHistoricalRoot(r [32]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.historicalRoots = append(b.historicalRoots, r)
}

func (b *BeaconState) Eth1Data() *blocks.Eth1Data {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cpy := *b.eth1Data
	return &cpy
}
func (b *BeaconState) SetEth1Data(e *blocks.Eth1Data) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eth1Data = e
}

func (b *BeaconState) Eth1DataVotes() []*blocks.Eth1Data {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]*blocks.Eth1Data{}, b.eth1DataVotes...)
}
func (b *BeaconState) AppendEth1DataVote(e *blocks.Eth1Data) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eth1DataVotes = append(b.eth1DataVotes, e)
}
func (b *BeaconState) ResetEth1DataVotes() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eth1DataVotes = nil
}

func (b *BeaconState) Eth1DepositIndex() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.eth1DepositIndex
}
func (b *BeaconState) SetEth1DepositIndex(i uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.eth1DepositIndex = i
}

func (b *BeaconState) Validators() []blocks.Validator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]blocks.Validator{}, b.validators...)
}
func (b *BeaconState) NumValidators() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.validators)
}
func (b *BeaconState) ValidatorAtIndex(i primitives.ValidatorIndex) (blocks.Validator, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if uint64(i) >= uint64(len(b.validators)) {
		return blocks.Validator{}, errors.Errorf("validator index %d out of range", i)
	}
	return b.validators[i], nil
}
func (b *BeaconState) UpdateValidatorAtIndex(i primitives.ValidatorIndex, v blocks.Validator) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uint64(i) >= uint64(len(b.validators)) {
		return errors.Errorf("validator index %d out of range", i)
	}
	b.validators[i] = v
	return nil
}
func (b *BeaconState) AppendValidator(v blocks.Validator, balance uint64) primitives.ValidatorIndex {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.validators = append(b.validators, v)
	b.balances = append(b.balances, balance)
	b.previousEpochParticipation = append(b.previousEpochParticipation, 0)
	b.currentEpochParticipation = append(b.currentEpochParticipation, 0)
	b.inactivityScores = append(b.inactivityScores, 0)
	return primitives.ValidatorIndex(len(b.validators) - 1)
}

func (b *BeaconState) Balances() []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]uint64{}, b.balances...)
}
func (b *BeaconState) BalanceAtIndex(i primitives.ValidatorIndex) (uint64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if uint64(i) >= uint64(len(b.balances)) {
		return 0, errors.Errorf("balance index %d out of range", i)
	}
	return b.balances[i], nil
}
func (b *BeaconState) SetBalanceAtIndex(i primitives.ValidatorIndex, bal uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uint64(i) >= uint64(len(b.balances)) {
		return errors.Errorf("balance index %d out of range", i)
	}
	b.balances[i] = bal
	return nil
}

func (b *BeaconState) RandaoMixes() [][32]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][32]byte{}, b.randaoMixes...)
}
func (b *BeaconState) RandaoMixAtIndex(i uint64) [32]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.randaoMixes[i%uint64(len(b.randaoMixes))]
}
func (b *BeaconState) SetRandaoMixAtIndex(i uint64, mix [32]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.randaoMixes[i%uint64(len(b.randaoMixes))] = mix
}

func (b *BeaconState) Slashings() []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]uint64{}, b.slashings...)
}
func (b *BeaconState) SetSlashingAtIndex(i uint64, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.slashings[i%uint64(len(b.slashings))] = amount
}

func (b *BeaconState) PreviousEpochParticipation() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte{}, b.previousEpochParticipation...)
}
func (b *BeaconState) CurrentEpochParticipation() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]byte{}, b.currentEpochParticipation...)
}
func (b *BeaconState) SetPreviousParticipationAtIndex(i primitives.ValidatorIndex, flags byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.previousEpochParticipation[i] = flags
}
func (b *BeaconState) SetCurrentParticipationAtIndex(i primitives.ValidatorIndex, flags byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentEpochParticipation[i] = flags
}
func (b *BeaconState) RotateParticipation() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.previousEpochParticipation = b.currentEpochParticipation
	b.currentEpochParticipation = make([]byte, len(b.validators))
}

func (b *BeaconState) JustificationBits() byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.justificationBits
}
func (b *BeaconState) SetJustificationBits(bits byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.justificationBits = bits
}

func (b *BeaconState) PreviousJustifiedCheckpoint() primitives.Checkpoint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.previousJustifiedCheckpoint
}
func (b *BeaconState) SetPreviousJustifiedCheckpoint(c primitives.Checkpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.previousJustifiedCheckpoint = c
}
func (b *BeaconState) CurrentJustifiedCheckpoint() primitives.Checkpoint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.currentJustifiedCheckpoint
}
func (b *BeaconState) SetCurrentJustifiedCheckpoint(c primitives.Checkpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentJustifiedCheckpoint = c
}
func (b *BeaconState) FinalizedCheckpoint() primitives.Checkpoint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.finalizedCheckpoint
}
func (b *BeaconState) SetFinalizedCheckpoint(c primitives.Checkpoint) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.finalizedCheckpoint = c
}

func (b *BeaconState) InactivityScores() []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]uint64{}, b.inactivityScores...)
}
func (b *BeaconState) SetInactivityScoreAtIndex(i primitives.ValidatorIndex, score uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inactivityScores[i] = score
}

func (b *BeaconState) CurrentSyncCommittee() [][48]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][48]byte{}, b.currentSyncCommittee...)
}
func (b *BeaconState) NextSyncCommittee() [][48]byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([][48]byte{}, b.nextSyncCommittee...)
}
func (b *BeaconState) SetSyncCommittees(current, next [][48]byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentSyncCommittee = current
	b.nextSyncCommittee = next
}

func (b *BeaconState) LatestExecutionPayloadHeader() *blocks.ExecutionPayloadHeader {
	b.mu.RLock()
	defer b.mu.RUnlock()
	cpy := *b.latestExecutionPayloadHeader
	return &cpy
}
func (b *BeaconState) SetLatestExecutionPayloadHeader(h *blocks.ExecutionPayloadHeader) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latestExecutionPayloadHeader = h
}

// HashTreeRoot Merkleizes every top-level field into the canonical state
// root; any implementation producing a different root for identical field
// values has a bug, since this is the cross-implementation correctness
// surface named in the state-transition contract.
func (b *BeaconState) HashTreeRoot() ([32]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	forkRoot, err := ssz.ForkRoot(b.fork)
	if err != nil {
		return [32]byte{}, err
	}
	headerRoot, err := b.latestBlockHeader.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	blockRootsRoot := ssz.MerkleizeVector(b.blockRoots, uint64(len(b.blockRoots)))
	stateRootsRoot := ssz.MerkleizeVector(b.stateRoots, uint64(len(b.stateRoots)))
	historicalRoots, err := ssz.ByteArrayRootWithLimit(flatten(b.historicalRoots), fieldparams.HistoricalRootsLength)
	if err != nil {
		return [32]byte{}, err
	}
	eth1Root, err := b.eth1Data.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	eth1VotesRoot, err := ssz.MerkleizeListSSZ(hashablePtrs(b.eth1DataVotes), fieldparams.Eth1DataVotesLength)
	if err != nil {
		return [32]byte{}, err
	}
	validatorsRoot, err := ssz.MerkleizeListSSZ(hashableValidators(b.validators), fieldparams.ValidatorRegistryLimit)
	if err != nil {
		return [32]byte{}, err
	}
	balancesRoot, err := ssz.ByteArrayRootWithLimit(packUint64s(b.balances), fieldparams.ValidatorRegistryLimit)
	if err != nil {
		return [32]byte{}, err
	}
	randaoRoot := ssz.MerkleizeVector(b.randaoMixes, uint64(len(b.randaoMixes)))
	slashingsRoot, err := ssz.SlashingsRoot(b.slashings, len(b.slashings))
	if err != nil {
		return [32]byte{}, err
	}
	prevPartRoot, err := ssz.MerkleizeByteSliceSSZ(b.previousEpochParticipation)
	if err != nil {
		return [32]byte{}, err
	}
	currPartRoot, err := ssz.MerkleizeByteSliceSSZ(b.currentEpochParticipation)
	if err != nil {
		return [32]byte{}, err
	}
	prevJustRoot, err := ssz.CheckpointRoot(b.previousJustifiedCheckpoint)
	if err != nil {
		return [32]byte{}, err
	}
	currJustRoot, err := ssz.CheckpointRoot(b.currentJustifiedCheckpoint)
	if err != nil {
		return [32]byte{}, err
	}
	finalRoot, err := ssz.CheckpointRoot(b.finalizedCheckpoint)
	if err != nil {
		return [32]byte{}, err
	}
	inactivityRoot, err := ssz.ByteArrayRootWithLimit(packUint64s(b.inactivityScores), fieldparams.ValidatorRegistryLimit)
	if err != nil {
		return [32]byte{}, err
	}
	payloadRoot, err := b.latestExecutionPayloadHeader.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}

	fieldRoots := [][]byte{
		mustRoot(ssz.Uint64Root(uint64(b.slot))),
		mustRoot(b.genesisValidatorsRoot),
		mustRoot(forkRoot),
		mustRoot(headerRoot),
		mustRoot(blockRootsRoot),
		mustRoot(stateRootsRoot),
		mustRoot(historicalRoots),
		mustRoot(eth1Root),
		mustRoot(eth1VotesRoot),
		mustRoot(ssz.Uint64Root(b.eth1DepositIndex)),
		mustRoot(validatorsRoot),
		mustRoot(balancesRoot),
		mustRoot(randaoRoot),
		mustRoot(slashingsRoot),
		mustRoot(prevPartRoot),
		mustRoot(currPartRoot),
		{b.justificationBits},
		mustRoot(prevJustRoot),
		mustRoot(currJustRoot),
		mustRoot(finalRoot),
		mustRoot(inactivityRoot),
		mustRoot(payloadRoot),
	}
	for i, r := range fieldRoots {
		if len(r) < 32 {
			padded := make([]byte, 32)
			copy(padded, r)
			fieldRoots[i] = padded
		}
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

func mustRoot(r [32]byte) []byte { out := r; return out[:] }

func flatten(roots [][32]byte) [][]byte {
	out := make([][]byte, len(roots))
	for i, r := range roots {
		out[i] = r[:]
	}
	return out
}

func packUint64s(vals []uint64) [][]byte {
	out := make([][]byte, 0, (len(vals)+3)/4)
	for i := 0; i < len(vals); i += 4 {
		chunk := make([]byte, 32)
		for j := 0; j < 4 && i+j < len(vals); j++ {
			r := ssz.Uint64Root(vals[i+j])
			copy(chunk[j*8:], r[:8])
		}
		out = append(out, chunk)
	}
	return out
}

type hashablePtr struct{ root func() ([32]byte, error) }

func (h hashablePtr) HashTreeRoot() ([32]byte, error) { return h.root() }

func hashablePtrs(votes []*blocks.Eth1Data) []hashablePtr {
	out := make([]hashablePtr, len(votes))
	for i, v := range votes {
		v := v
		out[i] = hashablePtr{root: v.HashTreeRoot}
	}
	return out
}

func hashableValidators(vs []blocks.Validator) []hashablePtr {
	out := make([]hashablePtr, len(vs))
	for i, v := range vs {
		v := v
		out[i] = hashablePtr{root: v.HashTreeRoot}
	}
	return out
}
