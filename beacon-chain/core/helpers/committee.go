package helpers

import (
	"encoding/binary"

	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/crypto/hash"
)

// Seed derives the per-epoch randomness seed used for shuffling and
// proposer selection, mixing the domain-typed epoch into the randao mix
// from MinSeedLookahead+1 epochs back so the seed is unpredictable ahead of
// time but still derivable deterministically from state.
func Seed(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, epoch primitives.Epoch, domainType [4]byte) [32]byte {
	mixEpoch := epoch + cfg.EpochsPerHistoricalVector - cfg.MinSeedLookahead - 1
	mix := st.RandaoMixAtIndex(uint64(mixEpoch))
	buf := make([]byte, 4+8+32)
	copy(buf[:4], domainType[:])
	binary.LittleEndian.PutUint64(buf[4:12], uint64(epoch))
	copy(buf[12:], mix[:])
	return hash.Hash(buf)
}

// CommitteeCountPerSlot returns how many committees are formed each slot at
// epoch, bounded between 1 and MaxCommitteesPerSlot.
func CommitteeCountPerSlot(cfg *params.BeaconChainConfig, activeCount uint64) uint64 {
	count := activeCount / uint64(cfg.SlotsPerEpoch) / cfg.TargetCommitteeSize
	if count > cfg.MaxCommitteesPerSlot {
		count = cfg.MaxCommitteesPerSlot
	}
	if count < 1 {
		count = 1
	}
	return count
}

// BeaconCommittee returns the shuffled slice of active-validator indices
// assigned to (slot, committeeIndex).
func BeaconCommittee(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, slot primitives.Slot, committeeIndex primitives.CommitteeIndex) ([]primitives.ValidatorIndex, error) {
	epoch := SlotToEpoch(cfg, slot)
	active := st.ActiveValidatorIndices(epoch)
	seed := Seed(cfg, st, epoch, [4]byte{})
	committeesPerSlot := CommitteeCountPerSlot(cfg, uint64(len(active)))
	slotOffset := uint64(slot) % uint64(cfg.SlotsPerEpoch)
	index := slotOffset*committeesPerSlot + uint64(committeeIndex)
	total := committeesPerSlot * uint64(cfg.SlotsPerEpoch)

	if cached, ok := st.Committees().Get(seed); ok {
		return computeCommitteeSlice(cached, index, total)
	}

	permutation, err := ComputeShuffledIndices(cfg, uint64(len(active)), seed)
	if err != nil {
		return nil, err
	}
	shuffled := make([]primitives.ValidatorIndex, len(active))
	for i, p := range permutation {
		shuffled[i] = active[p]
	}
	full := splitIntoCommittees(shuffled, total)
	st.Committees().Put(seed, full)
	return computeCommitteeSlice(full, index, total)
}

func splitIntoCommittees(shuffled []primitives.ValidatorIndex, total uint64) [][]primitives.ValidatorIndex {
	out := make([][]primitives.ValidatorIndex, total)
	n := uint64(len(shuffled))
	for i := uint64(0); i < total; i++ {
		start := n * i / total
		end := n * (i + 1) / total
		out[i] = shuffled[start:end]
	}
	return out
}

func computeCommitteeSlice(committees [][]primitives.ValidatorIndex, index, total uint64) ([]primitives.ValidatorIndex, error) {
	if index >= uint64(len(committees)) {
		return nil, errInvalidCommitteeIndex
	}
	return committees[index], nil
}

// BeaconProposerIndex returns the proposer for the current slot of st.
func BeaconProposerIndex(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState) (primitives.ValidatorIndex, error) {
	epoch := CurrentEpoch(cfg, st.Slot())
	seed := Seed(cfg, st, epoch, [4]byte{})
	buf := make([]byte, 32+8)
	copy(buf[:32], seed[:])
	binary.LittleEndian.PutUint64(buf[32:], uint64(st.Slot()))
	seedWithSlot := hash.Hash(buf)

	active := st.ActiveValidatorIndices(epoch)
	if len(active) == 0 {
		return 0, errNoActiveValidators
	}
	validators := st.Validators()

	i := uint64(0)
	for {
		shuffledIndex, err := ShuffledIndex(cfg, i%uint64(len(active)), uint64(len(active)), seedWithSlot)
		if err != nil {
			return 0, err
		}
		candidate := active[shuffledIndex]
		randByte := hashAtOffset(seedWithSlot, i/32)[i%32]
		effectiveBalance := validators[candidate].EffectiveBalance
		if effectiveBalance*255 >= cfg.MaxEffectiveBalance*uint64(randByte) {
			return candidate, nil
		}
		i++
	}
}

func hashAtOffset(seed [32]byte, offset uint64) [32]byte {
	buf := make([]byte, 40)
	copy(buf[:32], seed[:])
	binary.LittleEndian.PutUint64(buf[32:], offset)
	return hash.Hash(buf)
}

// ComputeSyncCommitteeIndices draws count validator indices from active by
// the same effective-balance-weighted rejection sampling as proposer
// selection, but over the full active set rather than one committee, and
// allowing an index to be drawn more than once.
func ComputeSyncCommitteeIndices(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, active []primitives.ValidatorIndex, seed [32]byte, count uint64) ([]primitives.ValidatorIndex, error) {
	if len(active) == 0 {
		return nil, errNoActiveValidators
	}
	validators := st.Validators()
	out := make([]primitives.ValidatorIndex, 0, count)
	i := uint64(0)
	for uint64(len(out)) < count {
		shuffledIndex, err := ShuffledIndex(cfg, i%uint64(len(active)), uint64(len(active)), seed)
		if err != nil {
			return nil, err
		}
		candidate := active[shuffledIndex]
		randByte := hashAtOffset(seed, i/32)[i%32]
		effectiveBalance := validators[candidate].EffectiveBalance
		if effectiveBalance*255 >= cfg.MaxEffectiveBalance*uint64(randByte) {
			out = append(out, candidate)
		}
		i++
	}
	return out, nil
}
