package helpers

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/crypto/hash"
)

// ShuffledIndex applies the "swap or not" shuffle to index within a list of
// the given length, seeded by seed. This is the permutation underlying
// committee assignment: rather than materializing a shuffled array, each
// position is computed independently so a single proposer or committee
// lookup never pays for a full-list shuffle.
func ShuffledIndex(cfg *params.BeaconChainConfig, index uint64, indexCount uint64, seed [32]byte) (uint64, error) {
	if index >= indexCount {
		return 0, errors.Errorf("index %d out of bounds for list of length %d", index, indexCount)
	}
	for round := uint64(0); round < cfg.ShuffleRoundCount; round++ {
		pivot := hashPivot(seed, round, indexCount)
		flip := (pivot + indexCount - index) % indexCount
		position := index
		if flip > position {
			position = flip
		}
		source := shuffleSource(seed, round, position)
		bitIndex := position % 256
		byteVal := source[(bitIndex)/8]
		bit := (byteVal >> (bitIndex % 8)) & 1
		if bit == 1 {
			index = flip
		}
	}
	return index, nil
}

func hashPivot(seed [32]byte, round uint64, indexCount uint64) uint64 {
	buf := append(append([]byte{}, seed[:]...), byte(round))
	h := hash.Hash(buf)
	return binary.LittleEndian.Uint64(h[:8]) % indexCount
}

func shuffleSource(seed [32]byte, round uint64, position uint64) [32]byte {
	buf := append(append([]byte{}, seed[:]...), byte(round))
	posBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(posBuf, uint32(position/256))
	buf = append(buf, posBuf...)
	return hash.Hash(buf)
}

// ComputeShuffledIndices computes the full permutation of [0, count) under
// seed, used once per epoch to seed the committee cache rather than calling
// ShuffledIndex per validator.
func ComputeShuffledIndices(cfg *params.BeaconChainConfig, count uint64, seed [32]byte) ([]uint64, error) {
	indices := make([]uint64, count)
	for i := range indices {
		indices[i] = uint64(i)
	}
	for r := cfg.ShuffleRoundCount; r > 0; r-- {
		round := r - 1
		pivot := hashPivot(seed, round, count)
		for i := uint64(0); i < count; i++ {
			flip := (pivot + count - i) % count
			if flip <= i {
				continue
			}
			source := shuffleSource(seed, round, flip)
			bitIndex := flip % 256
			bit := (source[bitIndex/8] >> (bitIndex % 8)) & 1
			if bit == 1 {
				indices[i], indices[flip] = indices[flip], indices[i]
			}
		}
	}
	return indices, nil
}
