package ssz

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/encoding/bytesutil"
)

// ForkRoot computes the HashTreeRoot of a Fork container.
func ForkRoot(fork primitives.Fork) ([32]byte, error) {
	fieldRoots := make([][]byte, 3)
	prevRoot := bytesutil.ToBytes32(fork.PreviousVersion[:])
	fieldRoots[0] = prevRoot[:]
	currRoot := bytesutil.ToBytes32(fork.CurrentVersion[:])
	fieldRoots[1] = currRoot[:]
	epochRoot := Uint64Root(uint64(fork.Epoch))
	fieldRoots[2] = epochRoot[:]
	return BitwiseMerkleize(DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// CheckpointRoot computes the HashTreeRoot of a Checkpoint container.
func CheckpointRoot(checkpoint primitives.Checkpoint) ([32]byte, error) {
	fieldRoots := make([][]byte, 2)
	epochRoot := Uint64Root(uint64(checkpoint.Epoch))
	fieldRoots[0] = epochRoot[:]
	rootCopy := checkpoint.Root
	fieldRoots[1] = rootCopy[:]
	return BitwiseMerkleize(DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// ByteArrayRootWithLimit computes the HashTreeRoot of a variable-length list
// of 32-byte roots bounded by limit, mixing in the list's length.
func ByteArrayRootWithLimit(roots [][]byte, limit uint64) ([32]byte, error) {
	result, err := BitwiseMerkleize(DefaultHasher(), roots, uint64(len(roots)), limit)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not compute byte array merkleization")
	}
	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, uint64(len(roots))); err != nil {
		return [32]byte{}, errors.Wrap(err, "could not marshal byte array length")
	}
	return MixInLength(result, buf.Bytes()), nil
}

// SlashingsRoot computes the HashTreeRoot of the fixed-length slashings
// balance vector.
func SlashingsRoot(slashings []uint64, vectorLength int) ([32]byte, error) {
	marshaling := make([][]byte, vectorLength)
	for i := 0; i < vectorLength; i++ {
		var v uint64
		if i < len(slashings) {
			v = slashings[i]
		}
		slashBuf := make([]byte, 8)
		binary.LittleEndian.PutUint64(slashBuf, v)
		marshaling[i] = slashBuf
	}
	chunks, err := Pack(marshaling)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not pack slashings into chunks")
	}
	return BitwiseMerkleize(DefaultHasher(), chunks, uint64(len(chunks)), uint64(len(chunks)))
}
