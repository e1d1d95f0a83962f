package ssz_test

import (
	"encoding/binary"
	"testing"

	"github.com/go-beacon/consensus-core/encoding/ssz"
)

func TestDepth(t *testing.T) {
	cases := []struct {
		v    uint64
		want uint8
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{3, 2},
		{4, 2},
		{5, 3},
		{8, 3},
		{9, 4},
	}
	for _, c := range cases {
		if got := ssz.Depth(c.v); got != c.want {
			t.Errorf("Depth(%d) = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestUint64RootIsLittleEndian(t *testing.T) {
	root := ssz.Uint64Root(0x0102030405060708)
	want := make([]byte, 8)
	binary.LittleEndian.PutUint64(want, 0x0102030405060708)
	for i := 0; i < 8; i++ {
		if root[i] != want[i] {
			t.Fatalf("byte %d: got %x, want %x", i, root[i], want[i])
		}
	}
	for i := 8; i < 32; i++ {
		if root[i] != 0 {
			t.Fatalf("expected zero padding beyond the first 8 bytes, got %x at %d", root[i], i)
		}
	}
}

func TestPackSplitsIntoThirtyTwoByteChunks(t *testing.T) {
	chunks, err := ssz.Pack([][]byte{make([]byte, 40)})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2 for a 40-byte input", len(chunks))
	}
	for _, c := range chunks {
		if len(c) != 32 {
			t.Errorf("got chunk length %d, want 32", len(c))
		}
	}
}

func TestPackEmptyInputIsNil(t *testing.T) {
	chunks, err := ssz.Pack(nil)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if chunks != nil {
		t.Errorf("got %v, want nil for no inputs", chunks)
	}
}

func TestBitwiseMerkleizeRejectsOverLimit(t *testing.T) {
	chunks := make([][]byte, 3)
	for i := range chunks {
		chunks[i] = make([]byte, 32)
	}
	if _, err := ssz.BitwiseMerkleize(ssz.DefaultHasher(), chunks, 3, 2); err == nil {
		t.Fatal("expected an error merkleizing more chunks than the limit allows")
	}
}

func TestBitwiseMerkleizeOfTwoLeavesMatchesDirectHash(t *testing.T) {
	hasher := ssz.DefaultHasher()
	a := make([]byte, 32)
	b := make([]byte, 32)
	a[0], b[0] = 1, 2

	got, err := ssz.BitwiseMerkleize(hasher, [][]byte{a, b}, 2, 2)
	if err != nil {
		t.Fatalf("BitwiseMerkleize: %v", err)
	}
	var aArr, bArr [32]byte
	copy(aArr[:], a)
	copy(bArr[:], b)
	want := hasher.Combi(aArr, bArr)
	if got != want {
		t.Errorf("got %x, want %x (direct two-leaf combine)", got, want)
	}
}

func TestBitwiseMerkleizeEmptyReturnsZeroHashAtDepth(t *testing.T) {
	got, err := ssz.BitwiseMerkleize(ssz.DefaultHasher(), nil, 0, 4)
	if err != nil {
		t.Fatalf("BitwiseMerkleize: %v", err)
	}
	var zero [32]byte
	// An empty input Merkleizes to the all-zero subtree root at the depth
	// implied by the limit, not to the plain zero value by coincidence --
	// depth 2 (limit 4) zero-hash is itself composed from two rounds of
	// hash.Hash, so confirm it is at least internally consistent rather than
	// accidentally all zero.
	if got == zero {
		t.Error("expected the depth-appropriate zero-subtree root, not the raw zero value")
	}
}
