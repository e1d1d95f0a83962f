package trie_test

import (
	"bytes"
	"testing"

	"github.com/go-beacon/consensus-core/container/trie"
)

func leaf(b byte) []byte {
	out := make([]byte, 32)
	out[0] = b
	return out
}

func TestNewTrieIsEmpty(t *testing.T) {
	tr, err := trie.NewTrie(8)
	if err != nil {
		t.Fatalf("NewTrie: %v", err)
	}
	if tr.NumOfItems() != 0 {
		t.Errorf("got %d items, want 0 for a freshly seeded trie", tr.NumOfItems())
	}
}

func TestGenerateTrieFromItemsRejectsEmptyInput(t *testing.T) {
	if _, err := trie.GenerateTrieFromItems(nil, 8); err == nil {
		t.Fatal("expected an error generating a trie with no items")
	}
}

func TestMerkleProofRoundTripsForEveryLeaf(t *testing.T) {
	items := [][]byte{leaf(1), leaf(2), leaf(3)}
	tr, err := trie.GenerateTrieFromItems(items, 4)
	if err != nil {
		t.Fatalf("GenerateTrieFromItems: %v", err)
	}
	root, err := tr.HashTreeRoot()
	if err != nil {
		t.Fatalf("HashTreeRoot: %v", err)
	}
	for i, item := range items {
		proof, err := tr.MerkleProof(i)
		if err != nil {
			t.Fatalf("MerkleProof(%d): %v", i, err)
		}
		if !trie.VerifyMerkleProofWithDepth(root[:], item, uint64(i), proof, 4) {
			t.Errorf("proof for leaf %d did not verify against the trie root", i)
		}
	}
}

func TestMerkleProofFailsAgainstWrongLeaf(t *testing.T) {
	items := [][]byte{leaf(1), leaf(2)}
	tr, err := trie.GenerateTrieFromItems(items, 4)
	if err != nil {
		t.Fatal(err)
	}
	root, err := tr.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}
	proof, err := tr.MerkleProof(0)
	if err != nil {
		t.Fatal(err)
	}
	if trie.VerifyMerkleProofWithDepth(root[:], leaf(9), 0, proof, 4) {
		t.Fatal("expected verification to fail for a leaf that was never inserted at that index")
	}
}

func TestMerkleProofRejectsWrongDepth(t *testing.T) {
	root, item := make([]byte, 32), make([]byte, 32)
	proof := make([][]byte, 3) // too short for depth 4 (needs 5 entries)
	if trie.VerifyMerkleProofWithDepth(root, item, 0, proof, 4) {
		t.Fatal("expected verification to reject a proof of the wrong length")
	}
}

func TestInsertUpdatesRootAndIsReflectedInProof(t *testing.T) {
	items := [][]byte{leaf(1), leaf(2)}
	tr, err := trie.GenerateTrieFromItems(items, 4)
	if err != nil {
		t.Fatal(err)
	}
	before, err := tr.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}

	if err := tr.Insert(leaf(42), 1); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	after, err := tr.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}
	if before == after {
		t.Fatal("expected the root to change after overwriting a leaf")
	}

	proof, err := tr.MerkleProof(1)
	if err != nil {
		t.Fatal(err)
	}
	if !trie.VerifyMerkleProofWithDepth(after[:], leaf(42), 1, proof, 4) {
		t.Fatal("expected the inserted leaf to verify against the new root")
	}
}

func TestCopyIsIndependentOfOriginal(t *testing.T) {
	tr, err := trie.GenerateTrieFromItems([][]byte{leaf(1)}, 4)
	if err != nil {
		t.Fatal(err)
	}
	dup := tr.Copy()
	if err := tr.Insert(leaf(99), 0); err != nil {
		t.Fatal(err)
	}

	origRoot, err := tr.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}
	dupRoot, err := dup.HashTreeRoot()
	if err != nil {
		t.Fatal(err)
	}
	if origRoot == dupRoot {
		t.Fatal("mutating the original after Copy must not affect the copy")
	}
}

func TestMerkleProofRejectsOutOfRangeIndex(t *testing.T) {
	tr, err := trie.GenerateTrieFromItems([][]byte{leaf(1)}, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.MerkleProof(-1); err == nil {
		t.Fatal("expected an error for a negative index")
	}
	if _, err := tr.MerkleProof(100); err == nil {
		t.Fatal("expected an error for an index beyond the trie's leaf layer")
	}
}

func TestItemsReturnsOriginalLeaves(t *testing.T) {
	items := [][]byte{leaf(1), leaf(2)}
	tr, err := trie.GenerateTrieFromItems(items, 4)
	if err != nil {
		t.Fatal(err)
	}
	got := tr.Items()
	if len(got) != 2 || !bytes.Equal(got[0], items[0]) || !bytes.Equal(got[1], items[1]) {
		t.Errorf("got %v, want original items %v", got, items)
	}
}
