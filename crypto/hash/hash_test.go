package hash_test

import (
	"crypto/sha256"
	"testing"

	"github.com/go-beacon/consensus-core/crypto/hash"
)

func TestHashMatchesStdlibSha256(t *testing.T) {
	data := []byte("beacon")
	got := hash.Hash(data)
	want := sha256.Sum256(data)
	if got != want {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestCustomSHA256HasherMatchesConcatenatedSha256(t *testing.T) {
	var a, b [32]byte
	a[0], b[0] = 1, 2
	h := hash.CustomSHA256Hasher()
	got := h(a, b)

	buf := append(append([]byte{}, a[:]...), b[:]...)
	want := sha256.Sum256(buf)
	if got != want {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestCustomSHA256HasherIsReusableAcrossCalls(t *testing.T) {
	h := hash.CustomSHA256Hasher()
	var a, b, c, d [32]byte
	a[0], b[0], c[0], d[0] = 1, 2, 3, 4

	first := h(a, b)
	second := h(c, d)
	// Reusing the same hasher must not leak state between calls.
	want := sha256.Sum256(append(append([]byte{}, c[:]...), d[:]...))
	if second != want {
		t.Errorf("second call got %x, want %x", second, want)
	}
	if first == second {
		t.Error("distinct inputs produced the same digest")
	}
}
