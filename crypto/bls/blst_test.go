package bls_test

import (
	"testing"

	"github.com/go-beacon/consensus-core/crypto/bls"
	"github.com/go-beacon/consensus-core/crypto/bls/common"
)

func TestPublicKeyFromBytesRejectsMalformedInput(t *testing.T) {
	if _, err := bls.PublicKeyFromBytes(make([]byte, 4)); err == nil {
		t.Fatal("expected an error decompressing a public key from too few bytes")
	}
}

func TestSignatureFromBytesRejectsMalformedInput(t *testing.T) {
	if _, err := bls.SignatureFromBytes(make([]byte, 4)); err == nil {
		t.Fatal("expected an error decompressing a signature from too few bytes")
	}
}

func TestVerifyMultipleSignaturesEmptyBatchVerifiesTrivially(t *testing.T) {
	ok, err := bls.VerifyMultipleSignatures(nil, nil, nil)
	if err != nil {
		t.Fatalf("VerifyMultipleSignatures: %v", err)
	}
	if !ok {
		t.Fatal("an empty batch has nothing to disprove and should verify")
	}
}

func TestVerifyMultipleSignaturesRejectsMismatchedLengths(t *testing.T) {
	sigs := [][]byte{make([]byte, 96)}
	msgs := [][32]byte{}
	pubKeys := []common.PublicKey{}
	if _, err := bls.VerifyMultipleSignatures(sigs, msgs, pubKeys); err == nil {
		t.Fatal("expected an error for mismatched signature/message/pubkey slice lengths")
	}
}
