// Package bls wraps the blst BLS12-381 signature library behind the
// interfaces consumed by the rest of the core: proposer signatures, randao
// reveals, attestation aggregates, and sync-committee aggregates all verify
// through here rather than touching blst directly.
package bls

import (
	crand "crypto/rand"
	"runtime"

	blst "github.com/supranational/blst/bindings/go"

	"github.com/go-beacon/consensus-core/crypto/bls/common"
)

func init() {
	maxProcs := runtime.GOMAXPROCS(0) - 1
	if maxProcs <= 0 {
		maxProcs = 1
	}
	blst.SetMaxProcs(maxProcs)
}

type publicKey struct{ p *blst.P1Affine }

type secretKey struct{ s *blst.SecretKey }

type signature struct{ s *blst.P2Affine }

const dst = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_"

// SecretKeyFromBytes constructs a secret key from its raw big-endian
// encoding.
func SecretKeyFromBytes(b []byte) (common.SecretKey, error) {
	sk := new(blst.SecretKey)
	sk.Deserialize(b)
	return &secretKey{s: sk}, nil
}

func (s *secretKey) PublicKey() common.PublicKey {
	return &publicKey{p: new(blst.P1Affine).From(s.s)}
}

func (s *secretKey) Sign(msg []byte) common.Signature {
	sig := new(blst.P2Affine).Sign(s.s, msg, []byte(dst))
	return &signature{s: sig}
}

func (s *secretKey) Marshal() []byte { return s.s.Serialize() }

// PublicKeyFromBytes deserializes a compressed G1 public key.
func PublicKeyFromBytes(b []byte) (common.PublicKey, error) {
	p := new(blst.P1Affine).Uncompress(b)
	if p == nil {
		return nil, ErrDeserialize
	}
	return &publicKey{p: p}, nil
}

func (p *publicKey) Marshal() []byte { return p.p.Compress() }

func (p *publicKey) Copy() common.PublicKey {
	cpy := *p.p
	return &publicKey{p: &cpy}
}

func (p *publicKey) Aggregate(other common.PublicKey) common.PublicKey {
	o := other.(*publicKey)
	agg := new(blst.P1Aggregate)
	agg.Add(p.p, false)
	agg.Add(o.p, false)
	out := agg.ToAffine()
	return &publicKey{p: out}
}

func (p *publicKey) Equals(other common.PublicKey) bool {
	o, ok := other.(*publicKey)
	if !ok {
		return false
	}
	return p.p.Equals(o.p)
}

// SignatureFromBytes deserializes a compressed G2 signature.
func SignatureFromBytes(b []byte) (common.Signature, error) {
	s := new(blst.P2Affine).Uncompress(b)
	if s == nil {
		return nil, ErrDeserialize
	}
	return &signature{s: s}, nil
}

func (s *signature) Marshal() []byte { return s.s.Compress() }

func (s *signature) Verify(pubKey common.PublicKey, msg []byte) bool {
	pk := pubKey.(*publicKey)
	return s.s.Verify(true, pk.p, false, msg, []byte(dst))
}

// VerifyMultipleSignatures batch-verifies a list of (signature, message,
// public key) triples in a single pairing computation; a batch either
// succeeds or fails as a whole, never partially.
func VerifyMultipleSignatures(sigs [][]byte, msgs [][32]byte, pubKeys []common.PublicKey) (bool, error) {
	if len(sigs) == 0 {
		return true, nil
	}
	if len(sigs) != len(msgs) || len(sigs) != len(pubKeys) {
		return false, ErrMismatchedLengths
	}
	rawPubs := make([]*blst.P1Affine, len(pubKeys))
	rawMsgs := make([]blst.Message, len(msgs))
	for i, pk := range pubKeys {
		rawPubs[i] = pk.(*publicKey).p
	}
	for i, m := range msgs {
		msgCopy := m
		rawMsgs[i] = msgCopy[:]
	}
	randFn := func(s *blst.Scalar) {
		var rbytes [blst.BLST_SCALAR_BYTES]byte
		_, _ = crand.Read(rbytes[:])
		s.FromBEndian(rbytes[:])
	}
	return new(blst.P2Affine).MultipleAggregateVerify(sigsFromBytes(sigs), true,
		rawPubs, false, rawMsgs, []byte(dst), randFn, 64), nil
}

func sigsFromBytes(raw [][]byte) []*blst.P2Affine {
	out := make([]*blst.P2Affine, len(raw))
	for i, r := range raw {
		out[i] = new(blst.P2Affine).Uncompress(r)
	}
	return out
}
