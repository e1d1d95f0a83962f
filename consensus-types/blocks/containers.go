// Package blocks defines the wire-adjacent consensus containers: blocks,
// bodies, and the operations a block body carries. Each container implements
// HashTreeRoot via encoding/ssz so state-root equality is the cross-cutting
// correctness check for the whole core.
package blocks

import (
	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/encoding/bytesutil"
	"github.com/go-beacon/consensus-core/encoding/ssz"
)

// Validator is a single entry in the beacon-state validator registry.
type Validator struct {
	PublicKey                  [48]byte
	WithdrawalCredentials      [32]byte
	EffectiveBalance           uint64
	Slashed                    bool
	ActivationEligibilityEpoch primitives.Epoch
	ActivationEpoch            primitives.Epoch
	ExitEpoch                  primitives.Epoch
	WithdrawableEpoch          primitives.Epoch
}

// Copy returns a value copy of v (Validator has no reference fields besides
// fixed-size arrays, so a plain struct copy suffices).
func (v Validator) Copy() Validator { return v }

// HashTreeRoot computes the SSZ root of the validator container.
func (v Validator) HashTreeRoot() ([32]byte, error) {
	pubKeyRoot, err := ssz.MerkleizeByteSliceSSZ(v.PublicKey[:])
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{
		pubKeyRoot[:],
		v.WithdrawalCredentials[:],
		mustRoot(ssz.Uint64Root(v.EffectiveBalance)),
		boolRoot(v.Slashed),
		mustRoot(ssz.Uint64Root(uint64(v.ActivationEligibilityEpoch))),
		mustRoot(ssz.Uint64Root(uint64(v.ActivationEpoch))),
		mustRoot(ssz.Uint64Root(uint64(v.ExitEpoch))),
		mustRoot(ssz.Uint64Root(uint64(v.WithdrawableEpoch))),
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

func mustRoot(r [32]byte) []byte { out := r; return out[:] }

func boolRoot(b bool) []byte {
	var out [32]byte
	if b {
		out[0] = 1
	}
	return out[:]
}

// IsActive reports whether v is active (eligible to attest/propose) at epoch.
func (v Validator) IsActive(epoch primitives.Epoch) bool {
	return v.ActivationEpoch <= epoch && epoch < v.ExitEpoch
}

// IsSlashable reports whether v can still be slashed at epoch.
func (v Validator) IsSlashable(epoch primitives.Epoch) bool {
	return !v.Slashed && v.ActivationEpoch <= epoch && epoch < v.WithdrawableEpoch
}

// Eth1Data is the proposer's vote on the deposit contract's observed state.
type Eth1Data struct {
	DepositRoot  [32]byte
	DepositCount uint64
	BlockHash    [32]byte
}

// HashTreeRoot computes the SSZ root of the Eth1Data container.
func (e Eth1Data) HashTreeRoot() ([32]byte, error) {
	fieldRoots := [][]byte{
		e.DepositRoot[:],
		mustRoot(ssz.Uint64Root(e.DepositCount)),
		e.BlockHash[:],
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// BeaconBlockHeader is the compact, body-elided representation of a block
// stored in state as the "latest block header".
type BeaconBlockHeader struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	BodyRoot      [32]byte
}

// HashTreeRoot computes the SSZ root of the header container.
func (h BeaconBlockHeader) HashTreeRoot() ([32]byte, error) {
	fieldRoots := [][]byte{
		mustRoot(ssz.Uint64Root(uint64(h.Slot))),
		mustRoot(ssz.Uint64Root(uint64(h.ProposerIndex))),
		h.ParentRoot[:],
		h.StateRoot[:],
		h.BodyRoot[:],
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// SignedBeaconBlockHeader pairs a header with the proposer's signature.
type SignedBeaconBlockHeader struct {
	Header    *BeaconBlockHeader
	Signature [96]byte
}

// AttestationData is the payload a committee member votes for.
type AttestationData struct {
	Slot            primitives.Slot
	CommitteeIndex  primitives.CommitteeIndex
	BeaconBlockRoot [32]byte
	Source          primitives.Checkpoint
	Target          primitives.Checkpoint
}

// HashTreeRoot computes the SSZ root of the attestation data container.
func (a AttestationData) HashTreeRoot() ([32]byte, error) {
	sourceRoot, err := ssz.CheckpointRoot(a.Source)
	if err != nil {
		return [32]byte{}, err
	}
	targetRoot, err := ssz.CheckpointRoot(a.Target)
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{
		mustRoot(ssz.Uint64Root(uint64(a.Slot))),
		mustRoot(ssz.Uint64Root(uint64(a.CommitteeIndex))),
		a.BeaconBlockRoot[:],
		sourceRoot[:],
		targetRoot[:],
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// Equal reports whether a and other vote for the same thing.
func (a AttestationData) Equal(other AttestationData) bool {
	return a.Slot == other.Slot &&
		a.CommitteeIndex == other.CommitteeIndex &&
		a.BeaconBlockRoot == other.BeaconBlockRoot &&
		a.Source.Equal(other.Source) &&
		a.Target.Equal(other.Target)
}

// Attestation is a committee member's (or aggregate of members') vote,
// carried in a block body or gossiped standalone.
type Attestation struct {
	AggregationBits []byte
	Data            *AttestationData
	Signature       [96]byte
}

// IndexedAttestation is the validator-index form of an Attestation used for
// slashing detection and signature verification.
type IndexedAttestation struct {
	AttestingIndices []primitives.ValidatorIndex
	Data             *AttestationData
	Signature        [96]byte
}

// Deposit is a single entry from the deposit contract's incremental Merkle
// tree, admitted to the registry via ProcessDeposit.
type Deposit struct {
	Proof [][]byte
	Data  *DepositData
}

// DepositData is the deposit contract's per-deposit payload.
type DepositData struct {
	PublicKey             [48]byte
	WithdrawalCredentials [32]byte
	Amount                uint64
	Signature             [96]byte
}

// HashTreeRoot computes the SSZ root of the full deposit data container,
// including the signature; this is the Merkle tree leaf committed to the
// eth1 deposit contract, distinct from the signing root a depositor signs
// (which zeroes the signature field first, since it can't cover itself).
func (d DepositData) HashTreeRoot() ([32]byte, error) {
	pubKeyRoot, err := ssz.MerkleizeByteSliceSSZ(d.PublicKey[:])
	if err != nil {
		return [32]byte{}, err
	}
	sigRoot, err := ssz.MerkleizeByteSliceSSZ(d.Signature[:])
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{
		pubKeyRoot[:],
		d.WithdrawalCredentials[:],
		mustRoot(ssz.Uint64Root(d.Amount)),
		sigRoot[:],
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// VoluntaryExit signals a validator's intent to leave the active set.
type VoluntaryExit struct {
	Epoch          primitives.Epoch
	ValidatorIndex primitives.ValidatorIndex
}

// SignedVoluntaryExit pairs a VoluntaryExit with its BLS signature.
type SignedVoluntaryExit struct {
	Exit      *VoluntaryExit
	Signature [96]byte
}

// ProposerSlashing proves a proposer signed two distinct headers for the
// same slot.
type ProposerSlashing struct {
	Header1 *SignedBeaconBlockHeader
	Header2 *SignedBeaconBlockHeader
}

// AttesterSlashing proves two attestations from an overlapping set of
// validators are mutually slashable (double vote or surround vote).
type AttesterSlashing struct {
	Attestation1 *IndexedAttestation
	Attestation2 *IndexedAttestation
}

// SyncAggregate carries the current sync committee's participation bitfield
// and aggregate signature for a slot.
type SyncAggregate struct {
	SyncCommitteeBits      []byte
	SyncCommitteeSignature [96]byte
}

// ExecutionPayloadHeader is the block-body summary of an execution payload;
// full payload contents are validated by the external execution engine and
// are not modeled here beyond what state-transition consistency checks need.
type ExecutionPayloadHeader struct {
	ParentHash       [32]byte
	FeeRecipient     [20]byte
	StateRoot        [32]byte
	ReceiptsRoot     [32]byte
	LogsBloom        [256]byte
	PrevRandao       [32]byte
	BlockNumber      uint64
	GasLimit         uint64
	GasUsed          uint64
	Timestamp        uint64
	ExtraData        []byte
	BaseFeePerGas    [32]byte
	BlockHash        [32]byte
	TransactionsRoot [32]byte
}

// BeaconBlockBody carries every operation the proposer includes.
type BeaconBlockBody struct {
	RandaoReveal      [96]byte
	Eth1Data          *Eth1Data
	Graffiti          [32]byte
	ProposerSlashings []*ProposerSlashing
	AttesterSlashings []*AttesterSlashing
	Attestations      []*Attestation
	Deposits          []*Deposit
	VoluntaryExits    []*SignedVoluntaryExit
	SyncAggregate     *SyncAggregate
	ExecutionPayload  *ExecutionPayloadHeader
}

// BeaconBlock is a block header's contents prior to signing.
type BeaconBlock struct {
	Slot          primitives.Slot
	ProposerIndex primitives.ValidatorIndex
	ParentRoot    [32]byte
	StateRoot     [32]byte
	Body          *BeaconBlockBody
}

// SignedBeaconBlock pairs a block with the proposer's BLS signature.
type SignedBeaconBlock struct {
	Block     *BeaconBlock
	Signature [96]byte
}

// Root computes the block's canonical root, i.e. the header formed by
// hashing its body and folding that root into the header fields.
func (b *BeaconBlock) Root() ([32]byte, error) {
	if b == nil {
		return [32]byte{}, errors.New("nil block")
	}
	bodyRoot, err := b.Body.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	header := BeaconBlockHeader{
		Slot:          b.Slot,
		ProposerIndex: b.ProposerIndex,
		ParentRoot:    b.ParentRoot,
		StateRoot:     b.StateRoot,
		BodyRoot:      bodyRoot,
	}
	return header.HashTreeRoot()
}

// HashTreeRoot computes the SSZ root of the block body. Field lists are
// bounded per config/fieldparams limits at construction time; the roots here
// simply Merkleize whatever was included.
func (b *BeaconBlockBody) HashTreeRoot() ([32]byte, error) {
	randaoRoot, err := ssz.MerkleizeByteSliceSSZ(b.RandaoReveal[:])
	if err != nil {
		return [32]byte{}, err
	}
	eth1Root, err := b.Eth1Data.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	graffitiRoot := b.Graffiti

	proposerSlashingsRoot, err := ssz.MerkleizeListSSZ(hashableSlice(b.ProposerSlashings), 16)
	if err != nil {
		return [32]byte{}, err
	}
	attesterSlashingsRoot, err := ssz.MerkleizeListSSZ(hashableSlice(b.AttesterSlashings), 2)
	if err != nil {
		return [32]byte{}, err
	}
	attestationsRoot, err := ssz.MerkleizeListSSZ(hashableSlice(b.Attestations), 128)
	if err != nil {
		return [32]byte{}, err
	}
	depositsRoot, err := ssz.MerkleizeListSSZ(hashableSlice(b.Deposits), 16)
	if err != nil {
		return [32]byte{}, err
	}
	exitsRoot, err := ssz.MerkleizeListSSZ(hashableSlice(b.VoluntaryExits), 16)
	if err != nil {
		return [32]byte{}, err
	}
	syncRoot, err := b.SyncAggregate.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	payloadRoot, err := b.ExecutionPayload.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}

	fieldRoots := [][]byte{
		randaoRoot[:],
		mustRoot(eth1Root),
		graffitiRoot[:],
		mustRoot(proposerSlashingsRoot),
		mustRoot(attesterSlashingsRoot),
		mustRoot(attestationsRoot),
		mustRoot(depositsRoot),
		mustRoot(exitsRoot),
		mustRoot(syncRoot),
		mustRoot(payloadRoot),
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// HashTreeRoot computes the SSZ root of the sync aggregate.
func (s *SyncAggregate) HashTreeRoot() ([32]byte, error) {
	bitsRoot, err := ssz.MerkleizeByteSliceSSZ(s.SyncCommitteeBits)
	if err != nil {
		return [32]byte{}, err
	}
	sigRoot, err := ssz.MerkleizeByteSliceSSZ(s.SyncCommitteeSignature[:])
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{bitsRoot[:], sigRoot[:]}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// HashTreeRoot computes the SSZ root of the execution payload header.
func (e *ExecutionPayloadHeader) HashTreeRoot() ([32]byte, error) {
	extraRoot, err := ssz.MerkleizeByteSliceSSZ(e.ExtraData)
	if err != nil {
		return [32]byte{}, err
	}
	logsRoot, err := ssz.MerkleizeByteSliceSSZ(e.LogsBloom[:])
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{
		e.ParentHash[:],
		bytesutil.PadTo(e.FeeRecipient[:], 32),
		e.StateRoot[:],
		e.ReceiptsRoot[:],
		logsRoot[:],
		e.PrevRandao[:],
		mustRoot(ssz.Uint64Root(e.BlockNumber)),
		mustRoot(ssz.Uint64Root(e.GasLimit)),
		mustRoot(ssz.Uint64Root(e.GasUsed)),
		mustRoot(ssz.Uint64Root(e.Timestamp)),
		extraRoot[:],
		e.BaseFeePerGas[:],
		e.BlockHash[:],
		e.TransactionsRoot[:],
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

type hashableWrapper struct {
	root func() ([32]byte, error)
}

func (h hashableWrapper) HashTreeRoot() ([32]byte, error) { return h.root() }

func hashableSlice[T interface{ HashTreeRoot() ([32]byte, error) }](in []T) []hashableWrapper {
	out := make([]hashableWrapper, len(in))
	for i, v := range in {
		v := v
		out[i] = hashableWrapper{root: v.HashTreeRoot}
	}
	return out
}

// HashTreeRoot computes the SSZ root of a proposer-slashing pair.
func (p *ProposerSlashing) HashTreeRoot() ([32]byte, error) {
	r1, err := p.Header1.Header.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	r2, err := p.Header2.Header.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{mustRoot(r1), mustRoot(r2)}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// HashTreeRoot computes the SSZ root of an attester-slashing pair.
func (a *AttesterSlashing) HashTreeRoot() ([32]byte, error) {
	r1, err := a.Attestation1.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	r2, err := a.Attestation2.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{mustRoot(r1), mustRoot(r2)}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// HashTreeRoot computes the SSZ root of an indexed attestation.
func (a *IndexedAttestation) HashTreeRoot() ([32]byte, error) {
	dataRoot, err := a.Data.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	indices := make([][32]byte, len(a.AttestingIndices))
	for i, idx := range a.AttestingIndices {
		indices[i] = ssz.Uint64Root(uint64(idx))
	}
	indicesRoot := ssz.MerkleizeVector(indices, 2048)
	fieldRoots := [][]byte{mustRoot(indicesRoot), mustRoot(dataRoot)}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// HashTreeRoot computes the SSZ root of an attestation (bits + data).
func (a *Attestation) HashTreeRoot() ([32]byte, error) {
	bitsRoot, err := ssz.MerkleizeByteSliceSSZ(a.AggregationBits)
	if err != nil {
		return [32]byte{}, err
	}
	dataRoot, err := a.Data.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	fieldRoots := [][]byte{mustRoot(bitsRoot), mustRoot(dataRoot)}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}

// HashTreeRoot returns the SSZ root of the deposit's data; the proof is not
// hashed in.
func (d *Deposit) HashTreeRoot() ([32]byte, error) {
	dataRoot, err := d.Data.HashTreeRoot()
	if err != nil {
		return [32]byte{}, err
	}
	return dataRoot, nil
}

// HashTreeRoot computes the SSZ root of a signed voluntary exit.
func (s *SignedVoluntaryExit) HashTreeRoot() ([32]byte, error) {
	fieldRoots := [][]byte{
		mustRoot(ssz.Uint64Root(uint64(s.Exit.Epoch))),
		mustRoot(ssz.Uint64Root(uint64(s.Exit.ValidatorIndex))),
	}
	return ssz.BitwiseMerkleize(ssz.DefaultHasher(), fieldRoots, uint64(len(fieldRoots)), uint64(len(fieldRoots)))
}
