package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/container/trie"
	"github.com/go-beacon/consensus-core/crypto/bls"
)

// ProcessDeposits verifies each deposit's Merkle inclusion proof against the
// eth1 deposit root and admits it to the registry, in order.
func ProcessDeposits(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, deposits []*blocks.Deposit) error {
	for _, d := range deposits {
		if err := ProcessDeposit(cfg, st, d); err != nil {
			return err
		}
	}
	return nil
}

// ProcessDeposit verifies a single deposit's inclusion proof and either tops
// up an existing validator's balance or, for a new public key with a valid
// signature over its own deposit data, appends a fresh registry entry.
func ProcessDeposit(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, d *blocks.Deposit) error {
	if d == nil || d.Data == nil {
		return coreerr.InvalidOperationf("nil deposit")
	}
	eth1Data := st.Eth1Data()
	leaf, err := d.Data.HashTreeRoot()
	if err != nil {
		return coreerr.WrapInvalidOperation(err, "could not hash deposit data")
	}
	depositIndex := st.Eth1DepositIndex()
	if !trie.VerifyMerkleProofWithDepth(eth1Data.DepositRoot[:], leaf[:], depositIndex, d.Proof, 32) {
		return coreerr.InvalidOperationf("deposit merkle proof does not verify")
	}
	st.SetEth1DepositIndex(depositIndex + 1)

	validators := st.Validators()
	for i, v := range validators {
		if v.PublicKey == d.Data.PublicKey {
			idx := primitives.ValidatorIndex(i)
			bal, err := st.BalanceAtIndex(idx)
			if err != nil {
				return err
			}
			return st.SetBalanceAtIndex(idx, bal+d.Data.Amount)
		}
	}

	// A deposit for a new public key only mints a validator when its own
	// signature verifies; an invalid signature still consumed the eth1
	// deposit index above but leaves the registry untouched, matching
	// process_deposit's early return on a bad BLS signature.
	pub, err := bls.PublicKeyFromBytes(d.Data.PublicKey[:])
	if err != nil {
		return nil
	}
	sig, err := bls.SignatureFromBytes(d.Data.Signature[:])
	if err != nil {
		return nil
	}
	if !sig.Verify(pub, mustLeafForSigning(d.Data)) {
		return nil
	}
	st.AppendValidator(newValidatorEntry(cfg, d.Data), d.Data.Amount)
	return nil
}

func newValidatorEntry(cfg *params.BeaconChainConfig, data *blocks.DepositData) blocks.Validator {
	effective := data.Amount - (data.Amount % cfg.EffectiveBalanceIncrement)
	if effective > cfg.MaxEffectiveBalance {
		effective = cfg.MaxEffectiveBalance
	}
	return blocks.Validator{
		PublicKey:                  data.PublicKey,
		WithdrawalCredentials:      data.WithdrawalCredentials,
		EffectiveBalance:           effective,
		ActivationEligibilityEpoch: cfg.FarFutureEpoch,
		ActivationEpoch:            cfg.FarFutureEpoch,
		ExitEpoch:                  cfg.FarFutureEpoch,
		WithdrawableEpoch:          cfg.FarFutureEpoch,
	}
}

// mustLeafForSigning returns the root a depositor actually signs: the
// deposit data with its own signature field zeroed, since a signature can
// never cover its own bytes.
func mustLeafForSigning(data *blocks.DepositData) []byte {
	msg := *data
	msg.Signature = [96]byte{}
	root, _ := msg.HashTreeRoot()
	return root[:]
}
