package blocks

import (
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/beacon-chain/core/helpers"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
	"github.com/go-beacon/consensus-core/crypto/bls"
	"github.com/go-beacon/consensus-core/crypto/bls/common"
)

// ProcessSyncAggregate verifies the current sync committee's aggregate
// signature over the previous slot's block root and settles rewards: each
// participating member is credited a fixed per-member reward and the block
// proposer a share for each participant, while each non-participating member
// is debited the per-member amount when its balance exceeds it.
func ProcessSyncAggregate(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, agg *blocks.SyncAggregate) error {
	if agg == nil {
		return coreerr.InvalidOperationf("nil sync aggregate")
	}
	committee := st.CurrentSyncCommittee()
	if len(agg.SyncCommitteeBits)*8 < len(committee) {
		return coreerr.InvalidOperationf("sync committee bitfield too short")
	}

	var participantKeys []common.PublicKey
	var participantIdx []int
	for i, pub := range committee {
		if !bitSet(agg.SyncCommitteeBits, i) {
			continue
		}
		key, err := bls.PublicKeyFromBytes(pub[:])
		if err != nil {
			return coreerr.WrapInvalidSignature(err, "could not deserialize sync committee member key")
		}
		participantKeys = append(participantKeys, key)
		participantIdx = append(participantIdx, i)
	}

	if len(participantKeys) > 0 {
		previousSlot := st.Slot().SubSlot(1)
		blockRoots := st.BlockRoots()
		signedRoot := blockRoots[uint64(previousSlot)%uint64(len(blockRoots))]
		epoch := helpers.SlotToEpoch(cfg, previousSlot)
		domain := helpers.Domain(cfg, st, epoch, cfg.DomainSyncCommittee)
		signingRoot := helpers.ComputeSigningRoot(signedRoot, domain)

		aggregated := participantKeys[0]
		for _, k := range participantKeys[1:] {
			aggregated = aggregated.Aggregate(k)
		}
		sig, err := bls.SignatureFromBytes(agg.SyncCommitteeSignature[:])
		if err != nil {
			return coreerr.WrapInvalidSignature(err, "could not deserialize sync aggregate signature")
		}
		if !sig.Verify(aggregated, signingRoot[:]) {
			return coreerr.InvalidSignaturef("sync aggregate signature does not verify")
		}
	}

	return rewardSyncCommittee(cfg, st, committee, agg.SyncCommitteeBits)
}

func rewardSyncCommittee(cfg *params.BeaconChainConfig, st *statenative.CachedBeaconState, committee [][48]byte, bits []byte) error {
	if len(committee) == 0 {
		return nil
	}
	totalActiveBalance := uint64(st.TotalActiveBalance(helpers.CurrentEpoch(cfg, st.Slot())))
	baseRewardPerIncrement := cfg.EffectiveBalanceIncrement * cfg.BaseRewardFactor / integerSqrt(totalActiveBalance)
	increments := totalActiveBalance / cfg.EffectiveBalanceIncrement
	totalBaseReward := baseRewardPerIncrement * increments
	participantReward := totalBaseReward * cfg.SyncRewardWeight / cfg.WeightDenominator / uint64(len(committee))
	proposerReward := participantReward * cfg.ProposerWeight / (cfg.WeightDenominator - cfg.ProposerWeight)

	proposer, err := helpers.BeaconProposerIndex(cfg, st)
	if err != nil {
		return err
	}
	validators := st.Validators()
	for i, pub := range committee {
		idx := indexForPublicKey(validators, pub)
		if idx < 0 {
			continue
		}
		bal, err := st.BalanceAtIndex(uint64ToValidatorIndex(idx))
		if err != nil {
			return err
		}
		if bitSet(bits, i) {
			if err := st.SetBalanceAtIndex(uint64ToValidatorIndex(idx), bal+participantReward); err != nil {
				return err
			}
			proposerBal, err := st.BalanceAtIndex(proposer)
			if err != nil {
				return err
			}
			if err := st.SetBalanceAtIndex(proposer, proposerBal+proposerReward); err != nil {
				return err
			}
		} else if bal > participantReward {
			if err := st.SetBalanceAtIndex(uint64ToValidatorIndex(idx), bal-participantReward); err != nil {
				return err
			}
		}
	}
	return nil
}

func indexForPublicKey(validators []blocks.Validator, pub [48]byte) int {
	for i, v := range validators {
		if v.PublicKey == pub {
			return i
		}
	}
	return -1
}

func uint64ToValidatorIndex(i int) primitives.ValidatorIndex { return primitives.ValidatorIndex(i) }

// integerSqrt returns floor(sqrt(n)) via Newton's method, matching the
// consensus spec's integer_sqrt exactly (no floating point).
func integerSqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
