package params

import (
	"time"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// MainnetConfig returns the production network preset. Values mirror the
// canonical Altair-era mainnet configuration.
func MainnetConfig() *BeaconChainConfig {
	return &BeaconChainConfig{
		ConfigName: "mainnet",
		PresetBase: "mainnet",

		SecondsPerSlot:         12,
		SlotsPerEpoch:          32,
		MinSeedLookahead:       1,
		MaxSeedLookahead:       4,
		SlotsPerHistoricalRoot: 8192,
		MinValidatorWithdrawabilityDelay: 256,
		ShardCommitteePeriod:             256,
		MinEpochsToInactivityPenalty:     4,
		EpochsPerHistoricalVector:        65536,
		EpochsPerSlashingsVector:         8192,
		EpochsPerSyncCommitteePeriod:     256,
		EpochsPerEth1VotingPeriod:        64,
		SafeSlotsToUpdateJustified:       8,
		MinAttestationInclusionDelay:     1,

		MinDepositAmount:          1_000_000_000,
		MaxEffectiveBalance:       32_000_000_000,
		EjectionBalance:           16_000_000_000,
		EffectiveBalanceIncrement: 1_000_000_000,

		HysteresisQuotient:           4,
		HysteresisDownwardMultiplier: 1,
		HysteresisUpwardMultiplier:   5,

		ChurnLimitQuotient: 65536,
		MinPerEpochChurnLimit: 4,
		ShuffleRoundCount:     90,

		BaseRewardFactor:               64,
		WhistleBlowerRewardQuotient:    512,
		ProposerRewardQuotient:         8,
		InactivityPenaltyQuotient:      50331648,
		MinSlashingPenaltyQuotient:     64,
		ProportionalSlashingMultiplier: 2,
		InactivityScoreBias:            4,
		InactivityScoreRecoveryRate:    16,

		TimelySourceWeight: 14,
		TimelyTargetWeight: 26,
		TimelyHeadWeight:   14,
		SyncRewardWeight:   2,
		ProposerWeight:     8,
		WeightDenominator:  64,

		MaxProposerSlashings: 16,
		MaxAttesterSlashings: 2,
		MaxAttestations:      128,
		MaxDeposits:           16,
		MaxVoluntaryExits:    16,

		MaxCommitteesPerSlot:      64,
		MaxValidatorsPerCommittee: 2048,
		TargetCommitteeSize:       128,

		GenesisSlot:    0,
		GenesisEpoch:   0,
		FarFutureEpoch: primitives.Epoch(^uint64(0)),
		FarFutureSlot:  primitives.Slot(^uint64(0)),
		MinGenesisActiveValidatorCount: 16384,
		MinGenesisTime:                 1606824000,
		GenesisDelay:                   604800,

		ProposerScoreBoost: 40,

		SyncCommitteeSize: 512,

		DomainBeaconProposer: [4]byte{0, 0, 0, 0},
		DomainBeaconAttester: [4]byte{1, 0, 0, 0},
		DomainRandao:         [4]byte{2, 0, 0, 0},
		DomainVoluntaryExit:  [4]byte{4, 0, 0, 0},
		DomainSyncCommittee:  [4]byte{7, 0, 0, 0},

		GenesisForkVersion: [4]byte{0, 0, 0, 0},
		AltairForkVersion:  [4]byte{1, 0, 0, 0},
		AltairForkEpoch:    74240,

		SecondsPerETH1Block: 14 * time.Second,

		JustificationBitsLength:  4,
		DepositContractTreeDepth: 32,
	}
}

// MinimalConfig returns the small-scale preset used for fast local test
// networks: same shape as mainnet with shrunken epoch/committee sizes.
func MinimalConfig() *BeaconChainConfig {
	c := MainnetConfig()
	c.ConfigName = "minimal"
	c.PresetBase = "minimal"
	c.SlotsPerEpoch = 8
	c.SlotsPerHistoricalRoot = 64
	c.EpochsPerHistoricalVector = 64
	c.EpochsPerSlashingsVector = 64
	c.EpochsPerSyncCommitteePeriod = 8
	c.EpochsPerEth1VotingPeriod = 4
	c.ShardCommitteePeriod = 64
	c.MinGenesisActiveValidatorCount = 64
	c.ChurnLimitQuotient = 32
	c.MaxCommitteesPerSlot = 4
	c.TargetCommitteeSize = 4
	c.SyncCommitteeSize = 32
	return c
}
