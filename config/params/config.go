// Package params defines the immutable numeric configuration that every core
// entrypoint takes by explicit reference, rather than reading from a global.
package params

import (
	"time"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// BeaconChainConfig holds every constant needed by the state-transition
// engine, fork-choice, and orchestrator for a given network preset.
type BeaconChainConfig struct {
	ConfigName  string `yaml:"CONFIG_NAME"`
	PresetBase  string `yaml:"PRESET_BASE"`

	// Time parameters.
	SecondsPerSlot  uint64          `yaml:"SECONDS_PER_SLOT"`
	SlotsPerEpoch   primitives.Slot `yaml:"SLOTS_PER_EPOCH"`
	MinSeedLookahead        primitives.Epoch `yaml:"MIN_SEED_LOOKAHEAD"`
	MaxSeedLookahead        primitives.Epoch `yaml:"MAX_SEED_LOOKAHEAD"`
	SlotsPerHistoricalRoot  primitives.Slot  `yaml:"SLOTS_PER_HISTORICAL_ROOT"`
	MinValidatorWithdrawabilityDelay primitives.Epoch `yaml:"MIN_VALIDATOR_WITHDRAWABILITY_DELAY"`
	ShardCommitteePeriod    primitives.Epoch `yaml:"SHARD_COMMITTEE_PERIOD"`
	MinEpochsToInactivityPenalty primitives.Epoch `yaml:"MIN_EPOCHS_TO_INACTIVITY_PENALTY"`
	EpochsPerHistoricalVector primitives.Epoch `yaml:"EPOCHS_PER_HISTORICAL_VECTOR"`
	EpochsPerSlashingsVector  primitives.Epoch `yaml:"EPOCHS_PER_SLASHINGS_VECTOR"`
	EpochsPerSyncCommitteePeriod primitives.Epoch `yaml:"EPOCHS_PER_SYNC_COMMITTEE_PERIOD"`
	EpochsPerEth1VotingPeriod primitives.Epoch `yaml:"EPOCHS_PER_ETH1_VOTING_PERIOD"`
	SafeSlotsToUpdateJustified primitives.Slot `yaml:"SAFE_SLOTS_TO_UPDATE_JUSTIFIED"`
	MinAttestationInclusionDelay primitives.Slot `yaml:"MIN_ATTESTATION_INCLUSION_DELAY"`

	// Gwei values.
	MinDepositAmount           uint64 `yaml:"MIN_DEPOSIT_AMOUNT"`
	MaxEffectiveBalance        uint64 `yaml:"MAX_EFFECTIVE_BALANCE"`
	EjectionBalance            uint64 `yaml:"EJECTION_BALANCE"`
	EffectiveBalanceIncrement  uint64 `yaml:"EFFECTIVE_BALANCE_INCREMENT"`

	// Hysteresis for effective-balance updates.
	HysteresisQuotient           uint64 `yaml:"HYSTERESIS_QUOTIENT"`
	HysteresisDownwardMultiplier uint64 `yaml:"HYSTERESIS_DOWNWARD_MULTIPLIER"`
	HysteresisUpwardMultiplier   uint64 `yaml:"HYSTERESIS_UPWARD_MULTIPLIER"`

	// Validator registry / churn.
	ChurnLimitQuotient       uint64 `yaml:"CHURN_LIMIT_QUOTIENT"`
	MinPerEpochChurnLimit    uint64 `yaml:"MIN_PER_EPOCH_CHURN_LIMIT"`
	ShuffleRoundCount        uint64 `yaml:"SHUFFLE_ROUND_COUNT"`

	// Reward and penalty quotients.
	BaseRewardFactor                uint64 `yaml:"BASE_REWARD_FACTOR"`
	WhistleBlowerRewardQuotient     uint64 `yaml:"WHISTLEBLOWER_REWARD_QUOTIENT"`
	ProposerRewardQuotient          uint64 `yaml:"PROPOSER_REWARD_QUOTIENT"`
	InactivityPenaltyQuotient       uint64 `yaml:"INACTIVITY_PENALTY_QUOTIENT_ALTAIR"`
	MinSlashingPenaltyQuotient      uint64 `yaml:"MIN_SLASHING_PENALTY_QUOTIENT_ALTAIR"`
	ProportionalSlashingMultiplier  uint64 `yaml:"PROPORTIONAL_SLASHING_MULTIPLIER_ALTAIR"`
	InactivityScoreBias             uint64 `yaml:"INACTIVITY_SCORE_BIAS"`
	InactivityScoreRecoveryRate     uint64 `yaml:"INACTIVITY_SCORE_RECOVERY_RATE"`

	// Weighted-attestation reward split, Altair-era.
	TimelySourceWeight uint64 `yaml:"TIMELY_SOURCE_WEIGHT"`
	TimelyTargetWeight uint64 `yaml:"TIMELY_TARGET_WEIGHT"`
	TimelyHeadWeight   uint64 `yaml:"TIMELY_HEAD_WEIGHT"`
	SyncRewardWeight   uint64 `yaml:"SYNC_REWARD_WEIGHT"`
	ProposerWeight     uint64 `yaml:"PROPOSER_WEIGHT"`
	WeightDenominator  uint64 `yaml:"WEIGHT_DENOMINATOR"`

	// Max per-block operation counts.
	MaxProposerSlashings uint64 `yaml:"MAX_PROPOSER_SLASHINGS"`
	MaxAttesterSlashings uint64 `yaml:"MAX_ATTESTER_SLASHINGS"`
	MaxAttestations      uint64 `yaml:"MAX_ATTESTATIONS"`
	MaxDeposits          uint64 `yaml:"MAX_DEPOSITS"`
	MaxVoluntaryExits    uint64 `yaml:"MAX_VOLUNTARY_EXITS"`

	// Committee sizing.
	MaxCommitteesPerSlot      uint64 `yaml:"MAX_COMMITTEES_PER_SLOT"`
	MaxValidatorsPerCommittee uint64 `yaml:"MAX_VALIDATORS_PER_COMMITTEE"`
	TargetCommitteeSize       uint64 `yaml:"TARGET_COMMITTEE_SIZE"`

	// Genesis / far-future sentinels.
	GenesisSlot                   primitives.Slot  `yaml:"GENESIS_SLOT"`
	GenesisEpoch                  primitives.Epoch `yaml:"GENESIS_EPOCH"`
	FarFutureEpoch                primitives.Epoch `yaml:"FAR_FUTURE_EPOCH"`
	FarFutureSlot                 primitives.Slot  `yaml:"FAR_FUTURE_SLOT"`
	MinGenesisActiveValidatorCount uint64          `yaml:"MIN_GENESIS_ACTIVE_VALIDATOR_COUNT"`
	MinGenesisTime                 uint64          `yaml:"MIN_GENESIS_TIME"`
	GenesisDelay                   uint64          `yaml:"GENESIS_DELAY"`

	// Fork-choice.
	ProposerScoreBoost uint64 `yaml:"PROPOSER_SCORE_BOOST"`

	// Sync committee.
	SyncCommitteeSize uint64 `yaml:"SYNC_COMMITTEE_SIZE"`

	// Domains, used for BLS signing-root separation.
	DomainBeaconProposer      [4]byte `yaml:"DOMAIN_BEACON_PROPOSER"`
	DomainBeaconAttester      [4]byte `yaml:"DOMAIN_BEACON_ATTESTER"`
	DomainRandao              [4]byte `yaml:"DOMAIN_RANDAO"`
	DomainVoluntaryExit       [4]byte `yaml:"DOMAIN_VOLUNTARY_EXIT"`
	DomainSyncCommittee       [4]byte `yaml:"DOMAIN_SYNC_COMMITTEE"`

	// Fork schedule: version bytes activated at given epochs, ascending.
	GenesisForkVersion [4]byte `yaml:"GENESIS_FORK_VERSION"`
	AltairForkVersion  [4]byte `yaml:"ALTAIR_FORK_VERSION"`
	AltairForkEpoch    primitives.Epoch `yaml:"ALTAIR_FORK_EPOCH"`

	SecondsPerETH1Block time.Duration

	JustificationBitsLength uint64
	DepositContractTreeDepth uint64
}

// Copy returns a deep copy of c so callers holding it as a shared descriptor
// cannot have it mutated out from under them; core entrypoints receive
// *BeaconChainConfig but must never write through it.
func (c *BeaconChainConfig) Copy() *BeaconChainConfig {
	cpy := *c
	return &cpy
}
