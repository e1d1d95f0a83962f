// Package fieldparams holds the fixed vector/list lengths that size the
// BeaconState's SSZ containers. These are compile-time constants because the
// Merkleization depth of a field is baked into its zero-hash padding and
// cannot vary per-instance the way the numeric constants in config/params can.
package fieldparams

const (
	Preset                          = "mainnet"
	BlockRootsLength                = 8192          // SLOTS_PER_HISTORICAL_ROOT
	StateRootsLength                = 8192          // SLOTS_PER_HISTORICAL_ROOT
	RandaoMixesLength               = 65536         // EPOCHS_PER_HISTORICAL_VECTOR
	HistoricalRootsLength           = 16777216      // HISTORICAL_ROOTS_LIMIT
	ValidatorRegistryLimit          = 1099511627776 // VALIDATOR_REGISTRY_LIMIT
	Eth1DataVotesLength             = 2048          // SLOTS_PER_ETH1_VOTING_PERIOD
	SlashingsLength                 = 8192          // EPOCHS_PER_SLASHINGS_VECTOR
	SyncCommitteeLength             = 512           // SYNC_COMMITTEE_SIZE
	RootLength                      = 32
	BLSSignatureLength              = 96
	BLSPubkeyLength                 = 48
	FeeRecipientLength              = 20
	LogsBloomLength                 = 256
	VersionLength                   = 4
	SlotsPerEpoch                   = 32
	JustificationBitsLength         = 1 // 4 bits packed into a single byte
	MaxProposerSlashings            = 16
	MaxAttesterSlashings            = 2
	MaxAttestations                 = 128
	MaxDeposits                     = 16
	MaxVoluntaryExits               = 16
	MaxValidatorsPerCommittee       = 2048
)
