// Package blockchain implements the chain orchestrator: the single-writer
// event loop that validates incoming blocks and attestations, drives the
// state-transition engine, persists results, reruns fork choice, and emits
// notifications to observers. See receive_block.go, receive_attestation.go,
// and clock.go for the three request-level operations.
package blockchain

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/beacon-chain/core/blocks"
	"github.com/go-beacon/consensus-core/beacon-chain/db/iface"
	"github.com/go-beacon/consensus-core/beacon-chain/forkchoice"
	"github.com/go-beacon/consensus-core/beacon-chain/operations/attestations"
	"github.com/go-beacon/consensus-core/beacon-chain/operations/deposits"
	"github.com/go-beacon/consensus-core/beacon-chain/operations/slashings"
	"github.com/go-beacon/consensus-core/beacon-chain/operations/voluntaryexits"
	"github.com/go-beacon/consensus-core/beacon-chain/state"
	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// Service is the chain orchestrator. It owns exclusive mutation of the
// cached head state, the fork-choice store, and the operation pools; every
// mutating call runs on the goroutine that invoked it, serialized by mu, so
// there is exactly one logical writer even though ReceiveBlock and
// ReceiveAttestation may be called concurrently from network-handling
// goroutines.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    *params.BeaconChainConfig
	db     iface.Database
	engine blocks.ExecutionEngine

	mu        sync.RWMutex
	fc        *forkchoice.Store
	states    *statenative.StateCache
	headRoot  [32]byte
	badBlocks map[[32]byte]bool
	observers []Observer

	attestationPool *attestations.Pool
	slashingPool    *slashings.Pool
	voluntaryExits  *voluntaryexits.Pool
	depositPool     *deposits.Pool

	genesisTime uint64
}

// Config bundles the dependencies NewService needs to wire a Service, so
// construction doesn't take a dozen positional arguments.
type Config struct {
	ChainConfig  *params.BeaconChainConfig
	DB           iface.Database
	Engine       blocks.ExecutionEngine
	GenesisState *state.BeaconState
	GenesisRoot  [32]byte
	GenesisTime  uint64
}

// NewService wraps the genesis state, seeds the fork-choice store and
// persistent store with it, and pins it as head/justified/finalized.
func NewService(ctx context.Context, c *Config) (*Service, error) {
	if c.ChainConfig == nil || c.DB == nil || c.GenesisState == nil {
		return nil, errors.New("incomplete orchestrator configuration")
	}
	cached, err := statenative.New(c.GenesisState, c.ChainConfig)
	if err != nil {
		return nil, errors.Wrap(err, "could not wrap genesis state")
	}
	states, err := statenative.NewStateCache(64)
	if err != nil {
		return nil, errors.Wrap(err, "could not build state cache")
	}

	fc := forkchoice.NewStore(c.ChainConfig, c.GenesisRoot, c.GenesisTime)
	states.Pin(c.GenesisRoot, cached)

	if err := c.DB.SaveState(c.GenesisRoot, c.GenesisState); err != nil {
		return nil, errors.Wrap(err, "could not persist genesis state")
	}
	if err := c.DB.SaveHead(c.GenesisRoot); err != nil {
		return nil, errors.Wrap(err, "could not persist genesis head")
	}
	genesisCheckpoint := primitives.Checkpoint{Epoch: 0, Root: c.GenesisRoot}
	if err := c.DB.SaveJustifiedCheckpoint(genesisCheckpoint); err != nil {
		return nil, err
	}
	if err := c.DB.SaveFinalizedCheckpoint(genesisCheckpoint); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	return &Service{
		ctx:             runCtx,
		cancel:          cancel,
		cfg:             c.ChainConfig,
		db:              c.DB,
		engine:          c.Engine,
		fc:              fc,
		states:          states,
		headRoot:        c.GenesisRoot,
		badBlocks:       make(map[[32]byte]bool),
		attestationPool: attestations.NewPool(),
		slashingPool:    slashings.NewPool(),
		voluntaryExits:  voluntaryexits.NewPool(),
		depositPool:     deposits.NewPool(),
		genesisTime:     c.GenesisTime,
	}, nil
}

// Start satisfies runtime.Service. The orchestrator does no background work
// of its own beyond what on_slot drives; callers invoke OnSlot from their
// own slot ticker.
func (s *Service) Start() {
	log.Info("Chain orchestrator started")
}

// Stop satisfies runtime.Service, releasing the run context.
func (s *Service) Stop() error {
	s.cancel()
	return nil
}

// Status satisfies runtime.Service, reporting on the run context's health.
func (s *Service) Status() error {
	if err := s.ctx.Err(); err != nil {
		return errors.Wrap(err, "orchestrator context closed")
	}
	return nil
}
