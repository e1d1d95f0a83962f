// Package node assembles the chain orchestrator, its slot ticker, and its
// epoch-boundary maintenance into a single process-lifecycle object, the
// way a beacon node wires its services together for a running binary.
package node

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/go-beacon/consensus-core/async"
	"github.com/go-beacon/consensus-core/beacon-chain/blockchain"
	"github.com/go-beacon/consensus-core/config/params"
	"github.com/go-beacon/consensus-core/runtime"
	"github.com/go-beacon/consensus-core/time/slots"
)

// BeaconNode owns the service registry, the chain orchestrator registered
// into it, and the two schedules that drive the orchestrator once it's
// running: a per-slot ticker for OnSlot and a per-epoch async.RunEvery for
// pool maintenance that only needs to happen once an epoch.
type BeaconNode struct {
	ctx      context.Context
	cancel   context.CancelFunc
	services *runtime.ServiceRegistry
	chain    *blockchain.Service
	cfg      *params.BeaconChainConfig
	ticker   slots.Ticker
}

// New constructs the chain orchestrator from cfg and registers it into a
// fresh service registry.
func New(ctx context.Context, cfg *blockchain.Config) (*BeaconNode, error) {
	chainService, err := blockchain.NewService(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "could not create chain orchestrator")
	}

	registry := runtime.NewServiceRegistry()
	if err := registry.RegisterService(chainService); err != nil {
		return nil, errors.Wrap(err, "could not register chain orchestrator")
	}

	runCtx, cancel := context.WithCancel(ctx)
	return &BeaconNode{
		ctx:      runCtx,
		cancel:   cancel,
		services: registry,
		chain:    chainService,
		cfg:      cfg.ChainConfig,
	}, nil
}

// ChainService exposes the registered orchestrator so callers (p2p/RPC
// layers, tests) can route blocks, attestations, and operations into it.
func (n *BeaconNode) ChainService() *blockchain.Service {
	return n.chain
}

// Start starts every registered service, then begins the slot ticker that
// drives OnSlot and the epoch-boundary schedule that prunes the
// attestation pool of slots fork choice no longer needs.
func (n *BeaconNode) Start() {
	n.services.StartAll()

	genesisTime := time.Unix(int64(n.chain.GenesisTime()), 0)
	ticker := slots.NewSlotTicker(genesisTime, n.cfg.SecondsPerSlot)
	n.ticker = ticker
	go func() {
		for {
			select {
			case slot, ok := <-ticker.C():
				if !ok {
					return
				}
				n.chain.OnSlot(n.ctx, slot)
			case <-n.ctx.Done():
				return
			}
		}
	}()

	epochDuration := time.Duration(n.cfg.SecondsPerSlot) * time.Duration(n.cfg.SlotsPerEpoch) * time.Second
	async.RunEvery(n.ctx, epochDuration, n.chain.PruneAttestationPool)
}

// Stop tears down the slot ticker and epoch schedule, then stops every
// registered service in reverse registration order.
func (n *BeaconNode) Stop() {
	n.cancel()
	if n.ticker != nil {
		n.ticker.Done()
	}
	n.services.StopAll()
}

// Status reports the worst error across every registered service.
func (n *BeaconNode) Status() error {
	for _, err := range n.services.Statuses() {
		if err != nil {
			return err
		}
	}
	return nil
}
