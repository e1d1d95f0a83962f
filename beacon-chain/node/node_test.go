package node_test

import (
	"context"
	"testing"
	"time"

	dbtesting "github.com/go-beacon/consensus-core/beacon-chain/db/testing"
	"github.com/go-beacon/consensus-core/beacon-chain/db/memorydb"
	"github.com/go-beacon/consensus-core/beacon-chain/blockchain"
	"github.com/go-beacon/consensus-core/beacon-chain/node"
	"github.com/go-beacon/consensus-core/config/params"
)

func newTestNode(t *testing.T) *node.BeaconNode {
	t.Helper()
	cfg := params.MinimalConfig()
	genesisState, genesisBlock := dbtesting.NewGenesisState(cfg, 8)
	genesisRoot, err := genesisBlock.Block.Root()
	if err != nil {
		t.Fatalf("genesis block root: %v", err)
	}

	n, err := node.New(context.Background(), &blockchain.Config{
		ChainConfig:  cfg,
		DB:           memorydb.NewStore(),
		GenesisState: genesisState,
		GenesisRoot:  genesisRoot,
		GenesisTime:  uint64(time.Now().Unix()),
	})
	if err != nil {
		t.Fatalf("node.New: %v", err)
	}
	return n
}

func TestNewRegistersChainServiceAndReportsHealthyStatus(t *testing.T) {
	n := newTestNode(t)
	if n.ChainService() == nil {
		t.Fatal("expected chain orchestrator to be constructed")
	}
	if err := n.Status(); err != nil {
		t.Fatalf("Status: %v", err)
	}
}

func TestStartAndStopDriveTheOrchestratorLifecycle(t *testing.T) {
	n := newTestNode(t)
	n.Start()
	// Start registers the slot ticker and epoch schedule as background
	// goroutines against the node's own context; Stop must cancel that
	// context and tear the ticker down without hanging the test.
	n.Stop()
	if err := n.ChainService().Status(); err == nil {
		t.Fatal("expected chain orchestrator status to report the closed run context after Stop")
	}
}
