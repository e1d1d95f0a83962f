package blocks

import (
	"context"

	statenative "github.com/go-beacon/consensus-core/beacon-chain/state-native"
	"github.com/go-beacon/consensus-core/beacon-chain/core/coreerr"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// ExecutionEngine is the boundary to the external execution client. The
// transition engine never calls a real engine API directly: it depends on
// this interface so state-transition stays deterministic and testable
// without a live execution client.
type ExecutionEngine interface {
	// NotifyNewPayload asks the engine to validate header against its view
	// of the execution chain, returning whether it's valid, syncing
	// (unknown), or invalid.
	NotifyNewPayload(ctx context.Context, header *blocks.ExecutionPayloadHeader) (PayloadStatus, error)
}

// PayloadStatus is the three-way verdict an execution engine returns for a
// payload.
type PayloadStatus int

const (
	PayloadValid PayloadStatus = iota
	PayloadSyncing
	PayloadInvalid
)

// ProcessExecutionPayload checks a payload's header for internal consistency
// against the state it lands in, then asks the execution engine to validate
// it; a syncing engine defers the block rather than rejecting it, while an
// invalid verdict is a hard rejection.
func ProcessExecutionPayload(ctx context.Context, st *statenative.CachedBeaconState, engine ExecutionEngine, header *blocks.ExecutionPayloadHeader) error {
	if header == nil {
		return coreerr.InvalidOperationf("nil execution payload header")
	}
	prevHeader := st.LatestExecutionPayloadHeader()
	if prevHeader.BlockHash != [32]byte{} && header.ParentHash != prevHeader.BlockHash {
		return coreerr.InvalidOperationf("execution payload parent hash does not match latest payload header")
	}
	if header.Timestamp == 0 {
		return coreerr.InvalidOperationf("execution payload timestamp is zero")
	}

	if engine == nil {
		return coreerr.ExecutionUnavailablef("no execution engine configured")
	}
	status, err := engine.NotifyNewPayload(ctx, header)
	if err != nil {
		return coreerr.ExecutionUnavailablef("execution engine unreachable: %v", err)
	}
	switch status {
	case PayloadValid:
		st.SetLatestExecutionPayloadHeader(header)
		return nil
	case PayloadSyncing:
		return coreerr.ExecutionUnavailablef("execution engine is still syncing")
	default:
		return coreerr.ExecutionInvalidf("execution engine rejected payload")
	}
}
