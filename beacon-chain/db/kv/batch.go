package kv

import (
	"bytes"
	"encoding/gob"

	bolt "go.etcd.io/bbolt"

	"github.com/go-beacon/consensus-core/beacon-chain/state"
	"github.com/go-beacon/consensus-core/consensus-types/blocks"
	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// SaveBlockAndState atomically persists block and its post-state under
// root, along with any checkpoint that advanced as a result, in a single
// bbolt transaction. A crash between separate writes would otherwise be
// able to orphan a state without its block, or advance a checkpoint past a
// block the store never committed.
func (s *Store) SaveBlockAndState(root [32]byte, block *blocks.SignedBeaconBlock, st *state.BeaconState, justified, finalized *primitives.Checkpoint) error {
	var blockBuf bytes.Buffer
	if err := gob.NewEncoder(&blockBuf).Encode(block); err != nil {
		return err
	}
	stateRaw, err := st.MarshalBinary()
	if err != nil {
		return err
	}
	var justifiedBuf, finalizedBuf bytes.Buffer
	if justified != nil {
		if err := gob.NewEncoder(&justifiedBuf).Encode(*justified); err != nil {
			return err
		}
	}
	if finalized != nil {
		if err := gob.NewEncoder(&finalizedBuf).Encode(*finalized); err != nil {
			return err
		}
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(blocksBucket).Put(root[:], blockBuf.Bytes()); err != nil {
			return err
		}
		if err := tx.Bucket(stateBucket).Put(root[:], stateRaw); err != nil {
			return err
		}
		if justified != nil {
			if err := tx.Bucket(checkpointBucket).Put([]byte(justifiedCheckpointKey), justifiedBuf.Bytes()); err != nil {
				return err
			}
		}
		if finalized != nil {
			if err := tx.Bucket(checkpointBucket).Put([]byte(finalizedCheckpointKey), finalizedBuf.Bytes()); err != nil {
				return err
			}
		}
		return nil
	})
}
