package kv

import (
	"bytes"
	"encoding/gob"

	bolt "go.etcd.io/bbolt"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

func (s *Store) saveCheckpoint(key string, cp primitives.Checkpoint) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(cp); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(checkpointBucket).Put([]byte(key), buf.Bytes())
	})
}

func (s *Store) checkpoint(key string) (primitives.Checkpoint, error) {
	var cp primitives.Checkpoint
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(checkpointBucket).Get([]byte(key))
		if raw == nil {
			return nil
		}
		return gob.NewDecoder(bytes.NewReader(raw)).Decode(&cp)
	})
	return cp, err
}

// SaveJustifiedCheckpoint writes the justified checkpoint.
func (s *Store) SaveJustifiedCheckpoint(cp primitives.Checkpoint) error {
	return s.saveCheckpoint(justifiedCheckpointKey, cp)
}

// JustifiedCheckpoint reads the justified checkpoint.
func (s *Store) JustifiedCheckpoint() (primitives.Checkpoint, error) {
	return s.checkpoint(justifiedCheckpointKey)
}

// SaveFinalizedCheckpoint writes the finalized checkpoint.
func (s *Store) SaveFinalizedCheckpoint(cp primitives.Checkpoint) error {
	return s.saveCheckpoint(finalizedCheckpointKey, cp)
}

// FinalizedCheckpoint reads the finalized checkpoint.
func (s *Store) FinalizedCheckpoint() (primitives.Checkpoint, error) {
	return s.checkpoint(finalizedCheckpointKey)
}
