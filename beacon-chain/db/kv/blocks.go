package kv

import (
	"bytes"
	"encoding/gob"

	bolt "go.etcd.io/bbolt"

	"github.com/go-beacon/consensus-core/consensus-types/blocks"
)

// SaveBlock writes block under block/<root>.
func (s *Store) SaveBlock(root [32]byte, block *blocks.SignedBeaconBlock) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(block); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(blocksBucket).Put(root[:], buf.Bytes())
	})
}

// Block reads the block stored under root, or nil if absent.
func (s *Store) Block(root [32]byte) (*blocks.SignedBeaconBlock, error) {
	var block *blocks.SignedBeaconBlock
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(blocksBucket).Get(root[:])
		if raw == nil {
			return nil
		}
		block = &blocks.SignedBeaconBlock{}
		return gob.NewDecoder(bytes.NewReader(raw)).Decode(block)
	})
	return block, err
}

// HasBlock reports whether root is present in the block bucket.
func (s *Store) HasBlock(root [32]byte) bool {
	has := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		has = tx.Bucket(blocksBucket).Get(root[:]) != nil
		return nil
	})
	return has
}
