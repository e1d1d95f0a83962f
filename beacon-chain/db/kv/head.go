package kv

import (
	bolt "go.etcd.io/bbolt"
)

// SaveHead records root as the canonical head.
func (s *Store) SaveHead(root [32]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(headBucket).Put([]byte(headKey), root[:])
	})
}

// Head returns the last saved head root.
func (s *Store) Head() ([32]byte, error) {
	var root [32]byte
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(headBucket).Get([]byte(headKey))
		copy(root[:], raw)
		return nil
	})
	return root, err
}
