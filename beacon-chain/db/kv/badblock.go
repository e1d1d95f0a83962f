package kv

import (
	bolt "go.etcd.io/bbolt"
)

// MarkBadBlock records root as having failed state transition, so future
// descendants can be rejected without re-execution.
func (s *Store) MarkBadBlock(root [32]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(badBlockBucket).Put(root[:], []byte{1})
	})
}

// IsBadBlock reports whether root was previously marked bad.
func (s *Store) IsBadBlock(root [32]byte) bool {
	bad := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		bad = tx.Bucket(badBlockBucket).Get(root[:]) != nil
		return nil
	})
	return bad
}
