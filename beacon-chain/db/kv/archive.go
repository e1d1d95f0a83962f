package kv

import (
	"encoding/binary"

	bolt "go.etcd.io/bbolt"

	"github.com/go-beacon/consensus-core/consensus-types/primitives"
)

// SaveArchivePoint records root as the canonical block for slot, under
// archive/<slot>/<root>. Archive points are written for finalized slots
// only, giving a sparse index a state-regeneration replay can start from
// without walking all the way back to genesis.
func (s *Store) SaveArchivePoint(slot primitives.Slot, root [32]byte) error {
	key := archiveKey(slot)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(archiveBucket).Put(key, root[:])
	})
}

// ArchivePoint returns the block root archived for slot, if any.
func (s *Store) ArchivePoint(slot primitives.Slot) ([32]byte, bool, error) {
	var root [32]byte
	found := false
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(archiveBucket).Get(archiveKey(slot))
		if raw == nil {
			return nil
		}
		found = true
		copy(root[:], raw)
		return nil
	})
	return root, found, err
}

func archiveKey(slot primitives.Slot) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(slot))
	return buf
}
