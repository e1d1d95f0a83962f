package kv

import (
	bolt "go.etcd.io/bbolt"

	"github.com/go-beacon/consensus-core/beacon-chain/state"
)

// SaveState writes st under state/<root> using its own binary encoding.
func (s *Store) SaveState(root [32]byte, st *state.BeaconState) error {
	raw, err := st.MarshalBinary()
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(stateBucket).Put(root[:], raw)
	})
}

// State reads the state stored under root, or nil if absent.
func (s *Store) State(root [32]byte) (*state.BeaconState, error) {
	var st *state.BeaconState
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(stateBucket).Get(root[:])
		if raw == nil {
			return nil
		}
		st = &state.BeaconState{}
		return st.UnmarshalBinary(raw)
	})
	return st, err
}

// HasState reports whether root is present in the state bucket.
func (s *Store) HasState(root [32]byte) bool {
	has := false
	_ = s.db.View(func(tx *bolt.Tx) error {
		has = tx.Bucket(stateBucket).Get(root[:]) != nil
		return nil
	})
	return has
}
