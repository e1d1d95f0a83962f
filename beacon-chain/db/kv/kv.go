// Package kv implements the persistent store contract on top of bbolt: one
// file, one bucket per key space named in the store's typed contract.
package kv

import (
	"os"
	"path"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const databaseFileName = "beaconchain.db"

var (
	blocksBucket      = []byte("block")
	stateBucket       = []byte("state")
	checkpointBucket  = []byte("checkpoint")
	headBucket        = []byte("head")
	badBlockBucket    = []byte("badblock")
	archiveBucket     = []byte("archive")
)

const (
	justifiedCheckpointKey = "justified"
	finalizedCheckpointKey = "finalized"
	headKey                = "head"
)

// Store implements iface.Database over a single bbolt file.
type Store struct {
	db           *bolt.DB
	databasePath string
}

// NewKVStore opens (creating if absent) a bbolt-backed store at dirPath.
func NewKVStore(dirPath string) (*Store, error) {
	if err := os.MkdirAll(dirPath, 0700); err != nil {
		return nil, err
	}
	datafile := path.Join(dirPath, databaseFileName)
	db, err := bolt.Open(datafile, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	s := &Store{db: db, databasePath: dirPath}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{blocksBucket, stateBucket, checkpointBucket, headBucket, badBlockBucket, archiveBucket} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DatabasePath returns the directory this store writes to.
func (s *Store) DatabasePath() string {
	return s.databasePath
}

// ClearDB removes the on-disk database file.
func (s *Store) ClearDB() error {
	if _, err := os.Stat(s.databasePath); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(path.Join(s.databasePath, databaseFileName))
}
