package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/nettinglabs/netting-core/channel"
)

const (
	dbName           = "netting.db"
	dbFilePermission = 0600
)

var channelBucket = []byte("channels")

// DB is the reference snapshot store for netting-core, wrapping a single
// bbolt file the way channeldb.DB wraps boltdb/bolt: one top-level bucket,
// keyed by the big-endian channel identifier.
type DB struct {
	*bbolt.DB
}

// Open opens (creating if necessary) the snapshot database under dbPath.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(dbPath, 0700); err != nil {
		return nil, err
	}
	path := filepath.Join(dbPath, dbName)

	bdb, err := bbolt.Open(path, dbFilePermission, nil)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	err = bdb.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(channelBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("store: create bucket: %w", err)
	}

	return &DB{DB: bdb}, nil
}

func channelKey(id uint64) []byte {
	var key [8]byte
	binary.BigEndian.PutUint64(key[:], id)
	return key[:]
}

// PutChannelState persists a snapshot of cs, overwriting any prior
// snapshot stored under the same channel identifier.
func (d *DB) PutChannelState(cs *channel.ChannelState) error {
	data, err := encodeChannelState(cs)
	if err != nil {
		return fmt.Errorf("store: encode channel %d: %w", cs.Identity.ChannelID, err)
	}

	return d.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(channelBucket)
		return bucket.Put(channelKey(cs.Identity.ChannelID), data)
	})
}

// FetchChannelState loads the snapshot stored under channelID, or
// (nil, nil) if none has been written yet.
func (d *DB) FetchChannelState(channelID uint64) (*channel.ChannelState, error) {
	var cs *channel.ChannelState
	err := d.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(channelBucket)
		data := bucket.Get(channelKey(channelID))
		if data == nil {
			return nil
		}

		// bbolt's Get returns a slice valid only for the transaction's
		// lifetime; copy before decoding past the View closure.
		owned := append([]byte(nil), data...)
		decoded, err := decodeChannelState(owned)
		if err != nil {
			return err
		}
		cs = decoded
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: fetch channel %d: %w", channelID, err)
	}
	return cs, nil
}

// DeleteChannelState removes a channel's snapshot, called once its
// ChannelState has been disposed (StateTransition returning nil).
func (d *DB) DeleteChannelState(channelID uint64) error {
	return d.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(channelBucket).Delete(channelKey(channelID))
	})
}
