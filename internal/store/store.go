// Package store is the persistent store adapter: two collection keys inside
// a single bbolt bucket, each holding one JSON-encoded array. Reads and
// writes always cover the whole array.
package store

import (
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	// InventoryKey and BillsKey are the two collection slots. The names are
	// part of the stored data format; do not rename.
	InventoryKey = "grocery_inventory_data"
	BillsKey     = "grocery_bills_data"
)

var (
	bucketCollections = []byte("collections")

	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

type Store struct {
	db *bolt.DB
}

func Open(filename string) (*Store, error) {
	db, err := bolt.Open(filename, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open store")
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketCollections)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "init store bucket")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load decodes the collection at key into out (a pointer to a slice). An
// absent key leaves out untouched and returns nil; a decode error is
// returned for the caller to log and fall back to an empty collection.
func (s *Store) Load(key string, out interface{}) error {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketCollections).Get([]byte(key)); v != nil {
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "load %s", key)
	}
	if data == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

// Save overwrites the collection at key with the JSON encoding of records.
func (s *Store) Save(key string, records interface{}) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCollections).Put([]byte(key), data)
	})
	return errors.Wrapf(err, "save %s", key)
}

// Delete removes the collection key outright.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCollections).Delete([]byte(key))
	})
	return errors.Wrapf(err, "delete %s", key)
}

// NextID returns max(ids)+1, or 1 for an empty collection. Ids are never
// reused, even after deletion.
func NextID(ids []int64) int64 {
	next := int64(1)
	for _, id := range ids {
		if id >= next {
			next = id + 1
		}
	}
	return next
}
