package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltOpenTimeout = time.Second

// BoltStorage - keys of a single bucket in a bbolt file.
type BoltStorage struct {
	db     *bolt.DB
	bucket []byte
}

func NewBoltStorage(path, bucket string) (*BoltStorage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: boltOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("can't create bucket %s: %w", bucket, err)
	}

	return &BoltStorage{db: db, bucket: []byte(bucket)}, nil
}

func (that *BoltStorage) Load(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := that.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(that.bucket).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// v is only valid inside the transaction
		value = append([]byte(nil), v...)
		return nil
	})
	return value, err
}

func (that *BoltStorage) Save(_ context.Context, key string, value []byte) error {
	return that.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(that.bucket).Put([]byte(key), value)
	})
}

func (that *BoltStorage) Remove(_ context.Context, key string) error {
	return that.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(that.bucket).Delete([]byte(key))
	})
}

func (that *BoltStorage) Close() error {
	return that.db.Close()
}
