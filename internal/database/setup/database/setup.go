package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bloops-games/spelldown/internal/cache"
	"github.com/bloops-games/spelldown/internal/database"
	"github.com/bloops-games/spelldown/internal/database/setup/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "setups"

var ErrNotFound = errors.New("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) Fetch(key string) (model.Setup, error) {
	if db.cache != nil {
		if v, ok := db.cache.Get(key); ok {
			return v.(model.Setup), nil
		}
	}

	var bytes []byte
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}

		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}

		// the slice is only valid inside the transaction
		bytes = append([]byte(nil), v...)
		return nil
	}); err != nil {
		return model.Setup{}, fmt.Errorf("view transaction error: %w", err)
	}

	var s model.Setup
	if err := json.Unmarshal(bytes, &s); err != nil {
		return model.Setup{}, fmt.Errorf("json unmarshal: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(key, s)
	}

	return s, nil
}

func (db *DB) Store(s model.Setup) error {
	if s.Key == "" {
		return fmt.Errorf("store setup: empty key")
	}

	s.UpdatedAt = time.Now()
	bytes, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	b, err := tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return fmt.Errorf("can not create bucket: %w", err)
	}

	if err := b.Put([]byte(s.Key), bytes); err != nil {
		return fmt.Errorf("put to bucket error: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(s.Key, s)
	}

	return nil
}

func (db *DB) Delete(key string) error {
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(key)
	}

	return nil
}
