package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bloops-games/spelldown/internal/byteutil"
	"github.com/bloops-games/spelldown/internal/cache"
	"github.com/bloops-games/spelldown/internal/database"
	"github.com/bloops-games/spelldown/internal/database/user/model"
	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = errors.New("not found")

const bucket = "users"

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

type fetchFn func(key int64) ([]byte, error)

func (db *DB) cachedValue(key int64, fn fetchFn) (model.User, error) {
	if db.cache != nil {
		v, ok := db.cache.Get(key)
		if ok {
			return v.(model.User), nil
		}
	}

	var u model.User
	bytes, err := fn(key)
	if err != nil {
		return u, fmt.Errorf("fetch: %w", err)
	}

	if len(bytes) == 0 {
		return u, ErrNotFound
	}

	if err := json.Unmarshal(bytes, &u); err != nil {
		return u, fmt.Errorf("unmarshal: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(key, u)
	}

	return u, nil
}

func (db *DB) Fetch(userID int64) (model.User, error) {
	pk := byteutil.EncodeInt64ToBytes(userID)
	u, err := db.cachedValue(userID, func(key int64) ([]byte, error) {
		var bytes []byte

		if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucket))
			if b == nil {
				return ErrNotFound
			}
			if v := b.Get(pk); v != nil {
				bytes = append([]byte(nil), v...)
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("view transaction error: %w", err)
		}

		return bytes, nil
	})
	if err != nil {
		return u, fmt.Errorf("cached value: %w", err)
	}

	return u, nil
}

func (db *DB) Store(m model.User) error {
	bytes, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pk := byteutil.EncodeInt64ToBytes(m.ID)
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(m.ID, m)
	}

	return nil
}
