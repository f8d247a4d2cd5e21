package history

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/0xcro3dile/phtqa/internal/domain/entities"
)

var historyBucket = []byte("query_history")

// BoltStore implements ports.HistoryStore on an embedded bbolt file.
// Keys are big-endian sequence numbers, so cursor order is insertion order.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens or creates the bbolt file at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		path = "./data/history.bolt"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt file: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(historyBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Record appends one entry.
func (s *BoltStore) Record(ctx context.Context, rec entities.QueryRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(historyBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all.
func (s *BoltStore) Recent(ctx context.Context, limit int) ([]entities.QueryRecord, error) {
	var out []entities.QueryRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(historyBucket).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			var rec entities.QueryRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decoding record %x: %w", k, err)
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// Close releases the file lock.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
