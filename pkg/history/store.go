// Package history persists finished experiment summaries so past runs can
// be listed and compared.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/cgast/netintent/pkg/experiment"
)

const bucketRuns = "runs"

// Record is one persisted run, keyed by its finish timestamp.
type Record struct {
	Key     string             `json:"key"`
	Summary experiment.Summary `json:"summary"`
}

// RunStore is a bbolt-backed, append-only store of run summaries.
type RunStore struct {
	db *bolt.DB
}

// Open creates or opens a run store at the given path.
func Open(path string) (*RunStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("history: open store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketRuns))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("history: init bucket: %w", err)
	}

	return &RunStore{db: db}, nil
}

// Save persists a summary and returns its key. Keys sort chronologically,
// so iteration order is run order.
func (s *RunStore) Save(sum experiment.Summary) (string, error) {
	at := sum.FinishedAt
	if at.IsZero() {
		at = time.Now()
	}
	key := at.UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("history: marshal summary: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).Put([]byte(key), data)
	})
	if err != nil {
		return "", fmt.Errorf("history: save run: %w", err)
	}
	return key, nil
}

// Get returns the summary stored under the given key.
func (s *RunStore) Get(key string) (experiment.Summary, error) {
	var sum experiment.Summary
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketRuns)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("history: run not found: %s", key)
		}
		return json.Unmarshal(data, &sum)
	})
	return sum, err
}

// List returns all persisted runs in chronological order.
func (s *RunStore) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketRuns)).ForEach(func(k, v []byte) error {
			var sum experiment.Summary
			if err := json.Unmarshal(v, &sum); err != nil {
				return fmt.Errorf("history: unmarshal run %s: %w", string(k), err)
			}
			records = append(records, Record{Key: string(k), Summary: sum})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Close releases the underlying database.
func (s *RunStore) Close() error {
	return s.db.Close()
}
