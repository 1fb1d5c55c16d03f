// Package autosave keeps crash-recovery snapshots of open documents in a BoltDB file.
package autosave

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "snapshots"

// ErrNotFound is returned by Get when no snapshot exists for a document.
var ErrNotFound = errors.New("autosave: snapshot not found")

// Entry is one saved snapshot.
type Entry struct {
	DocumentID string    `json:"documentId"`
	Title      string    `json:"title"`
	Snapshot   string    `json:"snapshot"`
	SavedAt    time.Time `json:"savedAt"`
}

// Store wraps BoltDB to persist the latest snapshot of each open document.
type Store struct {
	db     *bolt.DB
	bucket []byte
	now    func() time.Time
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating autosave directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening autosave file: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating autosave bucket: %w", err)
	}
	return &Store{db: db, bucket: []byte(bucketName), now: time.Now}, nil
}

// Put replaces the snapshot stored for a document.
func (s *Store) Put(docID, title, snapshot string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if docID == "" {
		return errors.New("autosave: document id is required")
	}
	payload, err := json.Marshal(Entry{DocumentID: docID, Title: title, Snapshot: snapshot, SavedAt: s.now().UTC()})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(docID), payload)
	})
}

// Get returns the snapshot stored for a document.
func (s *Store) Get(docID string) (*Entry, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var e Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(s.bucket).Get([]byte(docID))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns every stored entry, most recent first. Snapshots are omitted; use Get to
// load one.
func (s *Store) List() ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	var entries []Entry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return nil
			}
			e.Snapshot = ""
			entries = append(entries, e)
			return nil
		})
	})
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].SavedAt.After(entries[j].SavedAt) })
	return entries, err
}

// Delete removes the snapshot of a document. Deleting a missing entry is not an error.
func (s *Store) Delete(docID string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete([]byte(docID))
	})
}

// Cleanup removes entries saved before olderThan and returns how many were removed.
func (s *Store) Cleanup(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		// Deleting through a cursor skips the following key, so collect first.
		var stale [][]byte
		if err := b.ForEach(func(k, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err == nil && e.SavedAt.Before(olderThan) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
