package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"

	"github.com/cuemby/hacfg/pkg/log"
)

var bucketCommits = []byte("commits")

// ErrNotFound is returned by Get for an unknown commit id
var ErrNotFound = errors.New("commit not found")

// BoltStore implements Store using BoltDB
type BoltStore struct {
	db     *bolt.DB
	logger zerolog.Logger
}

// NewBoltStore opens (or creates) the journal at path
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketCommits); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketCommits, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, logger: log.WithComponent("history")}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Record stores a commit under a new time ordered id
func (s *BoltStore) Record(commit *Commit) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate commit id: %w", err)
	}
	commit.ID = id.String()
	if commit.Time.IsZero() {
		commit.Time = time.Now().UTC()
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketCommits)
		data, err := json.Marshal(commit)
		if err != nil {
			return err
		}
		return b.Put([]byte(commit.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to record commit: %w", err)
	}

	s.logger.Debug().
		Str("commit_id", commit.ID).
		Str("target", commit.Target).
		Str("digest", commit.Digest).
		Msg("Commit recorded")
	return nil
}

// List returns up to limit commits, newest first. limit <= 0 returns all.
func (s *BoltStore) List(limit int) ([]*Commit, error) {
	var commits []*Commit
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketCommits).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(commits) >= limit {
				break
			}
			var commit Commit
			if err := json.Unmarshal(v, &commit); err != nil {
				return err
			}
			commits = append(commits, &commit)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	return commits, nil
}

// Get returns the commit with the id
func (s *BoltStore) Get(id string) (*Commit, error) {
	var commit Commit
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketCommits).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return json.Unmarshal(data, &commit)
	})
	if err != nil {
		return nil, err
	}
	return &commit, nil
}
