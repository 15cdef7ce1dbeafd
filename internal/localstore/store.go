// Package localstore keeps a durable client-side cache of expense records in
// a single JSON file, so the CLI keeps working when the API is unreachable.
//
// Every public operation degrades instead of failing: corrupt or missing data
// reads as empty, and write errors are logged rather than surfaced. That is
// the contract the rest of the application relies on.
package localstore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/expenseflow/expenseflow/internal/model"
)

// Store is a file-backed cache of the full expense sequence, most recently
// added first.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// New creates a store persisting to the given file path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
		now:    time.Now,
	}
}

// GetAll returns the persisted sequence. Missing, unreadable, or corrupt
// data reads as an empty sequence; it never fails.
func (s *Store) GetAll() []model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// SaveAll overwrites the persisted sequence wholesale.
func (s *Store) SaveAll(records []model.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(records)
}

// Replace overwrites the persisted sequence with an authoritative copy, used
// when the remote wins wholesale after a sync.
func (s *Store) Replace(records []model.Expense) {
	s.SaveAll(records)
}

// Add applies submission defaults, assigns an ID if absent, and persists the
// record at the front of the sequence. Adding with an ID that already exists
// overwrites that record in place instead of creating a duplicate.
func (s *Store) Add(record model.Expense) model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ApplyDefaults(s.now())

	current := s.read()
	if i := indexByID(current, record.ID); i >= 0 {
		current[i] = record
	} else {
		current = append([]model.Expense{record}, current...)
	}
	s.write(current)

	return record
}

// Update shallow-merges the patch onto the record with the given ID,
// preserving its position, and returns the merged record. Returns nil if the
// ID is unknown.
func (s *Store) Update(id string, patch model.Patch) *model.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.read()
	i := indexByID(current, id)
	if i < 0 {
		return nil
	}

	patch.Apply(&current[i])
	s.write(current)

	merged := current[i]
	return &merged
}

// Reconcile replaces the record stored under localID with the authoritative
// remote copy, which may carry a different (server-normalized) ID. A record
// the store no longer holds is prepended, so a remote write is never lost.
func (s *Store) Reconcile(localID string, remote model.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.read()
	i := indexByID(current, localID)
	if i < 0 {
		i = indexByID(current, remote.ID)
	}
	if i >= 0 {
		current[i] = remote
	} else {
		current = append([]model.Expense{remote}, current...)
	}
	s.write(current)
}

// Clear removes the entire persisted sequence. Unlike the read and write
// paths, a failed removal is reported: the caller asked to destroy data and
// needs to know when that did not happen.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) read() []model.Expense {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []model.Expense{}
	}
	if err != nil {
		s.logger.Error("Failed to read local store", "path", s.path, "error", err)
		return []model.Expense{}
	}

	var records []model.Expense
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("Local store is corrupt, treating as empty", "path", s.path, "error", err)
		return []model.Expense{}
	}
	if records == nil {
		return []model.Expense{}
	}

	// files must survive a read as a sequence, never nil
	for i := range records {
		if records[i].Files == nil {
			records[i].Files = []model.Attachment{}
		}
	}

	return records
}

func (s *Store) write(records []model.Expense) {
	if records == nil {
		records = []model.Expense{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.logger.Error("Failed to encode local store", "path", s.path, "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0750); err != nil {
		s.logger.Error("Failed to create local store directory", "path", s.path, "error", err)
		return
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		s.logger.Error("Failed to write local store", "path", s.path, "error", err)
	}
}

func indexByID(records []model.Expense, id string) int {
	for i := range records {
		if records[i].ID == id {
			return i
		}
	}
	return -1
}
