// Package runstore keeps cleaning runs in memory for the API server.
//
// Runs live for the lifetime of the process. Nothing is written to disk.
package runstore

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eshaffer321/ledgerclean/internal/application/clean"
	"github.com/eshaffer321/ledgerclean/internal/application/review"
)

// ErrRunNotFound is returned when no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// Run is one uploaded ledger file and its review state.
type Run struct {
	ID         string
	SourceName string
	Encoding   string
	Format     string
	CreatedAt  time.Time
	Result     *clean.Result
	Session    *review.Session
}

// NewRun wraps a clean result with a fresh id and review session.
func NewRun(sourceName, encoding, format string, result *clean.Result) *Run {
	return &Run{
		ID:         uuid.NewString(),
		SourceName: sourceName,
		Encoding:   encoding,
		Format:     format,
		CreatedAt:  time.Now(),
		Result:     result,
		Session:    review.NewSession(result),
	}
}

// Store is an in-memory run store, safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{runs: make(map[string]*Run)}
}

// Save stores or replaces a run.
func (s *Store) Save(run *Run) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("run ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runs[run.ID] = run
	return nil
}

// Get returns the run with the given id.
func (s *Store) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// List returns runs newest first. A limit of zero or less returns all runs.
func (s *Store) List(limit int) []*Run {
	s.mu.RLock()
	out := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Len reports the number of stored runs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
