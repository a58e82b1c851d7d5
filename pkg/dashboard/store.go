// Package dashboard holds the dashboard's shared view state and the poller that refreshes it.
package dashboard

import (
	"sync"

	"github.com/mouradhm/migrations-dashboard/pkg/models"
)

// Snapshot is one consistent view of the rows and the aggregates derived from them
type Snapshot struct {
	Rows  []models.DisplayRow
	Stats models.AggregateStats
	// Version increases by one on every Replace
	Version uint64
}

// Store owns the shared dashboard state. It is created by the caller and handed to the
// poller (the only writer) and to any views reading it.
type Store struct {
	mu          sync.RWMutex
	snapshot    Snapshot
	subscribers []func(Snapshot)
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		snapshot: Snapshot{Rows: []models.DisplayRow{}},
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot
}

// Replace swaps in a new set of rows and stats in a single assignment and notifies subscribers
func (s *Store) Replace(rows []models.DisplayRow, stats models.AggregateStats) {
	snap, subscribers := s.swap(rows, stats)
	notify(snap, subscribers)
}

// swap installs the new snapshot and returns it with the subscribers to notify
func (s *Store) swap(rows []models.DisplayRow, stats models.AggregateStats) (Snapshot, []func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = Snapshot{
		Rows:    rows,
		Stats:   stats,
		Version: s.snapshot.Version + 1,
	}

	return s.snapshot, append([]func(Snapshot){}, s.subscribers...)
}

// notify must be called without holding any lock, subscribers may block
func notify(snap Snapshot, subscribers []func(Snapshot)) {
	for _, fn := range subscribers {
		fn(snap)
	}
}

// Subscribe registers fn to be called after every Replace
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}
