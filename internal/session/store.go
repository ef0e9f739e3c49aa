// Package session provides the per-editing-session buffer that holds
// in-progress records between generation and commit.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stationops/airtime/internal/logger"
)

// Default lifetime settings for idle editing sessions
const (
	DefaultIdleTTL         = 30 * time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

type entry[T any] struct {
	records   []T
	touchedAt time.Time
}

// Store is an in-memory session buffer keyed by opaque session ids. Entries
// expire after sitting idle for the configured TTL; a background goroutine
// sweeps them out. A store must be stopped with Stop when no longer needed.
type Store[T any] struct {
	idleTTL time.Duration

	mu      sync.RWMutex
	entries map[string]*entry[T]

	stopCleanup chan struct{} // Signal to stop cleanup goroutine
	cleanupDone chan struct{} // Signal when cleanup goroutine has stopped
}

// NewStore creates a session store and starts its cleanup goroutine.
// Non-positive durations fall back to the defaults.
func NewStore[T any](idleTTL, cleanupInterval time.Duration) *Store[T] {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	s := &Store[T]{
		idleTTL:     idleTTL,
		entries:     make(map[string]*entry[T]),
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}

	go s.runCleanupLoop(cleanupInterval)

	return s
}

// NewKey returns a fresh opaque session key
func (s *Store[T]) NewKey() string {
	return uuid.New().String()
}

// Put stores the records for a session, replacing any previous buffer and
// resetting the idle clock
func (s *Store[T]) Put(key string, records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = &entry[T]{records: records, touchedAt: time.Now()}
}

// Get returns the buffered records for a session and refreshes its idle
// clock. The second return is false when the session is unknown or expired.
func (s *Store[T]) Get(key string) ([]T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.touchedAt) > s.idleTTL {
		delete(s.entries, key)
		return nil, false
	}
	e.touchedAt = time.Now()
	return e.records, true
}

// Delete removes a session's buffer
func (s *Store[T]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len reports how many sessions are currently buffered
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stop gracefully stops the store's background cleanup goroutine
func (s *Store[T]) Stop() {
	close(s.stopCleanup)
	<-s.cleanupDone
	logger.Log.Debug().Msg("Session store cleanup goroutine stopped")
}

// runCleanupLoop periodically sweeps out idle sessions
func (s *Store[T]) runCleanupLoop(interval time.Duration) {
	defer close(s.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Debug().
		Dur("interval", interval).
		Dur("idle_ttl", s.idleTTL).
		Msg("Started session cleanup goroutine")

	for {
		select {
		case <-s.stopCleanup:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Store[T]) sweep() {
	cutoff := time.Now().Add(-s.idleTTL)

	s.mu.Lock()
	removed := 0
	for key, e := range s.entries {
		if e.touchedAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		logger.Log.Debug().
			Int("removed", removed).
			Msg("Swept idle editing sessions")
	}
}
