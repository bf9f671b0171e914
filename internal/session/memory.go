package session

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/scamjob-detector/internal/detector"
)

// DefaultTTL is how long a cached prediction stays usable without a new one.
const DefaultTTL = 30 * time.Minute

// sweepInterval is how often the janitor drops expired entries.
const sweepInterval = 5 * time.Minute

type memoryEntry struct {
	result    *detector.PredictionResult
	expiresAt time.Time
}

// MemoryStore is an in-process Store for single-instance deployments.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

// NewMemoryStore creates a MemoryStore and starts its cleanup goroutine.
// A non-positive ttl falls back to DefaultTTL. Call Stop on shutdown.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Put overwrites the cached prediction for the session.
func (s *MemoryStore) Put(_ context.Context, sessionID string, result *detector.PredictionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{
		result:    result,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get returns the cached prediction or a NoPredictionError.
func (s *MemoryStore) Get(_ context.Context, sessionID string) (*detector.PredictionResult, error) {
	s.mu.RLock()
	entry, ok := s.entries[sessionID]
	s.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, &NoPredictionError{SessionID: sessionID}
	}
	return entry.result, nil
}

// Clear drops the cached prediction for the session.
func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (s *MemoryStore) Stop() {
	s.once.Do(func() { close(s.done) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case now := <-ticker.C:
			s.mu.Lock()
			for id, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
