package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"chessington/internal/game"
	"chessington/internal/storage"
)

const (
	MaxGames           = 1000
	GameIdleTTL        = 2 * time.Hour
	TokenTTL           = 7 * 24 * time.Hour
	CleanupJobInterval = 10 * time.Minute
)

// entry is a registered game with its bookkeeping. lastActive holds unix
// nanoseconds so readers can touch it under the read lock.
type entry struct {
	game       *game.Game
	ownerID    string
	lastActive atomic.Int64
}

func (e *entry) touch(t time.Time) {
	e.lastActive.Store(t.UnixNano())
}

// Service owns every live game. Queries take the read lock and board
// mutations the write lock, so move generation never sees a half-applied move.
type Service struct {
	games     map[string]*entry
	mu        sync.RWMutex
	store     *storage.Store // nil if persistence disabled
	jwtSecret []byte
	now       func() time.Time
}

// New creates a new service instance with optional storage
func New(store *storage.Store, jwtSecret []byte) *Service {
	return &Service{
		games:     make(map[string]*entry),
		store:     store,
		jwtSecret: jwtSecret,
		now:       time.Now,
	}
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// GameCount returns the number of live games
func (s *Service) GameCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// Shutdown drops live games and closes storage, waiting up to timeout for
// pending writes to drain
func (s *Service) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	s.games = make(map[string]*entry)
	s.mu.Unlock()

	if s.store == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- s.store.Close() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		return nil
	case <-time.After(timeout):
		return errors.New("storage: close timed out")
	}
}

// RunCleanupJob periodically evicts games idle longer than GameIdleTTL
func (s *Service) RunCleanupJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.evictIdle(GameIdleTTL); n > 0 {
				log.Printf("cleanup: evicted %d idle games", n)
			}
		}
	}
}

// evictIdle removes in-memory games untouched for longer than ttl. Stored
// rows are kept.
func (s *Service) evictIdle(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.games {
		if e.lastActive.Load() < cutoff.UnixNano() {
			delete(s.games, id)
			evicted++
		}
	}
	return evicted
}
