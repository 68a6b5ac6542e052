// Package generation issues financial source tokens and ocid ordinals.
package generation

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Service implements budget.Generator with random UUIDs and the wall clock.
// Ordinals never repeat within a process: two calls in the same millisecond,
// or after the clock steps back, get the last ordinal plus one.
type Service struct {
	now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewService creates a generator backed by time.Now
func NewService() *Service {
	return &Service{now: time.Now}
}

// NewToken returns a random (version 4) UUID
func (s *Service) NewToken() uuid.UUID {
	return uuid.New()
}

// NowOrdinal returns the current time in epoch milliseconds, bumped past the
// previously issued ordinal when needed
func (s *Service) NowOrdinal() int64 {
	now := s.now().UnixMilli()

	s.mu.Lock()
	defer s.mu.Unlock()
	if now <= s.last {
		now = s.last + 1
	}
	s.last = now
	return now
}
