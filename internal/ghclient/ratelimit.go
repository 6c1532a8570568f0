package ghclient

import (
	"errors"
	"sync"
	"time"

	"github.com/google/go-github/v57/github"
)

// ErrRateLimited is returned when the API quota is still exhausted after
// waiting for the advertised reset.
var ErrRateLimited = errors.New("rate limited")

// RateLimitState tracks the quota observed on API responses. It is a
// value threaded through the client rather than process-wide state so a
// client under test carries its own.
type RateLimitState struct {
	mu        sync.RWMutex
	remaining int
	limit     int
	resetAt   time.Time
}

// Observe records the quota headers from a response.
func (s *RateLimitState) Observe(resp *github.Response) {
	if resp == nil || resp.Rate.Limit == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.remaining = resp.Rate.Remaining
	s.limit = resp.Rate.Limit
	s.resetAt = resp.Rate.Reset.Time
}

// Status returns the last observed quota.
func (s *RateLimitState) Status() (remaining, limit int, resetAt time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remaining, s.limit, s.resetAt
}
