package window

import (
	"context"
	"math"
	"sync"
	"time"

	"storefront/internal/ratelimit/models"
	"storefront/pkg/requestcontext"
)

// InMemoryWindowStore implements WindowStore with a per-key sliding window
// of admission timestamps. Single-process only; use RedisWindowStore when
// several replicas must share one quota.
type InMemoryWindowStore struct {
	mu      sync.Mutex
	windows map[string]*slidingWindow
}

// slidingWindow holds admitted timestamps, oldest first. Every timestamp
// lies within [now-window, now]; older entries are trimmed before each
// admission check.
type slidingWindow struct {
	timestamps []time.Time
}

// NewInMemoryWindowStore creates a new in-memory window store. Windows are
// created lazily per key and retained for the process lifetime; the key
// space is bounded by configured upstream shops.
func NewInMemoryWindowStore() *InMemoryWindowStore {
	return &InMemoryWindowStore{
		windows: make(map[string]*slidingWindow),
	}
}

// Allow purges expired timestamps, then either appends now and admits or
// rejects with the wait until the oldest admitted slot rolls out of the
// window. The purge-check-append sequence runs under one lock so two
// concurrent callers can never both be admitted past the quota.
func (s *InMemoryWindowStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.AdmitResult, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.getOrCreateWindow(key)
	sw.trim(now, window)

	if len(sw.timestamps) >= limit {
		oldest := sw.timestamps[0]
		wait := window - now.Sub(oldest)
		return &models.AdmitResult{
			Allowed:    false,
			Limit:      limit,
			Remaining:  0,
			ResetAt:    oldest.Add(window),
			RetryAfter: int(math.Ceil(wait.Seconds())),
		}, nil
	}

	sw.timestamps = append(sw.timestamps, now)
	return &models.AdmitResult{
		Allowed:   true,
		Limit:     limit,
		Remaining: limit - len(sw.timestamps),
		ResetAt:   sw.timestamps[0].Add(window),
	}, nil
}

// Reset clears the window for a key.
func (s *InMemoryWindowStore) Reset(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
	return nil
}

// CurrentCount returns the number of admissions still inside the window.
func (s *InMemoryWindowStore) CurrentCount(ctx context.Context, key string, window time.Duration) (int, error) {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	sw := s.windows[key]
	if sw == nil {
		return 0, nil
	}
	sw.trim(now, window)
	return len(sw.timestamps), nil
}

// trim drops the prefix of timestamps older than the window. Timestamps are
// appended in order, so expiry is always a prefix.
func (sw *slidingWindow) trim(now time.Time, window time.Duration) {
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if now.Sub(sw.timestamps[i]) < window {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// getOrCreateWindow returns an existing window or creates a new one.
// Must be called while holding s.mu.
func (s *InMemoryWindowStore) getOrCreateWindow(key string) *slidingWindow {
	if sw := s.windows[key]; sw != nil {
		return sw
	}
	sw := &slidingWindow{timestamps: []time.Time{}}
	s.windows[key] = sw
	return sw
}
