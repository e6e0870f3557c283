// Package dedup provides guards that let a webhook ignore redelivered
// messages from the messaging provider.
package dedup

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL is how long a message id is remembered.
const DefaultTTL = 24 * time.Hour

// Memory remembers claimed message ids inside the process.
type Memory struct {
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
	mu   sync.Mutex
}

// NewMemory constructs an in-process guard.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Memory{
		ttl:  ttl,
		now:  time.Now,
		seen: make(map[string]time.Time),
	}
}

// Claim records the key and reports whether this is the first time it has
// been seen within the ttl. An empty key is always claimable.
func (m *Memory) Claim(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return true, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	// Drop expired ids so the map doesn't grow without bound.
	for k, exp := range m.seen {
		if now.After(exp) {
			delete(m.seen, k)
		}
	}

	if _, exists := m.seen[key]; exists {
		return false, nil
	}

	m.seen[key] = now.Add(m.ttl)
	return true, nil
}

// Close implements the same shutdown api as the redis guard.
func (m *Memory) Close() error {
	return nil
}
