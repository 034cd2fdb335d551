package cache

import (
	"context"
	"sync"
	"time"
)

// InMemoryBlocklist implements TokenBlocklist with a map. Suitable for a
// single instance and for tests.
type InMemoryBlocklist struct {
	mu        sync.RWMutex
	entries   map[string]time.Time
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryBlocklist creates the blocklist and starts a goroutine that
// sweeps expired entries every interval.
func NewInMemoryBlocklist(interval time.Duration) *InMemoryBlocklist {
	b := &InMemoryBlocklist{
		entries:  make(map[string]time.Time),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	b.wg.Add(1)
	go b.cleanupLoop(interval)

	return b
}

// Revoke blocks tokenID until expiresAt.
func (b *InMemoryBlocklist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !expiresAt.After(b.now()) {
		return nil
	}
	b.entries[tokenID] = expiresAt
	return nil
}

// IsRevoked reports whether tokenID is blocked and not yet expired.
func (b *InMemoryBlocklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	expiresAt, ok := b.entries[tokenID]
	if !ok {
		return false, nil
	}
	return b.now().Before(expiresAt), nil
}

// Close stops the sweeper. Safe to call multiple times.
func (b *InMemoryBlocklist) Close() error {
	b.closeOnce.Do(func() {
		close(b.stopChan)
		b.wg.Wait()
	})
	return nil
}

// Size returns the number of entries, expired or not.
func (b *InMemoryBlocklist) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *InMemoryBlocklist) cleanupLoop(interval time.Duration) {
	defer b.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			b.cleanup()
		}
	}
}

func (b *InMemoryBlocklist) cleanup() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for id, expiresAt := range b.entries {
		if !now.Before(expiresAt) {
			delete(b.entries, id)
		}
	}
}

var _ TokenBlocklist = (*InMemoryBlocklist)(nil)
