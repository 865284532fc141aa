package store

import (
	"context"
	"sync"
	"time"

	"github.com/use-agent/shelf/models"
)

// entry holds the stored result with its creation timestamp.
type entry struct {
	result    *models.ScrapeResult
	createdAt time.Time
}

// MemoryStore keeps the latest result in process memory. It is the fallback
// when Redis is not configured, and does not survive restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	cur   *entry
	ttl   time.Duration
	clock func() time.Time
}

// NewMemoryStore returns an empty store. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, clock: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, result *models.ScrapeResult) error {
	// Copy so later mutation by the caller cannot change what readers see.
	cp := *result
	cp.Products = append([]models.ProductRecord{}, result.Products...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = &entry{result: &cp, createdAt: m.clock()}
	return nil
}

func (m *MemoryStore) Latest(_ context.Context) (*models.ScrapeResult, error) {
	m.mu.RLock()
	e := m.cur
	m.mu.RUnlock()

	if e == nil {
		return nil, ErrNotFound
	}
	if m.ttl > 0 && m.clock().Sub(e.createdAt) > m.ttl {
		return nil, ErrNotFound
	}
	return e.result, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() error { return nil }
