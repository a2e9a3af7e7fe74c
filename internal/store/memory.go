package store

import (
	"context"
	"sync"
	"time"

	"hookgate/internal/model"
)

// Memory is the in-process ledger used when neither DATABASE_URL nor
// REDIS_URL is set. Entries live for the process lifetime with no eviction,
// so deduplication does not survive restarts and memory grows with traffic.
// Fine for development; production deployments should use the Redis or
// Postgres ledger.
type Memory struct {
	mu    sync.Mutex
	seen  map[string]model.ProcessedDelivery
	order []string // delivery ids, oldest first
}

func NewMemory() *Memory {
	return &Memory{seen: map[string]model.ProcessedDelivery{}}
}

func (m *Memory) Seen(ctx context.Context, deliveryID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.seen[deliveryID]
	return ok, nil
}

func (m *Memory) Mark(ctx context.Context, deliveryID, eventType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[deliveryID]; ok {
		return nil
	}
	m.seen[deliveryID] = model.ProcessedDelivery{
		DeliveryID:  deliveryID,
		EventType:   eventType,
		ProcessedAt: time.Now().UTC(),
	}
	m.order = append(m.order, deliveryID)
	return nil
}

func (m *Memory) Recent(ctx context.Context, limit int) ([]model.ProcessedDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.order) {
		limit = len(m.order)
	}
	out := make([]model.ProcessedDelivery, 0, limit)
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.seen[m.order[i]])
	}
	return out, nil
}

func (m *Memory) Ping(ctx context.Context) error { return nil }
