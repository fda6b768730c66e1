package store

import (
	"context"
	"sort"
	"sync"

	"github.com/quietnest/noise-event-service/internal/models"
)

// MemoryStore keeps readings in process memory. It backs local development
// without a database and the handler test suites. Not durable.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []models.Reading
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func matches(r models.Reading, f Filter) bool {
	if f.DeviceID != "" && r.DeviceID != f.DeviceID {
		return false
	}
	if !f.Before.IsZero() && !r.Timestamp.Before(f.Before) {
		return false
	}
	return true
}

func (m *MemoryStore) Insert(_ context.Context, r models.Reading) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readings = append(m.readings, r)
	return nil
}

func (m *MemoryStore) Query(_ context.Context, f Filter, limit int) ([]models.Reading, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Reading
	for _, r := range m.readings {
		if matches(r, f) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) Count(_ context.Context, f Filter) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, r := range m.readings {
		if matches(r, f) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) DeleteByID(_ context.Context, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := m.readings[:0]
	var deleted int64
	for _, r := range m.readings {
		if _, ok := drop[r.ID]; ok {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.readings = kept
	return deleted, nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() {}
