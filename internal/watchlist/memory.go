package watchlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tickerwatch/internal/market"
)

type key struct {
	owner  string
	symbol string
	typ    market.AssetType
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[key]Entry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[key]Entry), now: time.Now}
}

func (m *MemoryStore) Add(_ context.Context, owner, symbol string, typ market.AssetType) (Entry, error) {
	k := key{owner, symbol, typ}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.items[k]; ok {
		return e, nil
	}
	e := Entry{
		ID:        uuid.New(),
		Owner:     owner,
		Symbol:    symbol,
		Type:      typ,
		CreatedAt: m.now().UTC(),
	}
	m.items[k] = e
	return e, nil
}

func (m *MemoryStore) Remove(_ context.Context, owner, symbol string, typ market.AssetType) error {
	m.mu.Lock()
	delete(m.items, key{owner, symbol, typ})
	m.mu.Unlock()
	return nil
}

// List returns owner's entries oldest first.
func (m *MemoryStore) List(_ context.Context, owner string) ([]Entry, error) {
	m.mu.RLock()
	out := make([]Entry, 0)
	for k, e := range m.items {
		if k.owner == owner {
			out = append(out, e)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Symbol < out[j].Symbol
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Purge(_ context.Context, owner string) error {
	m.mu.Lock()
	for k := range m.items {
		if k.owner == owner {
			delete(m.items, k)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
