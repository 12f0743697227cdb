package watchlist_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tickerwatch/internal/market"
	"tickerwatch/internal/watchlist"
)

func TestMemoryStore_AddIsIdempotent(t *testing.T) {
	t.Parallel()

	s := watchlist.NewMemoryStore()
	first, err := s.Add(t.Context(), "alice", "AAPL", market.Stock)
	require.NoError(t, err)

	second, err := s.Add(t.Context(), "alice", "AAPL", market.Stock)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	items, err := s.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestMemoryStore_SameSymbolDifferentType(t *testing.T) {
	t.Parallel()

	s := watchlist.NewMemoryStore()
	_, err := s.Add(t.Context(), "alice", "BTC", market.Crypto)
	require.NoError(t, err)
	_, err = s.Add(t.Context(), "alice", "BTC", market.Stock)
	require.NoError(t, err)

	items, err := s.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestMemoryStore_RemoveAbsent(t *testing.T) {
	t.Parallel()

	s := watchlist.NewMemoryStore()
	_, err := s.Add(t.Context(), "alice", "AAPL", market.Stock)
	require.NoError(t, err)

	require.NoError(t, s.Remove(t.Context(), "alice", "MSFT", market.Stock))
	require.NoError(t, s.Remove(t.Context(), "bob", "AAPL", market.Stock))

	items, err := s.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "AAPL", items[0].Symbol)
}

func TestMemoryStore_PurgeOnlyTouchesOwner(t *testing.T) {
	t.Parallel()

	s := watchlist.NewMemoryStore()
	for _, sym := range []string{"AAPL", "MSFT"} {
		_, err := s.Add(t.Context(), "alice", sym, market.Stock)
		require.NoError(t, err)
	}
	_, err := s.Add(t.Context(), "bob", "AAPL", market.Stock)
	require.NoError(t, err)

	require.NoError(t, s.Purge(t.Context(), "alice"))

	alice, err := s.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Empty(t, alice)
	bob, err := s.List(t.Context(), "bob")
	require.NoError(t, err)
	require.Len(t, bob, 1)
}

func TestMemoryStore_ConcurrentAdd(t *testing.T) {
	t.Parallel()

	s := watchlist.NewMemoryStore()
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Add(t.Context(), "alice", "ETH", market.Crypto)
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := s.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
}
