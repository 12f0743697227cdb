package watchlist_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"tickerwatch/internal/market"
	"tickerwatch/internal/watchlist"
	"tickerwatch/internal/watchlist/watchlistmock"
)

func TestService_AddNormalisesAndNotifies(t *testing.T) {
	t.Parallel()

	// Arrange
	ctrl := gomock.NewController(t)
	store := watchlistmock.NewMockStore(ctrl)
	notifier := watchlistmock.NewMockNotifier(ctrl)
	log, _ := logtest.NewNullLogger()
	svc := watchlist.NewService(store, notifier, log)

	want := watchlist.Entry{ID: uuid.New(), Owner: "alice", Symbol: "AAPL", Type: market.Stock}
	store.EXPECT().
		Add(gomock.Any(), "alice", "AAPL", market.Stock).
		Return(want, nil).
		Times(1)
	notifier.EXPECT().
		Notify(gomock.Any(), "alice", "Added AAPL to your watchlist!").
		Return(nil).
		Times(1)

	// Act
	got, err := svc.Add(t.Context(), "alice", " aapl ", "stock")

	// Assert
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_RemoveNotifies(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := watchlistmock.NewMockStore(ctrl)
	notifier := watchlistmock.NewMockNotifier(ctrl)
	svc := watchlist.NewService(store, notifier, nil)

	store.EXPECT().Remove(gomock.Any(), "alice", "BTC", market.Crypto).Return(nil)
	notifier.EXPECT().Notify(gomock.Any(), "alice", "Removed BTC from your watchlist!").Return(nil)

	require.NoError(t, svc.Remove(t.Context(), "alice", "btc", "Crypto"))
}

func TestService_Validation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, owner, symbol, typ string
	}{
		{"empty owner", "", "AAPL", "stock"},
		{"empty symbol", "alice", "   ", "stock"},
		{"long symbol", "alice", strings.Repeat("X", watchlist.MaxSymbolLen+1), "stock"},
		{"bad type", "alice", "AAPL", "bond"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			store := watchlistmock.NewMockStore(ctrl)
			notifier := watchlistmock.NewMockNotifier(ctrl)
			store.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			svc := watchlist.NewService(store, notifier, nil)

			_, err := svc.Add(t.Context(), tc.owner, tc.symbol, tc.typ)
			require.ErrorIs(t, err, watchlist.ErrInvalid)
		})
	}
}

func TestService_UnknownTypeKeepsCause(t *testing.T) {
	t.Parallel()

	svc := watchlist.NewService(watchlist.NewMemoryStore(), nil, nil)
	err := svc.Remove(t.Context(), "alice", "AAPL", "bond")
	require.ErrorIs(t, err, watchlist.ErrInvalid)
	require.ErrorIs(t, err, market.ErrUnknownAssetType)
}

func TestService_StoreFailureIsWrapped(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	store := watchlistmock.NewMockStore(ctrl)
	notifier := watchlistmock.NewMockNotifier(ctrl)
	svc := watchlist.NewService(store, notifier, nil)

	boom := errors.New("connection refused")
	store.EXPECT().Add(gomock.Any(), "alice", "AAPL", market.Stock).Return(watchlist.Entry{}, boom)
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Add(t.Context(), "alice", "AAPL", "stock")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, watchlist.ErrInvalid)
}

func TestService_NoticeFailureIsLogged(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	notifier := watchlistmock.NewMockNotifier(ctrl)
	log, hook := logtest.NewNullLogger()
	svc := watchlist.NewService(watchlist.NewMemoryStore(), notifier, log)

	notifier.EXPECT().Notify(gomock.Any(), "alice", gomock.Any()).Return(errors.New("redis down"))

	_, err := svc.Add(t.Context(), "alice", "AAPL", "stock")
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	require.Equal(t, "notice not delivered", hook.LastEntry().Message)
}

func TestService_AddTwiceKeepsOneEntry(t *testing.T) {
	t.Parallel()

	store := watchlist.NewMemoryStore()
	svc := watchlist.NewService(store, nil, nil)

	_, err := svc.Add(t.Context(), "alice", "aapl", "stock")
	require.NoError(t, err)
	_, err = svc.Add(t.Context(), "alice", "AAPL", "STOCK")
	require.NoError(t, err)

	items, err := svc.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestService_Purge(t *testing.T) {
	t.Parallel()

	store := watchlist.NewMemoryStore()
	svc := watchlist.NewService(store, nil, nil)
	_, err := svc.Add(t.Context(), "alice", "AAPL", "stock")
	require.NoError(t, err)

	require.NoError(t, svc.Purge(t.Context(), "alice"))
	items, err := svc.List(t.Context(), "alice")
	require.NoError(t, err)
	require.Empty(t, items)

	require.ErrorIs(t, svc.Purge(t.Context(), " "), watchlist.ErrInvalid)
}
