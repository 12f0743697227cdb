package yahoo

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"tickerwatch/internal/httpx"
	"tickerwatch/internal/provider"
)

func newTestProvider(t *testing.T, h http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{
		QuoteURL: srv.URL + "/v7/finance/quote",
		ChartURL: srv.URL + "/v8/finance/chart",
	}, httpx.New(time.Second))
}

func TestQuote(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v7/finance/quote", r.URL.Path)
		require.Equal(t, "AAPL", r.URL.Query().Get("symbols"))
		require.Equal(t, "tickerwatch/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{
			"symbol":"AAPL","shortName":"Apple Inc.","regularMarketPrice":150.0,
			"regularMarketChangePercent":1.23456,"marketCap":2500000000000}],"error":null}}`))
	})

	q, err := p.Quote(t.Context(), "AAPL")
	require.NoError(t, err)
	require.Equal(t, "AAPL", q.Symbol)
	require.NotNil(t, q.ShortName)
	require.Equal(t, "Apple Inc.", *q.ShortName)
	require.NotNil(t, q.RegularMarketPrice)
	require.InEpsilon(t, 150.0, *q.RegularMarketPrice, 0.0001)
	require.NotNil(t, q.RegularMarketChangePercent)
	require.NotNil(t, q.MarketCap)
	require.InEpsilon(t, 2.5e12, *q.MarketCap, 0.0001)
}

func TestQuote_NullPrice(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"BITCOIN","regularMarketPrice":null}],"error":null}}`))
	})

	q, err := p.Quote(t.Context(), "BITCOIN")
	require.NoError(t, err)
	require.Nil(t, q.RegularMarketPrice)
	require.Nil(t, q.ShortName)
	require.Nil(t, q.MarketCap)
}

func TestQuote_EmptyResultIsUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":null}}`))
	})

	_, err := p.Quote(t.Context(), "DOESNOTEXIST123")
	require.ErrorIs(t, err, provider.ErrNoSuchSymbol)
}

func TestQuote_404IsUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := p.Quote(t.Context(), "NOPE")
	require.ErrorIs(t, err, provider.ErrNoSuchSymbol)
}

func TestQuote_ServerErrorIsNotUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := p.Quote(t.Context(), "AAPL")
	require.Error(t, err)
	require.NotErrorIs(t, err, provider.ErrNoSuchSymbol)
	require.Contains(t, err.Error(), "502")
}

func TestQuote_ServerErrorKeepsBodyOutOfError(t *testing.T) {
	t.Parallel()

	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "<html>internal trace id=abc123</html>", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)
	p := New(Config{QuoteURL: srv.URL + "/v7/finance/quote", Log: log}, httpx.New(time.Second))

	// Act
	_, err := p.Quote(t.Context(), "AAPL")

	// Assert
	require.EqualError(t, err, "yahoo quote: upstream status 503")
	require.NotContains(t, err.Error(), srv.URL)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, logrus.DebugLevel, entry.Level)
	require.Equal(t, 503, entry.Data["status"])
	require.Contains(t, entry.Data["body"], "trace id=abc123")
}

func TestQuote_APIError(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":null,"error":{"code":"Unauthorized","description":"Invalid Crumb"}}}`))
	})

	_, err := p.Quote(t.Context(), "AAPL")
	require.ErrorContains(t, err, "Invalid Crumb")
}

func TestHistory(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		require.Equal(t, "1mo", r.URL.Query().Get("range"))
		require.Equal(t, "1d", r.URL.Query().Get("interval"))
		// 2024-03-01 14:30 UTC and 2024-03-04 14:30 UTC, NYSE at -05:00
		_, _ = w.Write([]byte(`{"chart":{"result":[{
			"meta":{"timezone":"EST","gmtoffset":-18000},
			"timestamp":[1709303400,1709562600,1709649000],
			"indicators":{"quote":[{"close":[179.66,null,175.1]}]}}],"error":null}}`))
	})

	bars, err := p.History(t.Context(), "AAPL")
	require.NoError(t, err)
	require.Len(t, bars, 3)
	require.Equal(t, "2024-03-01", bars[0].Time.Format(time.DateOnly))
	require.Equal(t, "2024-03-04", bars[1].Time.Format(time.DateOnly))
	require.NotNil(t, bars[0].Close)
	require.InEpsilon(t, 179.66, *bars[0].Close, 0.0001)
	require.Nil(t, bars[1].Close)
}

func TestHistory_LengthMismatch(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"chart":{"result":[{"meta":{"gmtoffset":0},"timestamp":[1,2],"indicators":{"quote":[{"close":[1.0]}]}}],"error":null}}`))
	})

	_, err := p.History(t.Context(), "AAPL")
	require.Error(t, err)
}

func TestHistory_NotFound(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := p.History(t.Context(), "ZZZZ")
	require.ErrorIs(t, err, provider.ErrNoSuchSymbol)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	p := New(Config{}, nil)
	require.Equal(t, "Yahoo", p.Name())
	require.Equal(t, "1mo", p.cfg.Range)
	require.Equal(t, "1d", p.cfg.Interval)
	require.NotEmpty(t, p.cfg.QuoteURL)
	require.NotEmpty(t, p.cfg.ChartURL)
}
