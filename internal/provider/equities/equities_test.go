package equities_test

import (
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/require"

	"tickerwatch/internal/config"
	"tickerwatch/internal/httpx"
	"tickerwatch/internal/provider/equities"
)

func TestNew_Yahoo(t *testing.T) {
	t.Parallel()

	eq, err := equities.New(config.Default().Equities, httpx.New(0), nil)
	require.NoError(t, err)
	require.Equal(t, "Yahoo", eq.Name())
}

func TestNew_FinanceGoSharesUpstreamTimeout(t *testing.T) {
	cfg := config.Default().Equities
	cfg.Backend = "financego"
	hc := httpx.New(10 * time.Second)

	eq, err := equities.New(cfg, hc, nil)
	require.NoError(t, err)
	require.Equal(t, "FinanceGo", eq.Name())

	b, ok := finance.GetBackend(finance.YFinBackend).(*finance.BackendConfiguration)
	require.True(t, ok)
	require.Equal(t, 10*time.Second, b.HTTPClient.Timeout)
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.Default().Equities
	cfg.Backend = "foo"

	_, err := equities.New(cfg, httpx.New(0), nil)
	require.ErrorContains(t, err, `unknown equities backend "foo"`)
}
