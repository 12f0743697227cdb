// Package financego adapts github.com/piquette/finance-go to provider.Equities.
//
// finance-go keeps its HTTP client in package state and takes no context, so
// cancellation is only checked before each call and the per-call deadline
// comes from Config.HTTPClient. Zero numeric fields in its
// quote model are treated as absent.
package financego

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"

	"tickerwatch/internal/provider"
)

// barIter is the subset of *chart.Iter the adapter reads.
type barIter interface {
	Next() bool
	Bar() *finance.ChartBar
	Err() error
}

type Config struct {
	Name string
	// Lookback is the history window, 30 days by default.
	Lookback time.Duration
	// Location labels bar dates; UTC by default.
	Location *time.Location
	// HTTPClient replaces finance-go's process-wide client when set.
	HTTPClient *http.Client
}

type Provider struct {
	cfg       Config
	now       func() time.Time
	getEquity func(symbol string) (*finance.Equity, error)
	getChart  func(params *chart.Params) barIter
}

func New(cfg Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "FinanceGo"
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = 30 * 24 * time.Hour
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.HTTPClient != nil {
		useHTTPClient(cfg.HTTPClient)
	}
	return &Provider{
		cfg:       cfg,
		now:       time.Now,
		getEquity: equity.Get,
		getChart:  func(p *chart.Params) barIter { return chart.Get(p) },
	}
}

// useHTTPClient points finance-go at hc, including a Yahoo backend that was
// already created with the old client.
func useHTTPClient(hc *http.Client) {
	finance.SetHTTPClient(hc)
	if b, ok := finance.GetBackend(finance.YFinBackend).(*finance.BackendConfiguration); ok {
		b.HTTPClient = hc
	}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Quote(ctx context.Context, symbol string) (provider.EquityQuote, error) {
	if err := ctx.Err(); err != nil {
		return provider.EquityQuote{}, err
	}
	eq, err := p.getEquity(symbol)
	if err != nil {
		return provider.EquityQuote{}, fmt.Errorf("finance-go equity %q: %w", symbol, err)
	}
	if eq == nil {
		return provider.EquityQuote{}, fmt.Errorf("finance-go equity %q: %w", symbol, provider.ErrNoSuchSymbol)
	}

	out := provider.EquityQuote{Symbol: eq.Symbol}
	if out.Symbol == "" {
		out.Symbol = strings.ToUpper(symbol)
	}
	if eq.ShortName != "" {
		name := eq.ShortName
		out.ShortName = &name
	}
	if eq.RegularMarketPrice != 0 {
		price := eq.RegularMarketPrice
		out.RegularMarketPrice = &price
		change := eq.RegularMarketChangePercent
		out.RegularMarketChangePercent = &change
	}
	if eq.MarketCap != 0 {
		mc := float64(eq.MarketCap)
		out.MarketCap = &mc
	}
	return out, nil
}

func (p *Provider) History(ctx context.Context, symbol string) ([]provider.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	end := p.now()
	start := end.Add(-p.cfg.Lookback)
	it := p.getChart(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	})

	var out []provider.Bar
	for it.Next() {
		b := it.Bar()
		if b == nil {
			continue
		}
		closeF, _ := b.Close.Float64()
		out = append(out, provider.Bar{
			Time:  time.Unix(int64(b.Timestamp), 0).In(p.cfg.Location),
			Close: &closeF,
		})
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("finance-go chart %q: %w", symbol, err)
	}
	return out, nil
}
