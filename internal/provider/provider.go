package provider

import (
	"context"
	"errors"
	"time"
)

// ErrNoSuchSymbol is returned by providers when the upstream does not know
// the requested symbol or id. It is distinct from transport failures.
var ErrNoSuchSymbol = errors.New("no such symbol")

// EquityQuote is the profile/quote subset returned by an equities provider.
// Nil pointers mean the upstream field was absent or null.
type EquityQuote struct {
	Symbol                     string
	ShortName                  *string
	RegularMarketPrice         *float64
	RegularMarketChangePercent *float64
	MarketCap                  *float64
}

// Bar is one daily close. Time carries the exchange-local location so the
// calendar date can be read off directly.
type Bar struct {
	Time  time.Time
	Close *float64
}

// PricePoint is a single [epoch_ms, price] pair from a crypto market chart.
type PricePoint struct {
	TimestampMS int64
	Price       float64
}

// MarketChart is a crypto price series in USD.
type MarketChart struct {
	Prices []PricePoint
}

// Coin is crypto asset metadata in USD.
type Coin struct {
	ID                       string
	Symbol                   string
	Name                     string
	CurrentPriceUSD          float64
	PriceChangePercentage24h *float64
	MarketCapUSD             *float64
}

//go:generate mockgen -package=providermock -destination=providermock/provider.go -source=provider.go

// Equities looks up stock tickers.
type Equities interface {
	Name() string
	Quote(ctx context.Context, symbol string) (EquityQuote, error)
	// History returns daily closes for the trailing month.
	History(ctx context.Context, symbol string) ([]Bar, error)
}

// Crypto looks up crypto assets by provider id (e.g. "bitcoin").
type Crypto interface {
	Name() string
	MarketChart(ctx context.Context, id string, days int) (MarketChart, error)
	Coin(ctx context.Context, id string) (Coin, error)
}
