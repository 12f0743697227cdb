// Package lookup decides whether a free-text query names a stock or a crypto
// asset and returns a single normalized quote for it.
//
// Equities are tried first, so a string that is both a ticker and a coin id
// resolves to the stock. There are no retries: each Resolve is one equity
// attempt followed, if needed, by one crypto attempt.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"tickerwatch/internal/market"
	"tickerwatch/internal/normalize"
	"tickerwatch/internal/provider"
)

// LookbackDays is the crypto chart window. Equity history uses the
// provider's one-month range.
const LookbackDays = 30

var (
	// ErrNotFound means the query matched neither asset class.
	ErrNotFound = errors.New("no stock/crypto found for this query")
	// ErrEmptyQuery is returned for blank input; nothing is fetched.
	ErrEmptyQuery = errors.New("empty query")
)

// UpstreamError wraps a network failure, timeout or malformed payload from
// either provider.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *UpstreamError) Unwrap() error { return e.Err }

// Message renders err for display next to an empty result.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "No stock/crypto found for this query."
	default:
		return "Error: " + err.Error()
	}
}

type Service struct {
	equities provider.Equities
	crypto   provider.Crypto
	log      logrus.FieldLogger
}

func NewService(equities provider.Equities, crypto provider.Crypto, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{equities: equities, crypto: crypto, log: log}
}

// Resolve classifies query and returns its quote. The error is ErrEmptyQuery,
// ErrNotFound or an *UpstreamError.
func (s *Service) Resolve(ctx context.Context, query string) (*market.Quote, error) {
	id := strings.ToLower(strings.TrimSpace(query))
	if id == "" {
		return nil, ErrEmptyQuery
	}
	ticker := strings.ToUpper(id)
	log := s.log.WithField("query", id)

	q, err := s.resolveStock(ctx, ticker)
	switch {
	case err != nil:
		log.WithError(err).Warn("equity lookup failed")
		return nil, err
	case q != nil:
		log.WithFields(logrus.Fields{"type": market.Stock, "symbol": q.Symbol, "points": len(q.Chart)}).Info("resolved query")
		return q, nil
	}

	q, err = s.resolveCrypto(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Info("query matched nothing")
		} else {
			log.WithError(err).Warn("crypto lookup failed")
		}
		return nil, err
	}
	log.WithFields(logrus.Fields{"type": market.Crypto, "symbol": q.Symbol, "points": len(q.Chart)}).Info("resolved query")
	return q, nil
}

// resolveStock returns (nil, nil) when ticker is not a priced equity.
func (s *Service) resolveStock(ctx context.Context, ticker string) (*market.Quote, error) {
	eq, err := s.equities.Quote(ctx, ticker)
	if errors.Is(err, provider.ErrNoSuchSymbol) {
		return nil, nil
	}
	if err != nil {
		return nil, &UpstreamError{Op: "equity quote", Err: err}
	}
	if eq.RegularMarketPrice == nil {
		return nil, nil
	}

	bars, err := s.equities.History(ctx, ticker)
	if err != nil {
		return nil, &UpstreamError{Op: "equity history", Err: err}
	}
	return normalize.FromEquity(ticker, eq, bars), nil
}

func (s *Service) resolveCrypto(ctx context.Context, id string) (*market.Quote, error) {
	chart, err := s.crypto.MarketChart(ctx, id, LookbackDays)
	if errors.Is(err, provider.ErrNoSuchSymbol) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &UpstreamError{Op: "crypto market chart", Err: err}
	}

	coin, err := s.crypto.Coin(ctx, id)
	if err != nil {
		return nil, &UpstreamError{Op: "crypto coin", Err: err}
	}
	return normalize.FromCrypto(coin, chart), nil
}
