package normalize

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tickerwatch/internal/market"
	"tickerwatch/internal/provider"
)

// NotAvailable is shown for missing or non-numeric values.
const NotAvailable = "N/A"

var magnitudes = []struct {
	min    decimal.Decimal
	suffix string
}{
	{decimal.New(1, 12), "T"},
	{decimal.New(1, 9), "B"},
	{decimal.New(1, 6), "M"},
	{decimal.New(1, 3), "K"},
}

// FormatNumber renders a market capitalisation as a dollar amount with a
// K/M/B/T suffix and two decimals, e.g. 2_450_000_000_000 -> "$2.45T".
// Nil, non-numeric, NaN and infinite inputs give "N/A".
func FormatNumber(v any) string {
	d, ok := toDecimal(v)
	if !ok {
		return NotAvailable
	}
	for _, m := range magnitudes {
		if d.GreaterThanOrEqual(m.min) {
			return "$" + d.Div(m.min).StringFixed(2) + m.suffix
		}
	}
	return "$" + d.StringFixed(2)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case nil:
		return decimal.Decimal{}, false
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return *n, true
	case decimal.NullDecimal:
		return n.Decimal, n.Valid
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		return toDecimal(float64(n))
	case *float64:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return toDecimal(*n)
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case *int64:
		if n == nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromInt(*n), true
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), true
	case uint32:
		return decimal.NewFromInt(int64(n)), true
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), true
	case json.Number:
		return toDecimal(string(n))
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, false
		}
		return d, true
	}
	return decimal.Decimal{}, false
}

// Round2 rounds half away from zero to two decimals.
func Round2(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// EquityChart labels each daily close by its exchange-local calendar date.
// Bars without a close are dropped.
func EquityChart(bars []provider.Bar) []market.Point {
	out := make([]market.Point, 0, len(bars))
	for _, b := range bars {
		if b.Close == nil || math.IsNaN(*b.Close) {
			continue
		}
		out = append(out, market.Point{Date: b.Time.Format(time.DateOnly), Close: Round2(*b.Close)})
	}
	return out
}

// CryptoChart labels each point by the UTC date of its millisecond timestamp.
func CryptoChart(chart provider.MarketChart) []market.Point {
	out := make([]market.Point, 0, len(chart.Prices))
	for _, p := range chart.Prices {
		out = append(out, market.Point{
			Date:  time.UnixMilli(p.TimestampMS).UTC().Format(time.DateOnly),
			Close: Round2(p.Price),
		})
	}
	return out
}

// FromEquity builds the display record for a stock. The caller has already
// checked that q.RegularMarketPrice is set.
func FromEquity(symbol string, q provider.EquityQuote, bars []provider.Bar) *market.Quote {
	name := NotAvailable
	if q.ShortName != nil {
		name = *q.ShortName
	}
	var change float64
	if q.RegularMarketChangePercent != nil {
		change = *q.RegularMarketChangePercent
	}
	var price decimal.Decimal
	if q.RegularMarketPrice != nil {
		price = decimal.NewFromFloat(*q.RegularMarketPrice)
	}
	return &market.Quote{
		Type:      market.Stock,
		Symbol:    symbol,
		Name:      name,
		Price:     price,
		Change:    decimal.NewNullDecimal(Round2(change)),
		MarketCap: FormatNumber(q.MarketCap),
		Chart:     EquityChart(bars),
	}
}

// FromCrypto builds the display record for a crypto asset. A missing 24h
// change stays null; it is not defaulted the way the equity change is.
func FromCrypto(coin provider.Coin, chart provider.MarketChart) *market.Quote {
	var change decimal.NullDecimal
	if coin.PriceChangePercentage24h != nil {
		change = decimal.NewNullDecimal(Round2(*coin.PriceChangePercentage24h))
	}
	return &market.Quote{
		Type:      market.Crypto,
		Symbol:    strings.ToUpper(coin.Symbol),
		Name:      coin.Name,
		Price:     decimal.NewFromFloat(coin.CurrentPriceUSD),
		Change:    change,
		MarketCap: FormatNumber(coin.MarketCapUSD),
		Chart:     CryptoChart(chart),
	}
}
