package market

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AssetType classifies a symbol as an equity or a crypto asset.
type AssetType string

const (
	Stock  AssetType = "Stock"
	Crypto AssetType = "Crypto"
)

var ErrUnknownAssetType = errors.New("unknown asset type")

// ParseAssetType accepts "stock" or "crypto" in any case.
func ParseAssetType(s string) (AssetType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stock":
		return Stock, nil
	case "crypto":
		return Crypto, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAssetType, s)
}

func (t AssetType) String() string { return string(t) }

func (t AssetType) MarshalText() ([]byte, error) { return []byte(t), nil }

func (t *AssetType) UnmarshalText(b []byte) error {
	v, err := ParseAssetType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Point is one day of closing-price history.
type Point struct {
	Date  string          `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// Quote is the unified display record for either asset class.
// Change is null only when a crypto upstream omits the 24h percentage.
type Quote struct {
	Type      AssetType           `json:"type"`
	Symbol    string              `json:"symbol"`
	Name      string              `json:"name"`
	Price     decimal.Decimal     `json:"price"`
	Change    decimal.NullDecimal `json:"change"`
	MarketCap string              `json:"market_cap"`
	Chart     []Point             `json:"-"`
}

// Labels returns the chart dates, parallel to Prices.
func (q *Quote) Labels() []string {
	out := make([]string, 0, len(q.Chart))
	for _, p := range q.Chart {
		out = append(out, p.Date)
	}
	return out
}

// Prices returns the chart closes, parallel to Labels.
func (q *Quote) Prices() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(q.Chart))
	for _, p := range q.Chart {
		out = append(out, p.Close)
	}
	return out
}
