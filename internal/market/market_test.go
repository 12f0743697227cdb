package market

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseAssetType(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]AssetType{
		"Stock":    Stock,
		"stock":    Stock,
		" CRYPTO ": Crypto,
		"crypto":   Crypto,
	} {
		got, err := ParseAssetType(in)
		require.NoErrorf(t, err, "input %q", in)
		require.Equal(t, want, got)
	}

	_, err := ParseAssetType("bond")
	require.ErrorIs(t, err, ErrUnknownAssetType)
	_, err = ParseAssetType("")
	require.ErrorIs(t, err, ErrUnknownAssetType)
}

func TestAssetType_JSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(struct {
		T AssetType `json:"t"`
	}{Crypto})
	require.NoError(t, err)
	require.JSONEq(t, `{"t":"Crypto"}`, string(b))

	var out struct {
		T AssetType `json:"t"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"t":"stock"}`), &out))
	require.Equal(t, Stock, out.T)
	require.Error(t, json.Unmarshal([]byte(`{"t":"etf"}`), &out))
}

func TestQuote_LabelsAndPrices(t *testing.T) {
	t.Parallel()

	q := &Quote{Chart: []Point{
		{Date: "2024-03-01", Close: decimal.RequireFromString("10.5")},
		{Date: "2024-03-02", Close: decimal.RequireFromString("11.25")},
	}}
	require.Equal(t, []string{"2024-03-01", "2024-03-02"}, q.Labels())
	prices := q.Prices()
	require.Len(t, prices, 2)
	require.True(t, prices[1].Equal(decimal.RequireFromString("11.25")))

	empty := &Quote{}
	require.Empty(t, empty.Labels())
	require.Empty(t, empty.Prices())
}
