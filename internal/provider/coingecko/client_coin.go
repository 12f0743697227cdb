package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"

	"tickerwatch/internal/provider"
)

// Coin retrieves asset metadata and USD market data for a coin id.
// Any non-200 status is reported as provider.ErrNoSuchSymbol.
func (c *Client) Coin(ctx context.Context, id string) (provider.Coin, error) {
	query := maps.Clone(c.query)
	query.Set("localization", "false")
	query.Set("tickers", "false")
	query.Set("community_data", "false")
	query.Set("developer_data", "false")

	u := fmt.Sprintf("%s/coins/%s?%s", c.baseURL, url.PathEscape(id), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return provider.Coin{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return provider.Coin{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return provider.Coin{}, fmt.Errorf("coin %q: status %d: %w", id, res.StatusCode, provider.ErrNoSuchSymbol)
	}

	var body map[string]any
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return provider.Coin{}, fmt.Errorf("decoding coin response: %w", err)
	}

	// {
	//   "id": "bitcoin",
	//   "symbol": "btc",
	//   "name": "Bitcoin",
	//   "market_data": {
	//     "current_price": {"usd": 65000},
	//     "price_change_percentage_24h": 3.2,
	//     "market_cap": {"usd": 1280000000000}
	//   }
	// }
	symbol, err := requireValue[string](body, "symbol")
	if err != nil {
		return provider.Coin{}, err
	}
	name, err := requireValue[string](body, "name")
	if err != nil {
		return provider.Coin{}, err
	}
	marketData, err := requireValue[map[string]any](body, "market_data")
	if err != nil {
		return provider.Coin{}, err
	}
	currentPrice, err := requireValue[map[string]any](*marketData, "current_price")
	if err != nil {
		return provider.Coin{}, err
	}
	usd, err := requireValue[float64](*currentPrice, "usd")
	if err != nil {
		return provider.Coin{}, fmt.Errorf("current_price: %w", err)
	}

	change, err := parseNullableValue[float64](*marketData, "price_change_percentage_24h")
	if err != nil {
		return provider.Coin{}, fmt.Errorf("decoding price_change_percentage_24h: %w", err)
	}

	var marketCap *float64
	caps, err := parseNullableValue[map[string]any](*marketData, "market_cap")
	if err != nil {
		return provider.Coin{}, fmt.Errorf("decoding market_cap: %w", err)
	}
	if caps != nil {
		if marketCap, err = parseNullableValue[float64](*caps, "usd"); err != nil {
			return provider.Coin{}, fmt.Errorf("decoding market_cap: %w", err)
		}
	}

	return provider.Coin{
		ID:                       id,
		Symbol:                   *symbol,
		Name:                     *name,
		CurrentPriceUSD:          *usd,
		PriceChangePercentage24h: change,
		MarketCapUSD:             marketCap,
	}, nil
}

// parseNullableValue is a helper function to parse a nullable value.
func parseNullableValue[T any](data map[string]any, key string) (*T, error) {
	v, ok := data[key]
	if !ok || v == nil {
		return nil, nil
	}
	if v, ok := v.(T); ok {
		return &v, nil
	}
	return nil, fmt.Errorf("unexpected type: %T", v)
}

// requireValue is parseNullableValue for fields the response must carry.
func requireValue[T any](data map[string]any, key string) (*T, error) {
	v, err := parseNullableValue[T](data, key)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	if v == nil {
		return nil, fmt.Errorf("decoding %s: missing field", key)
	}
	return v, nil
}
