package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strconv"

	"tickerwatch/internal/provider"
)

type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}

// MarketChart retrieves the USD price series for a coin over the trailing days.
// Any non-200 status is reported as provider.ErrNoSuchSymbol.
func (c *Client) MarketChart(ctx context.Context, id string, days int) (provider.MarketChart, error) {
	query := maps.Clone(c.query)
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))

	u := fmt.Sprintf("%s/coins/%s/market_chart?%s", c.baseURL, url.PathEscape(id), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return provider.MarketChart{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return provider.MarketChart{}, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return provider.MarketChart{}, fmt.Errorf("market chart for %q: status %d: %w", id, res.StatusCode, provider.ErrNoSuchSymbol)
	}

	var body marketChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return provider.MarketChart{}, fmt.Errorf("decoding market chart response: %w", err)
	}

	out := provider.MarketChart{Prices: make([]provider.PricePoint, 0, len(body.Prices))}
	for i, p := range body.Prices {
		// [ 1711929600000, 71246.95 ]
		if len(p) < 2 {
			return provider.MarketChart{}, fmt.Errorf("decoding market chart: point %d has %d values", i, len(p))
		}
		out.Prices = append(out.Prices, provider.PricePoint{
			TimestampMS: int64(p[0]),
			Price:       p[1],
		})
	}
	return out, nil
}
