package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"tickerwatch/internal/provider"
)

// HTTPClient describes an HTTP client; *httpx.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Name     string
	QuoteURL string
	ChartURL string
	// Range and Interval select the history window, "1mo" of "1d" bars by default.
	Range    string
	Interval string
	Headers  map[string]string
	// Log receives rejected response bodies at debug level.
	Log logrus.FieldLogger
}

// Provider reads quotes and daily history from Yahoo Finance.
type Provider struct {
	cfg    Config
	client HTTPClient
}

func New(cfg Config, hc HTTPClient) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Yahoo"
	}
	if cfg.QuoteURL == "" {
		cfg.QuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"
	}
	if cfg.ChartURL == "" {
		cfg.ChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if cfg.Range == "" {
		cfg.Range = "1mo"
	}
	if cfg.Interval == "" {
		cfg.Interval = "1d"
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	if cfg.Log == nil {
		cfg.Log = logrus.StandardLogger()
	}
	return &Provider{cfg: cfg, client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type quoteResult struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  *string  `json:"shortName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	MarketCap                  *float64 `json:"marketCap"`
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []quoteResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

// Quote returns the profile/quote fields for one ticker. An empty result
// set or a 404 is provider.ErrNoSuchSymbol.
func (p *Provider) Quote(ctx context.Context, symbol string) (provider.EquityQuote, error) {
	u, err := url.Parse(p.cfg.QuoteURL)
	if err != nil {
		return provider.EquityQuote{}, fmt.Errorf("parsing quote url: %w", err)
	}
	q := u.Query()
	q.Set("symbols", symbol)
	u.RawQuery = q.Encode()

	var body quoteResponse
	if err := p.getJSON(ctx, "quote", u.String(), &body); err != nil {
		return provider.EquityQuote{}, err
	}
	if e := body.QuoteResponse.Error; e != nil {
		return provider.EquityQuote{}, fmt.Errorf("yahoo quote error: code=%s msg=%q", e.Code, e.Description)
	}
	for _, r := range body.QuoteResponse.Result {
		if strings.EqualFold(r.Symbol, symbol) {
			return provider.EquityQuote{
				Symbol:                     r.Symbol,
				ShortName:                  r.ShortName,
				RegularMarketPrice:         r.RegularMarketPrice,
				RegularMarketChangePercent: r.RegularMarketChangePercent,
				MarketCap:                  r.MarketCap,
			}, nil
		}
	}
	return provider.EquityQuote{}, fmt.Errorf("yahoo quote %q: %w", symbol, provider.ErrNoSuchSymbol)
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Timezone  string `json:"timezone"`
				GMTOffset int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

// History returns the daily closes for the configured range. Each bar's
// time is in the exchange's fixed offset.
func (p *Provider) History(ctx context.Context, symbol string) ([]provider.Bar, error) {
	u, err := url.Parse(strings.TrimSuffix(p.cfg.ChartURL, "/") + "/" + url.PathEscape(symbol))
	if err != nil {
		return nil, fmt.Errorf("parsing chart url: %w", err)
	}
	q := u.Query()
	q.Set("range", p.cfg.Range)
	q.Set("interval", p.cfg.Interval)
	u.RawQuery = q.Encode()

	var body chartResponse
	if err := p.getJSON(ctx, "chart", u.String(), &body); err != nil {
		return nil, err
	}
	if e := body.Chart.Error; e != nil {
		return nil, fmt.Errorf("yahoo chart error: code=%s msg=%q", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo chart %q: %w", symbol, provider.ErrNoSuchSymbol)
	}

	res := body.Chart.Result[0]
	var closes []*float64
	if len(res.Indicators.Quote) > 0 {
		closes = res.Indicators.Quote[0].Close
	}
	if len(closes) != len(res.Timestamp) {
		return nil, fmt.Errorf("yahoo chart %q: %d timestamps but %d closes", symbol, len(res.Timestamp), len(closes))
	}

	loc := time.FixedZone(res.Meta.Timezone, res.Meta.GMTOffset)
	out := make([]provider.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		out = append(out, provider.Bar{Time: time.Unix(ts, 0).In(loc), Close: closes[i]})
	}
	return out, nil
}

// getJSON decodes a 2xx body into into. Errors name op and the status code
// only; the upstream URL and body go to the debug log.
func (p *Provider) getJSON(ctx context.Context, op, u string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range p.cfg.Headers {
		req.Header.Set(k, v)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("yahoo %s: status 404: %w", op, provider.ErrNoSuchSymbol)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		p.cfg.Log.WithFields(logrus.Fields{"url": u, "status": resp.StatusCode, "body": string(b)}).Debug("yahoo rejected request")
		return fmt.Errorf("yahoo %s: upstream status %d", op, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
