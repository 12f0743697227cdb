package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tickerwatch/internal/config"
	"tickerwatch/internal/httpx"
	"tickerwatch/internal/logging"
	"tickerwatch/internal/lookup"
	"tickerwatch/internal/market"
	"tickerwatch/internal/provider/coingecko"
	"tickerwatch/internal/provider/equities"
)

type resolver interface {
	Resolve(ctx context.Context, query string) (*market.Quote, error)
}

type result struct {
	Query       string            `json:"query"`
	Data        *market.Quote     `json:"data"`
	Error       *string           `json:"error"`
	ChartLabels []string          `json:"chart_labels"`
	ChartPrices []decimal.Decimal `json:"chart_prices"`
}

func main() {
	var (
		queriesCSV  string
		backend     string
		configPath  string
		timeout     int
		concurrency int
	)
	flag.StringVar(&queriesCSV, "queries", getenv("QUERIES", "AAPL,bitcoin"), "comma-separated tickers or coin ids")
	flag.StringVar(&backend, "backend", "", "equities backend override (yahoo|financego)")
	flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config file (optional)")
	flag.IntVar(&timeout, "timeout", 30, "overall timeout seconds")
	flag.IntVar(&concurrency, "concurrency", 4, "queries resolved in parallel")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	if backend != "" {
		cfg.Equities.Backend = backend
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("config: %v", err)
		}
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	decimal.MarshalJSONWithoutQuotes = true

	hc := httpx.New(time.Duration(cfg.Upstream.TimeoutSec) * time.Second)
	eq, err := equities.New(cfg.Equities, hc, log)
	if err != nil {
		log.Fatal(err)
	}
	crypto, err := coingecko.NewClient(cfg.CoinGecko.APIKey, coingecko.WithBaseURL(cfg.CoinGecko.URL), coingecko.WithHTTPClient(hc))
	if err != nil {
		log.Fatalf("coingecko client: %v", err)
	}

	queries := splitCSV(queriesCSV)
	if len(queries) == 0 {
		log.Fatal("no queries provided")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	svc := lookup.NewService(eq, crypto, log)
	if err := run(ctx, svc, queries, concurrency, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run resolves every query and writes the results as one JSON array in input
// order. A failed lookup is reported in its row, not returned.
func run(ctx context.Context, svc resolver, queries []string, concurrency int, w io.Writer) error {
	out := make([]result, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, q := range queries {
		g.Go(func() error {
			r := result{Query: q, ChartLabels: []string{}, ChartPrices: []decimal.Decimal{}}
			quote, err := svc.Resolve(gctx, q)
			if err != nil {
				msg := lookup.Message(err)
				r.Error = &msg
			} else {
				r.Data, r.ChartLabels, r.ChartPrices = quote, quote.Labels(), quote.Prices()
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
