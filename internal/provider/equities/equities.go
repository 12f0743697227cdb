// Package equities selects the configured stock-quote backend.
package equities

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"tickerwatch/internal/config"
	"tickerwatch/internal/httpx"
	"tickerwatch/internal/provider"
	"tickerwatch/internal/provider/financego"
	"tickerwatch/internal/provider/yahoo"
)

// New builds the backend named by cfg.Backend. Both backends share hc, so the
// upstream timeout applies to every call.
func New(cfg config.Equities, hc *httpx.Client, log logrus.FieldLogger) (provider.Equities, error) {
	switch cfg.Backend {
	case "yahoo":
		return yahoo.New(yahoo.Config{
			QuoteURL: cfg.QuoteURL,
			ChartURL: cfg.ChartURL,
			Range:    cfg.Range,
			Interval: cfg.Interval,
			Log:      log,
		}, hc), nil
	case "financego":
		return financego.New(financego.Config{HTTPClient: hc.HTTP}), nil
	}
	return nil, fmt.Errorf("unknown equities backend %q", cfg.Backend)
}
