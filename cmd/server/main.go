package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tickerwatch/internal/config"
	"tickerwatch/internal/httpx"
	"tickerwatch/internal/logging"
	"tickerwatch/internal/lookup"
	"tickerwatch/internal/provider/coingecko"
	"tickerwatch/internal/provider/equities"
	"tickerwatch/internal/session"
	"tickerwatch/internal/watchlist"
	"tickerwatch/internal/watchlist/postgres"
)

func init() {
	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	log := logging.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, cleanup, err := build(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("startup failed")
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           a.handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      a.timeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// build wires every dependency named by cfg. cleanup releases the store and
// Redis connections.
func build(ctx context.Context, cfg config.Config, log *logrus.Logger) (*app, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	hc := httpx.New(time.Duration(cfg.Upstream.TimeoutSec) * time.Second)
	if cfg.Upstream.UserAgent != "" {
		hc.UserAgent = cfg.Upstream.UserAgent
	}

	eq, err := equities.New(cfg.Equities, hc, log)
	if err != nil {
		return nil, cleanup, err
	}
	crypto, err := coingecko.NewClient(
		cfg.CoinGecko.APIKey,
		coingecko.WithBaseURL(cfg.CoinGecko.URL),
		coingecko.WithHTTPClient(hc),
	)
	if err != nil {
		return nil, cleanup, fmt.Errorf("coingecko client: %w", err)
	}

	checks := map[string]pinger{}

	var store watchlist.Store
	switch cfg.Storage.Driver {
	case "postgres":
		pg, err := postgres.Open(ctx, cfg.Storage.DSN, postgres.Options{
			MaxOpenConns:    cfg.Storage.MaxOpenConns,
			MaxIdleConns:    cfg.Storage.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.Storage.ConnMaxLifetimeSec) * time.Second,
		})
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, pg.Close)
		if cfg.Storage.InitSchema {
			if err := pg.InitSchema(ctx); err != nil {
				return nil, cleanup, err
			}
		}
		store = pg
	default:
		log.Warn("using in-memory watchlist store; entries are lost on restart")
		store = watchlist.NewMemoryStore()
	}
	checks["storage"] = store

	var (
		identity session.Resolver
		notices  session.Notices
	)
	switch cfg.Session.Mode {
	case "redis":
		rc, err := session.Dial(ctx, cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.RedisDB)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, rc.Close)
		rr := session.NewRedisResolver(rc, cfg.Session.Cookie)
		identity = rr
		notices = session.NewRedisNotices(rc, time.Duration(cfg.Session.NoticeTTLSec)*time.Second)
		checks["session"] = rr
	default:
		identity = session.HeaderResolver{Header: cfg.Session.Header}
		notices = session.NewMemoryNotices()
	}

	log.WithFields(logrus.Fields{
		"equities": eq.Name(),
		"crypto":   crypto.Name(),
		"storage":  cfg.Storage.Driver,
		"session":  cfg.Session.Mode,
	}).Info("dependencies ready")

	timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &app{
		lookup:    lookup.NewService(eq, crypto, log),
		watchlist: watchlist.NewService(store, notices, log),
		identity:  identity,
		notices:   notices,
		checks:    checks,
		timeout:   timeout,
		log:       log,
	}, cleanup, nil
}
