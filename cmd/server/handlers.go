package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"tickerwatch/internal/lookup"
	"tickerwatch/internal/market"
	"tickerwatch/internal/session"
	"tickerwatch/internal/watchlist"
)

type resolver interface {
	Resolve(ctx context.Context, query string) (*market.Quote, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

type app struct {
	lookup    resolver
	watchlist *watchlist.Service
	identity  session.Resolver
	notices   session.Notices
	checks    map[string]pinger
	timeout   time.Duration
	log       logrus.FieldLogger
}

type queryResponse struct {
	Data        *market.Quote     `json:"data"`
	Error       *string           `json:"error"`
	ChartLabels []string          `json:"chart_labels"`
	ChartPrices []decimal.Decimal `json:"chart_prices"`
	Notices     []string          `json:"notices"`
}

type watchlistResponse struct {
	Items   []watchlist.Entry `json:"items"`
	Notices []string          `json:"notices"`
}

func (a *app) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", a.handleHealth)
	mux.HandleFunc("/watchlist", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			a.handleListWatchlist(w, r)
		case http.MethodPost:
			a.handleUpdateWatchlist(w, r)
		case http.MethodDelete:
			a.handlePurgeWatchlist(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		a.handleQuery(w, r)
	})
	return mux
}

// handleQuery always answers 200; lookup failures are reported in the body
// next to an empty result.
func (a *app) handleQuery(w http.ResponseWriter, r *http.Request) {
	resp := queryResponse{ChartLabels: []string{}, ChartPrices: []decimal.Decimal{}}

	if owner, err := a.identity.Identity(r); err == nil {
		resp.Notices = a.drain(r.Context(), owner)
	}
	if resp.Notices == nil {
		resp.Notices = []string{}
	}

	if q := strings.TrimSpace(r.URL.Query().Get("query")); q != "" {
		ctx, cancel := context.WithTimeout(r.Context(), a.timeout)
		defer cancel()

		quote, err := a.lookup.Resolve(ctx, q)
		if err != nil {
			msg := lookup.Message(err)
			resp.Error = &msg
		} else {
			resp.Data = quote
			resp.ChartLabels = quote.Labels()
			resp.ChartPrices = quote.Prices()
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *app) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	items, err := a.watchlist.List(r.Context(), owner)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, watchlistResponse{Items: items, Notices: a.drain(r.Context(), owner)})
}

// handleUpdateWatchlist takes a form post and redirects home. Unknown actions
// redirect without touching the list.
func (a *app) handleUpdateWatchlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	symbol, typ := r.PostForm.Get("symbol"), r.PostForm.Get("type")

	var err error
	switch action := r.PostForm.Get("action"); action {
	case "add":
		_, err = a.watchlist.Add(r.Context(), owner, symbol, typ)
	case "remove":
		err = a.watchlist.Remove(r.Context(), owner, symbol, typ)
	default:
		a.log.WithField("action", action).Debug("ignoring unknown watchlist action")
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (a *app) handlePurgeWatchlist(w http.ResponseWriter, r *http.Request) {
	owner, ok := a.requireIdentity(w, r)
	if !ok {
		return
	}
	if err := a.watchlist.Purge(r.Context(), owner); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *app) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(a.checks))
	for name, p := range a.checks {
		if err := p.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}
	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

func (a *app) requireIdentity(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, err := a.identity.Identity(r)
	switch {
	case errors.Is(err, session.ErrNoIdentity):
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return "", false
	case err != nil:
		a.fail(w, r, err)
		return "", false
	}
	return owner, true
}

func (a *app) drain(ctx context.Context, owner string) []string {
	msgs, err := a.notices.Drain(ctx, owner)
	if err != nil {
		a.log.WithError(err).WithField("owner", owner).Warn("failed to read notices")
		return []string{}
	}
	return msgs
}

// fail maps validation errors to 400 and everything else to a generic 500.
func (a *app) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, watchlist.ErrInvalid) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	a.log.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("request failed")
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
