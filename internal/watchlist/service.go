package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"tickerwatch/internal/market"
)

// Service validates requests, applies them to a Store and confirms each
// change to the user through a Notifier.
type Service struct {
	store    Store
	notifier Notifier
	log      logrus.FieldLogger
}

// NewService wires a Service. notifier may be nil, in which case no
// confirmations are sent.
func NewService(store Store, notifier Notifier, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, notifier: notifier, log: log}
}

// Add follows symbol for owner. Adding an entry that already exists returns
// it unchanged and still confirms.
func (s *Service) Add(ctx context.Context, owner, symbol, assetType string) (Entry, error) {
	sym, typ, err := validate(owner, symbol, assetType)
	if err != nil {
		return Entry{}, err
	}
	e, err := s.store.Add(ctx, owner, sym, typ)
	if err != nil {
		return Entry{}, fmt.Errorf("add %s: %w", sym, err)
	}
	s.notify(ctx, owner, fmt.Sprintf("Added %s to your watchlist!", sym))
	return e, nil
}

// Remove unfollows symbol. Removing something not on the list is a no-op that
// is still confirmed.
func (s *Service) Remove(ctx context.Context, owner, symbol, assetType string) error {
	sym, typ, err := validate(owner, symbol, assetType)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, owner, sym, typ); err != nil {
		return fmt.Errorf("remove %s: %w", sym, err)
	}
	s.notify(ctx, owner, fmt.Sprintf("Removed %s from your watchlist!", sym))
	return nil
}

func (s *Service) List(ctx context.Context, owner string) ([]Entry, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("%w: empty owner", ErrInvalid)
	}
	out, err := s.store.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return out, nil
}

// Purge removes all of owner's entries.
func (s *Service) Purge(ctx context.Context, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return fmt.Errorf("%w: empty owner", ErrInvalid)
	}
	if err := s.store.Purge(ctx, owner); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	s.log.WithField("owner", owner).Info("watchlist purged")
	return nil
}

func (s *Service) notify(ctx context.Context, owner, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, owner, msg); err != nil {
		s.log.WithError(err).WithField("owner", owner).Warn("notice not delivered")
	}
}

func validate(owner, symbol, assetType string) (string, market.AssetType, error) {
	if strings.TrimSpace(owner) == "" {
		return "", "", fmt.Errorf("%w: empty owner", ErrInvalid)
	}
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", "", fmt.Errorf("%w: empty symbol", ErrInvalid)
	}
	if len(sym) > MaxSymbolLen {
		return "", "", fmt.Errorf("%w: symbol longer than %d characters", ErrInvalid, MaxSymbolLen)
	}
	typ, err := market.ParseAssetType(assetType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return sym, typ, nil
}
