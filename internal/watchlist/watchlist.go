// Package watchlist keeps each user's list of followed (symbol, asset type)
// pairs.
package watchlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tickerwatch/internal/market"
)

//go:generate mockgen -package=watchlistmock -destination=watchlistmock/watchlist.go -source=watchlist.go

// MaxSymbolLen bounds a stored symbol.
const MaxSymbolLen = 20

// ErrInvalid is returned for a blank owner, a blank or oversized symbol, or
// an unknown asset type.
var ErrInvalid = errors.New("invalid watchlist entry")

// Entry is one followed symbol. Entries are never updated in place.
type Entry struct {
	ID        uuid.UUID        `json:"id"`
	Owner     string           `json:"-"`
	Symbol    string           `json:"symbol"`
	Type      market.AssetType `json:"asset_type"`
	CreatedAt time.Time        `json:"created_at"`
}

// Store persists entries. (owner, symbol, type) is unique; Add returns the
// existing entry rather than creating a second one and Remove of an absent
// entry is not an error.
type Store interface {
	Add(ctx context.Context, owner, symbol string, typ market.AssetType) (Entry, error)
	Remove(ctx context.Context, owner, symbol string, typ market.AssetType) error
	List(ctx context.Context, owner string) ([]Entry, error)
	// Purge drops every entry of owner, used when the identity is deleted.
	Purge(ctx context.Context, owner string) error
	Ping(ctx context.Context) error
	Close() error
}

// Notifier delivers one-shot confirmation messages to a user.
type Notifier interface {
	Notify(ctx context.Context, owner, message string) error
}
