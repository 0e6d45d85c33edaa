// Package journal persists ledger entries. The analytics packages never
// touch a Store; callers list a snapshot and hand it over.
package journal

import (
	"context"
	"errors"

	"github.com/rustyeddy/sltp/ledger"
)

var (
	ErrNotFound         = errors.New("entry not found")
	ErrNotAuthenticated = errors.New("remote journal has no user configured")
)

// Store is a ledger entry store. Listings are ordered by date, then by
// insertion.
type Store interface {
	ListEntries(ctx context.Context) ([]ledger.Entry, error)
	// ListEntriesBetween returns entries dated within [from, to).
	ListEntriesBetween(ctx context.Context, from, to string) ([]ledger.Entry, error)
	GetEntry(ctx context.Context, id string) (ledger.Entry, error)
	// AddEntry validates and stores e, assigning an ID when e has none.
	AddEntry(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
	Close() error
}

// Syncer uploads entries that only exist locally. It returns how many
// entries were sent.
type Syncer interface {
	Sync(ctx context.Context, local []ledger.Entry) (int, error)
}
