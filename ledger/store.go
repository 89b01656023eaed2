package ledger

import (
	"context"
	"errors"

	"github.com/rustyeddy/slicingpie/pie"
)

var (
	ErrEntryNotFound   = errors.New("entry not found")
	ErrFounderNotFound = errors.New("founder not found")
)

// Store persists founders, live category configuration and ledger
// entries. Entries are append-only: they can be deleted but never
// updated, so their snapshots stay as they were written.
//
// List methods return records in insertion order.
type Store interface {
	SaveFounder(ctx context.Context, f pie.Founder) error
	GetFounder(ctx context.Context, id string) (pie.Founder, error)
	ListFounders(ctx context.Context) ([]pie.Founder, error)

	SaveCategory(ctx context.Context, c pie.Category) error
	ListCategories(ctx context.Context) ([]pie.Category, error)

	SaveEntry(ctx context.Context, e pie.LedgerEntry) error
	// SaveEntries stores all of entries or, on any error, none of them.
	SaveEntries(ctx context.Context, entries []pie.LedgerEntry) error
	GetEntry(ctx context.Context, id string) (pie.LedgerEntry, error)
	DeleteEntry(ctx context.Context, id string) error
	ListEntries(ctx context.Context) ([]pie.LedgerEntry, error)
	ListEntriesByFounder(ctx context.Context, founderID string) ([]pie.LedgerEntry, error)

	Close() error
}
