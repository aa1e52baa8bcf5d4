package driven

import (
	"context"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// ItemStore persists items together with their purchase histories.
type ItemStore interface {
	// List returns every item in insertion order.
	List(ctx context.Context) ([]domain.Item, error)

	// SaveAll replaces the stored items with the given sequence.
	SaveAll(ctx context.Context, items []domain.Item) error

	// FindByExternalID returns the item carrying the marketplace identifier.
	// Returns domain.ErrNotFound when no item matches or the identifier is empty.
	FindByExternalID(ctx context.Context, externalID string) (*domain.Item, error)

	// FindByIDPrefix returns the first item whose id equals or starts with prefix.
	// Returns domain.ErrNotFound when no item matches.
	FindByIDPrefix(ctx context.Context, prefix string) (*domain.Item, error)
}

// LedgerStore persists the set of dedup keys already imported.
type LedgerStore interface {
	// Load returns the stored ledger. A missing ledger loads as empty.
	Load(ctx context.Context) (domain.Ledger, error)

	// Save replaces the stored ledger.
	Save(ctx context.Context, ledger domain.Ledger) error
}
