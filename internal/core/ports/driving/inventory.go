package driving

import (
	"context"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// InventoryService answers questions about stored items and their buying cadence.
type InventoryService interface {
	// List returns the frequency projection of every purchased item.
	List(ctx context.Context, opts domain.ListOptions) ([]domain.ItemFrequency, error)

	// Stats summarises categories, top items and overdue items.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Show returns the first item whose id starts with idPrefix.
	// Returns domain.ErrNotFound when nothing matches.
	Show(ctx context.Context, idPrefix string) (*domain.ItemDetail, error)
}
