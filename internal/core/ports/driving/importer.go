package driving

import (
	"context"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// ImportService brings order exports into the item store.
type ImportService interface {
	// Import parses the file at path, appends new purchases to matching items,
	// creates items for unmatched purchases, and records the new dedup keys.
	// A file with no order rows yields a report with zero counts, not an error.
	// Returns domain.ErrAPIKeyRequired when title normalisation needs a key
	// and none is available.
	Import(ctx context.Context, path string, opts domain.ImportOptions) (*domain.ImportReport, error)
}
