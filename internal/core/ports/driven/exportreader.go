package driven

import "github.com/custodia-labs/grocer-cli/internal/core/domain"

// ExportReader parses an order export (CSV, or ZIP of CSVs) against a ledger.
// Rows whose dedup key is in the ledger are skipped and counted; the ledger
// itself is never modified.
type ExportReader interface {
	ReadFile(path string, ledger domain.Ledger, groceryOnly bool) (*domain.ParseResult, error)
}
