package domain

// ImportedPurchase is a purchase read from an export, paired with its
// external identifier (possibly empty).
type ImportedPurchase struct {
	ExternalID string
	Purchase   Purchase
}

// DedupKey returns the ledger key of this row.
func (p ImportedPurchase) DedupKey() string {
	return p.Purchase.DedupKey(p.ExternalID)
}

// ParseResult is the outcome of reading one export file.
type ParseResult struct {
	// Purchases are the new rows, in file order.
	Purchases []ImportedPurchase

	// Skipped counts rows whose dedup key is already in the ledger.
	Skipped int

	// Duplicates counts rows repeating a key accepted earlier in the same file.
	Duplicates int

	// Total counts rows examined: new, skipped and duplicate.
	Total int
}

// ImportOptions configures one import run.
type ImportOptions struct {
	// GroceryOnly keeps only rows the classifier accepts.
	GroceryOnly bool

	// Offline keeps raw titles instead of calling the LLM.
	Offline bool

	// APIKey overrides the configured LLM key when non-empty.
	APIKey string
}

// ImportReport summarises one import run.
type ImportReport struct {
	// Source is the file that was imported.
	Source string `json:"source"`

	// Total counts rows examined (new, skipped and duplicate).
	Total int `json:"total"`

	// NewRows counts rows not seen before.
	NewRows int `json:"new_rows"`

	// Skipped counts rows already present in the ledger.
	Skipped int `json:"skipped"`

	// Duplicates counts rows repeated within the imported file.
	Duplicates int `json:"duplicates"`

	// Added counts items created by this run.
	Added int `json:"added"`

	// Updated counts purchases appended to existing items.
	Updated int `json:"updated"`

	// Normalised counts title normalisation calls made.
	Normalised int `json:"normalised"`
}

// Empty reports whether the file held no order rows at all.
func (r ImportReport) Empty() bool {
	return r.Total == 0
}
