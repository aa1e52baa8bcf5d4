package domain

import (
	"strings"
	"time"
)

// ItemFrequency is a read-only projection of how often an item is bought.
// It is derived on read and never persisted.
type ItemFrequency struct {
	ID            string   `json:"id"`
	CanonicalName string   `json:"canonical_name"`
	Category      Category `json:"category"`
	Brand         string   `json:"brand"`
	UnitSize      string   `json:"unit_size"`

	// TotalPurchases is the number of purchase events.
	TotalPurchases int `json:"total_purchases"`

	// TotalUnits is the sum of quantities across all purchases.
	TotalUnits int `json:"total_units"`

	// AvgIntervalDays is nil when there is no usable interval.
	AvgIntervalDays *float64 `json:"avg_interval_days"`

	// LastPurchased is the date of the chronologically last purchase.
	LastPurchased string `json:"last_purchased"`

	// PredictedNext is empty when AvgIntervalDays is nil.
	PredictedNext string `json:"predicted_next,omitempty"`
}

// HasPrediction reports whether a next purchase date could be estimated.
func (f ItemFrequency) HasPrediction() bool {
	return f.PredictedNext != ""
}

// IsOverdue reports whether the predicted date lies strictly before today.
// Unparseable predictions are never overdue.
func (f ItemFrequency) IsOverdue(today time.Time) bool {
	if !f.HasPrediction() {
		return false
	}
	next, err := time.Parse(DateLayout, f.PredictedNext)
	if err != nil {
		return false
	}
	return next.Before(CalendarDate(today))
}

// CalendarDate drops the time of day, keeping the date as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortOrder selects how frequency listings are ordered.
type SortOrder string

// Available sort orders.
const (
	// SortByFrequency orders by purchase count, most bought first.
	SortByFrequency SortOrder = "frequency"

	// SortByName orders alphabetically, ignoring case.
	SortByName SortOrder = "name"

	// SortByLast orders by last purchase, most recent first.
	SortByLast SortOrder = "last"

	// SortByNext orders by predicted next purchase, soonest first; unknown last.
	SortByNext SortOrder = "next"
)

// SortOrders lists the accepted sort orders.
func SortOrders() []SortOrder {
	return []SortOrder{SortByFrequency, SortByName, SortByLast, SortByNext}
}

// IsValid returns true if the sort order is recognised.
func (s SortOrder) IsValid() bool {
	switch s {
	case SortByFrequency, SortByName, SortByLast, SortByNext:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s SortOrder) String() string {
	return string(s)
}

// ListOptions filters and orders frequency listings.
type ListOptions struct {
	// Category restricts results to one category, ignoring case. Empty means all.
	Category string

	// Sort is the ordering. Empty means SortByFrequency.
	Sort SortOrder

	// Limit caps the number of results. Zero means no limit.
	Limit int
}

// MatchesCategory reports whether f belongs to the requested category.
func (o ListOptions) MatchesCategory(f ItemFrequency) bool {
	return o.Category == "" || strings.EqualFold(string(f.Category), o.Category)
}

// CategoryCount is the number of items in one category.
type CategoryCount struct {
	Category Category `json:"category"`
	Items    int      `json:"items"`
}

// Stats summarises the whole purchase history.
type Stats struct {
	// TotalItems is the number of items with at least one purchase.
	TotalItems int `json:"total_items"`

	// Categories holds per-category item counts, sorted by category name.
	Categories []CategoryCount `json:"categories"`

	// Top holds the most purchased items, at most ten.
	Top []ItemFrequency `json:"top"`

	// Overdue holds items whose predicted date has passed, soonest first.
	Overdue []ItemFrequency `json:"overdue"`
}

// ItemDetail pairs an item with its frequency projection.
type ItemDetail struct {
	Item      Item          `json:"item"`
	Frequency ItemFrequency `json:"frequency"`
}
