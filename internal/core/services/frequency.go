package services

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

const secondsPerDay = 24 * 60 * 60

// datedPurchase is a purchase whose date parsed cleanly.
type datedPurchase struct {
	date time.Time
	raw  string
}

// ComputeFrequency derives the buying cadence of one item.
//
// Purchases are ordered by date, ties keeping insertion order. Intervals are
// the positive day gaps between consecutive dated purchases; a purchase whose
// date does not parse is left out of the interval series but still counts
// toward the totals. today stands in for the last purchase date of an item
// with no purchases.
func ComputeFrequency(item *domain.Item, today time.Time) domain.ItemFrequency {
	freq := domain.ItemFrequency{
		ID:             item.ID,
		CanonicalName:  item.CanonicalName,
		Category:       item.Category,
		Brand:          item.Brand,
		UnitSize:       item.UnitSize,
		TotalPurchases: len(item.Purchases),
	}

	purchases := slices.Clone(item.Purchases)
	slices.SortStableFunc(purchases, func(a, b domain.Purchase) int {
		return cmp.Compare(a.Date, b.Date)
	})

	dated := make([]datedPurchase, 0, len(purchases))
	for _, p := range purchases {
		freq.TotalUnits += p.Quantity
		d, err := time.Parse(domain.DateLayout, p.Date)
		if err != nil {
			continue
		}
		dated = append(dated, datedPurchase{date: d, raw: p.Date})
	}

	switch {
	case len(dated) > 0:
		freq.LastPurchased = dated[len(dated)-1].raw
	case len(purchases) > 0:
		freq.LastPurchased = purchases[len(purchases)-1].Date
	default:
		freq.LastPurchased = domain.CalendarDate(today).Format(domain.DateLayout)
	}

	var sum float64
	var n int
	for i := 1; i < len(dated); i++ {
		gap := (dated[i].date.Unix() - dated[i-1].date.Unix()) / secondsPerDay
		if gap <= 0 {
			continue
		}
		sum += float64(gap)
		n++
	}
	if n == 0 {
		return freq
	}

	avg := sum / float64(n)
	freq.AvgIntervalDays = &avg

	last := dated[len(dated)-1].date
	freq.PredictedNext = last.AddDate(0, 0, int(math.RoundToEven(avg))).Format(domain.DateLayout)
	return freq
}

// ComputeAllFrequencies derives the cadence of every item with at least one
// purchase, most purchased first. Ties keep input order.
func ComputeAllFrequencies(items []domain.Item, today time.Time) []domain.ItemFrequency {
	freqs := make([]domain.ItemFrequency, 0, len(items))
	for i := range items {
		if len(items[i].Purchases) == 0 {
			continue
		}
		freqs = append(freqs, ComputeFrequency(&items[i], today))
	}
	slices.SortStableFunc(freqs, func(a, b domain.ItemFrequency) int {
		return cmp.Compare(b.TotalPurchases, a.TotalPurchases)
	})
	return freqs
}
