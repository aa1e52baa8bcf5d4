package orderexport

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// dateLayouts are tried in order; the first that parses wins.
// Numeric month and day accept one or two digits.
var dateLayouts = []string{
	"2006-1-2",        // ISO YYYY-MM-DD
	"1/2/2006",        // MM/DD/YYYY
	"2/1/2006",        // DD/MM/YYYY
	"2006/1/2",        // YYYY/MM/DD
	"January 2, 2006", // Month DD, YYYY
	"Jan 2, 2006",     // Mon DD, YYYY
	"1/2/06",          // MM/DD/YY
}

// currencySymbols may prefix a price.
var currencySymbols = []string{"$", "£", "€"}

// ParseDate converts an export date to YYYY-MM-DD.
// Anything from the first 'T' on is treated as a time of day and dropped.
// Unparseable input yields today's date.
func ParseDate(raw string, today time.Time) string {
	s := strings.TrimSpace(raw)
	if before, _, found := strings.Cut(s, "T"); found {
		s = before
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return today.Format(domain.DateLayout)
}

// ParsePrice converts an export price to a unit price.
// One leading currency symbol and all thousands separators are removed.
// Unparseable, non-finite or negative input yields 0.
func ParsePrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	for _, sym := range currencySymbols {
		if rest, ok := strings.CutPrefix(s, sym); ok {
			s = rest
			break
		}
	}
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseQuantity converts an export quantity to a unit count.
// Unparseable input and values below 1 yield 1.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
