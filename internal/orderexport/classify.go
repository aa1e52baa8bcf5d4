package orderexport

import "strings"

var (
	groceryCategoryHints = []string{"grocery", "gourmet", "fresh"}
	grocerySellerHints   = []string{"whole foods", "amazon fresh"}
	groceryWebsiteHints  = []string{"amazonfresh", "primenow", "amazon go"}
)

// IsGroceryRow reports whether row looks like a grocery or fresh-food purchase.
// Category is checked first, then seller, then website (Privacy Central
// exports mark Fresh and Whole Foods orders only through the website column).
// Missing columns read as empty.
func IsGroceryRow(row Row, cols Columns) bool {
	category := strings.ToLower(cols.Value(row, FieldCategory))
	seller := strings.ToLower(cols.Value(row, FieldSeller))
	website := strings.ToLower(cols.Value(row, FieldWebsite))

	return containsAny(category, groceryCategoryHints) ||
		containsAny(seller, grocerySellerHints) ||
		containsAny(website, groceryWebsiteHints)
}

func containsAny(s string, hints []string) bool {
	for _, h := range hints {
		if strings.Contains(s, h) {
			return true
		}
	}
	return false
}
