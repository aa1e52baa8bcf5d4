package domain

import (
	"slices"
	"strings"
)

// DateLayout is the calendar date format used for every stored purchase date.
const DateLayout = "2006-01-02"

// Category is the grocery aisle an item belongs to.
type Category string

// Available categories.
const (
	CategoryDairy     Category = "dairy"
	CategoryProduce   Category = "produce"
	CategoryMeat      Category = "meat"
	CategoryBakery    Category = "bakery"
	CategoryPantry    Category = "pantry"
	CategoryFrozen    Category = "frozen"
	CategoryBeverages Category = "beverages"
	CategorySnacks    Category = "snacks"
	CategoryHousehold Category = "household"
	CategoryOther     Category = "other"
)

// Categories lists every category in display order.
func Categories() []Category {
	return []Category{
		CategoryDairy,
		CategoryProduce,
		CategoryMeat,
		CategoryBakery,
		CategoryPantry,
		CategoryFrozen,
		CategoryBeverages,
		CategorySnacks,
		CategoryHousehold,
		CategoryOther,
	}
}

// IsValid returns true if the category is one of the fixed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryDairy, CategoryProduce, CategoryMeat, CategoryBakery, CategoryPantry,
		CategoryFrozen, CategoryBeverages, CategorySnacks, CategoryHousehold, CategoryOther:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (c Category) String() string {
	return string(c)
}

// ParseCategory maps free text to a Category.
// Matching ignores case and surrounding whitespace; anything unknown is CategoryOther.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.IsValid() {
		return c
	}
	return CategoryOther
}

// Purchase is one buying event. It is immutable once created.
type Purchase struct {
	// OrderID is the marketplace order identifier. May be empty.
	OrderID string `json:"order_id"`

	// Date is the calendar date in YYYY-MM-DD form.
	Date string `json:"date"`

	// Quantity is the number of units bought, at least 1.
	Quantity int `json:"quantity"`

	// PricePerUnit is the non-negative unit price.
	PricePerUnit float64 `json:"price_per_unit"`

	// RawTitle is the product description exactly as exported.
	RawTitle string `json:"raw_title"`
}

// DedupKey returns the ledger key for this purchase given its external identifier.
func (p Purchase) DedupKey(externalID string) string {
	return DedupKey(p.OrderID, externalID, p.RawTitle)
}

// Item is a canonical grocery product and its purchase history.
type Item struct {
	// ID is the unique generated identifier.
	ID string `json:"id"`

	// CanonicalName is the short common name (e.g. "Whole Milk").
	CanonicalName string `json:"canonical_name"`

	// Category is the grocery aisle.
	Category Category `json:"category"`

	// Brand is optional.
	Brand string `json:"brand"`

	// UnitSize is an optional package size such as "1 gallon".
	UnitSize string `json:"unit_size"`

	// ExternalID is the optional marketplace identifier (ASIN).
	// Unique across the store when non-empty.
	ExternalID string `json:"external_id"`

	// Purchases are kept in insertion order.
	Purchases []Purchase `json:"purchases"`
}

// Clone returns a copy that shares no purchase storage with it.
func (it *Item) Clone() Item {
	c := *it
	c.Purchases = slices.Clone(it.Purchases)
	return c
}

// HasPurchaseTitled reports whether any purchase carries the given raw title, ignoring case.
func (it *Item) HasPurchaseTitled(title string) bool {
	for i := range it.Purchases {
		if strings.EqualFold(it.Purchases[i].RawTitle, title) {
			return true
		}
	}
	return false
}

// FindByExternalID returns the first item with the given external identifier.
// An empty identifier never matches.
func FindByExternalID(items []Item, externalID string) *Item {
	if externalID == "" {
		return nil
	}
	for i := range items {
		if items[i].ExternalID == externalID {
			return &items[i]
		}
	}
	return nil
}

// FindByIDPrefix returns the first item whose ID equals or starts with prefix.
// Ambiguous prefixes are not disambiguated.
func FindByIDPrefix(items []Item, prefix string) *Item {
	if prefix == "" {
		return nil
	}
	for i := range items {
		if strings.HasPrefix(items[i].ID, prefix) {
			return &items[i]
		}
	}
	return nil
}

// FindByPurchaseTitle returns the first item with a prior purchase of the same raw title.
func FindByPurchaseTitle(items []Item, title string) *Item {
	for i := range items {
		if items[i].HasPurchaseTitled(title) {
			return &items[i]
		}
	}
	return nil
}

// TitleInfo is the structured result of normalising a raw product title.
type TitleInfo struct {
	CanonicalName string
	Category      Category
	Brand         string
	UnitSize      string
}

// maxFallbackNameLen bounds the canonical name derived from a raw title.
const maxFallbackNameLen = 80

// FallbackTitleInfo is the safe result used when normalisation is unavailable or fails.
func FallbackTitleInfo(rawTitle string) TitleInfo {
	name := rawTitle
	if r := []rune(name); len(r) > maxFallbackNameLen {
		name = string(r[:maxFallbackNameLen])
	}
	return TitleInfo{
		CanonicalName: name,
		Category:      CategoryOther,
	}
}
