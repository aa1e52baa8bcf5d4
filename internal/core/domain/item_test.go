package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"dairy", CategoryDairy},
		{"  Produce ", CategoryProduce},
		{"BEVERAGES", CategoryBeverages},
		{"household", CategoryHousehold},
		{"electronics", CategoryOther},
		{"", CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCategory(tt.input))
		})
	}
}

func TestCategories_AllValid(t *testing.T) {
	cats := Categories()
	assert.Len(t, cats, 10)
	for _, c := range cats {
		assert.True(t, c.IsValid(), c.String())
	}
	assert.False(t, Category("toys").IsValid())
}

func TestPurchase_DedupKey(t *testing.T) {
	p := Purchase{OrderID: "111-222", RawTitle: "Organic Milk"}

	assert.Equal(t, "111-222|B00ASIN", p.DedupKey("B00ASIN"))
	assert.Equal(t, "111-222|Organic Milk", p.DedupKey(""))
}

func TestFindByExternalID(t *testing.T) {
	items := []Item{
		{ID: "a", ExternalID: ""},
		{ID: "b", ExternalID: "B001"},
		{ID: "c", ExternalID: "B002"},
	}

	found := FindByExternalID(items, "B002")
	require.NotNil(t, found)
	assert.Equal(t, "c", found.ID)

	assert.Nil(t, FindByExternalID(items, "B999"))
	assert.Nil(t, FindByExternalID(items, ""), "empty id must not match items without one")
}

func TestFindByExternalID_ReturnsPointerIntoSlice(t *testing.T) {
	items := []Item{{ID: "a", ExternalID: "B001"}}

	found := FindByExternalID(items, "B001")
	require.NotNil(t, found)
	found.Purchases = append(found.Purchases, Purchase{RawTitle: "x"})

	assert.Len(t, items[0].Purchases, 1)
}

func TestFindByIDPrefix(t *testing.T) {
	items := []Item{
		{ID: "abc-123"},
		{ID: "abd-456"},
		{ID: "abc-789"},
	}

	tests := []struct {
		name     string
		prefix   string
		expected string
	}{
		{"exact match", "abd-456", "abd-456"},
		{"unique prefix", "abd", "abd-456"},
		{"ambiguous prefix takes first", "abc", "abc-123"},
		{"shared prefix takes first", "ab", "abc-123"},
		{"no match", "zzz", ""},
		{"empty prefix", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := FindByIDPrefix(items, tt.prefix)
			if tt.expected == "" {
				assert.Nil(t, found)
				return
			}
			require.NotNil(t, found)
			assert.Equal(t, tt.expected, found.ID)
		})
	}
}

func TestFindByPurchaseTitle_IgnoresCase(t *testing.T) {
	items := []Item{
		{ID: "a", Purchases: []Purchase{{RawTitle: "Bananas, 1 bunch"}}},
		{ID: "b", Purchases: []Purchase{{RawTitle: "Whole Milk 1 Gallon"}, {RawTitle: "Eggs"}}},
	}

	found := FindByPurchaseTitle(items, "whole milk 1 gallon")
	require.NotNil(t, found)
	assert.Equal(t, "b", found.ID)

	assert.Nil(t, FindByPurchaseTitle(items, "Whole Milk"))
}

func TestFallbackTitleInfo(t *testing.T) {
	info := FallbackTitleInfo("Short title")
	assert.Equal(t, "Short title", info.CanonicalName)
	assert.Equal(t, CategoryOther, info.Category)
	assert.Empty(t, info.Brand)
	assert.Empty(t, info.UnitSize)

	long := strings.Repeat("é", 100)
	info = FallbackTitleInfo(long)
	assert.Equal(t, 80, len([]rune(info.CanonicalName)))
}

func TestItem_Clone(t *testing.T) {
	orig := Item{ID: "a", Purchases: []Purchase{{OrderID: "1", RawTitle: "Milk", Quantity: 1}}}

	c := orig.Clone()
	c.Purchases[0].RawTitle = "Eggs"
	c.Purchases = append(c.Purchases, Purchase{OrderID: "2"})

	assert.Equal(t, "Milk", orig.Purchases[0].RawTitle)
	assert.Len(t, orig.Purchases, 1)
}
