package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestItemFrequency_IsOverdue(t *testing.T) {
	today := time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		predicted string
		expected  bool
	}{
		{"no prediction", "", false},
		{"yesterday", "2024-03-09", true},
		{"today is not overdue", "2024-03-10", false},
		{"tomorrow", "2024-03-11", false},
		{"malformed", "not-a-date", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ItemFrequency{PredictedNext: tt.predicted}
			assert.Equal(t, tt.expected, f.IsOverdue(today))
		})
	}
}

func TestItemFrequency_HasPrediction(t *testing.T) {
	assert.False(t, ItemFrequency{}.HasPrediction())
	assert.True(t, ItemFrequency{PredictedNext: "2024-01-29"}.HasPrediction())
}

func TestCalendarDate(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	in := time.Date(2024, 1, 31, 23, 59, 0, 0, loc)

	got := CalendarDate(in)
	assert.Equal(t, "2024-01-31", got.Format(DateLayout))
	assert.Equal(t, 0, got.Hour())
}

func TestSortOrder_IsValid(t *testing.T) {
	for _, s := range SortOrders() {
		assert.True(t, s.IsValid(), s.String())
	}
	assert.False(t, SortOrder("price").IsValid())
	assert.False(t, SortOrder("").IsValid())
}

func TestListOptions_MatchesCategory(t *testing.T) {
	f := ItemFrequency{Category: CategoryDairy}

	assert.True(t, ListOptions{}.MatchesCategory(f))
	assert.True(t, ListOptions{Category: "DAIRY"}.MatchesCategory(f))
	assert.False(t, ListOptions{Category: "produce"}.MatchesCategory(f))
}
