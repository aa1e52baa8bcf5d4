package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
)

// Ensure InventoryService implements the interface.
var _ driving.InventoryService = (*InventoryService)(nil)

// topItems caps the most-purchased list in Stats.
const topItems = 10

// noPrediction sorts items without a predicted date after every real date.
const noPrediction = "9999"

// InventoryService reports on stored items and their buying cadence.
type InventoryService struct {
	items driven.ItemStore
	now   func() time.Time
}

// NewInventoryService creates a new inventory service.
// now supplies today's date; nil means time.Now.
func NewInventoryService(items driven.ItemStore, now func() time.Time) *InventoryService {
	if now == nil {
		now = time.Now
	}
	return &InventoryService{items: items, now: now}
}

// List returns item frequencies filtered by category and ordered as requested.
func (s *InventoryService) List(ctx context.Context, opts domain.ListOptions) ([]domain.ItemFrequency, error) {
	order := opts.Sort
	if order == "" {
		order = domain.SortByFrequency
	}
	if !order.IsValid() {
		return nil, fmt.Errorf("%w: unknown sort order %q", domain.ErrInvalidInput, order)
	}

	freqs, err := s.frequencies(ctx)
	if err != nil {
		return nil, err
	}

	filtered := freqs[:0]
	for _, f := range freqs {
		if opts.MatchesCategory(f) {
			filtered = append(filtered, f)
		}
	}

	sortFrequencies(filtered, order)

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		filtered = filtered[:opts.Limit]
	}
	return filtered, nil
}

// Stats summarises categories, the most purchased items and overdue items.
func (s *InventoryService) Stats(ctx context.Context) (*domain.Stats, error) {
	freqs, err := s.frequencies(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now()

	counts := make(map[domain.Category]int)
	var overdue []domain.ItemFrequency
	for _, f := range freqs {
		counts[f.Category]++
		if f.IsOverdue(today) {
			overdue = append(overdue, f)
		}
	}

	categories := make([]domain.CategoryCount, 0, len(counts))
	for c, n := range counts {
		categories = append(categories, domain.CategoryCount{Category: c, Items: n})
	}
	slices.SortFunc(categories, func(a, b domain.CategoryCount) int {
		return cmp.Compare(a.Category, b.Category)
	})

	slices.SortStableFunc(overdue, func(a, b domain.ItemFrequency) int {
		return cmp.Compare(a.PredictedNext, b.PredictedNext)
	})

	top := freqs
	if len(top) > topItems {
		top = top[:topItems]
	}

	return &domain.Stats{
		TotalItems: len(freqs),
		Categories: categories,
		Top:        top,
		Overdue:    overdue,
	}, nil
}

// Show returns one item and its frequency, looked up by id prefix.
func (s *InventoryService) Show(ctx context.Context, idPrefix string) (*domain.ItemDetail, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return nil, fmt.Errorf("%w: item id is required", domain.ErrInvalidInput)
	}

	item, err := s.items.FindByIDPrefix(ctx, idPrefix)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", idPrefix, err)
	}

	return &domain.ItemDetail{
		Item:      *item,
		Frequency: ComputeFrequency(item, s.now()),
	}, nil
}

func (s *InventoryService) frequencies(ctx context.Context) ([]domain.ItemFrequency, error) {
	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	return ComputeAllFrequencies(items, s.now()), nil
}

// sortFrequencies reorders freqs in place. Input is already in frequency order.
func sortFrequencies(freqs []domain.ItemFrequency, order domain.SortOrder) {
	switch order {
	case domain.SortByName:
		slices.SortStableFunc(freqs, func(a, b domain.ItemFrequency) int {
			return cmp.Compare(strings.ToLower(a.CanonicalName), strings.ToLower(b.CanonicalName))
		})
	case domain.SortByLast:
		slices.SortStableFunc(freqs, func(a, b domain.ItemFrequency) int {
			return cmp.Compare(b.LastPurchased, a.LastPurchased)
		})
	case domain.SortByNext:
		slices.SortStableFunc(freqs, func(a, b domain.ItemFrequency) int {
			return cmp.Compare(nextKey(a), nextKey(b))
		})
	case domain.SortByFrequency:
	}
}

func nextKey(f domain.ItemFrequency) string {
	if f.PredictedNext == "" {
		return noPrediction
	}
	return f.PredictedNext
}
