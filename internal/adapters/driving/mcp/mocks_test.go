package mcp

import (
	"context"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
)

var _ driving.InventoryService = (*mockInventoryService)(nil)

// mockInventoryService is a mock implementation of driving.InventoryService.
type mockInventoryService struct {
	items    []domain.ItemFrequency
	detail   *domain.ItemDetail
	stats    *domain.Stats
	err      error
	lastOpts domain.ListOptions
	lastID   string
}

func (m *mockInventoryService) List(_ context.Context, opts domain.ListOptions) ([]domain.ItemFrequency, error) {
	m.lastOpts = opts
	return m.items, m.err
}

func (m *mockInventoryService) Stats(_ context.Context) (*domain.Stats, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stats == nil {
		return &domain.Stats{}, nil
	}
	return m.stats, nil
}

func (m *mockInventoryService) Show(_ context.Context, id string) (*domain.ItemDetail, error) {
	m.lastID = id
	if m.err != nil {
		return nil, m.err
	}
	if m.detail == nil {
		return nil, domain.ErrNotFound
	}
	return m.detail, nil
}
