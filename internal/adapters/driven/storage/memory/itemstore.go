package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

// Ensure ItemStore implements the interface.
var _ driven.ItemStore = (*ItemStore)(nil)

// ItemStore is an in-memory implementation of driven.ItemStore.
// Items are copied on the way in and out.
type ItemStore struct {
	mu    sync.RWMutex
	items []domain.Item
}

// NewItemStore creates an in-memory item store holding items.
func NewItemStore(items ...domain.Item) *ItemStore {
	return &ItemStore{items: cloneItems(items)}
}

// List returns every item in insertion order.
func (s *ItemStore) List(_ context.Context) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneItems(s.items), nil
}

// SaveAll replaces the stored items.
func (s *ItemStore) SaveAll(_ context.Context, items []domain.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = cloneItems(items)
	return nil
}

// FindByExternalID returns the item with the given marketplace identifier.
func (s *ItemStore) FindByExternalID(_ context.Context, externalID string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return found(domain.FindByExternalID(s.items, externalID))
}

// FindByIDPrefix returns the first item whose id starts with prefix.
func (s *ItemStore) FindByIDPrefix(_ context.Context, prefix string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return found(domain.FindByIDPrefix(s.items, prefix))
}

func found(item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, domain.ErrNotFound
	}
	c := item.Clone()
	return &c, nil
}

func cloneItems(items []domain.Item) []domain.Item {
	out := make([]domain.Item, len(items))
	for i := range items {
		out[i] = items[i].Clone()
	}
	return out
}
