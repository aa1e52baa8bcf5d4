package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// LedgerStore is an in-memory implementation of driven.LedgerStore.
type LedgerStore struct {
	mu     sync.RWMutex
	ledger domain.Ledger
	saves  int
}

// NewLedgerStore creates an in-memory ledger store holding keys.
func NewLedgerStore(keys ...string) *LedgerStore {
	return &LedgerStore{ledger: domain.NewLedger(keys...)}
}

// Load returns a copy of the stored ledger.
func (s *LedgerStore) Load(_ context.Context) (domain.Ledger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Clone(), nil
}

// Save replaces the stored ledger.
func (s *LedgerStore) Save(_ context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ledger = ledger.Clone()
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *LedgerStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
