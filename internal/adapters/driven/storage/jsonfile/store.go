package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

// File names inside the data directory.
const (
	ItemsFile     = "items.json"
	ImportLogFile = "import_log.json"
)

// Ensure Store implements both store interfaces.
var (
	_ driven.ItemStore   = (*Store)(nil)
	_ driven.LedgerStore = (*Store)(nil)
)

// Store keeps items and the import ledger in JSON files.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore creates a JSON store rooted at dataDir.
// If dataDir is empty, defaults to ~/.grocer/data. Nothing is written until the first save.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".grocer", "data")
	}
	return &Store{dir: dataDir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns every item in file order.
func (s *Store) List(_ context.Context) ([]domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadItems()
}

// SaveAll replaces items.json.
func (s *Store) SaveAll(_ context.Context, items []domain.Item) error {
	records := make([]itemRecord, 0, len(items))
	for i := range items {
		records = append(records, toRecord(&items[i]))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(ItemsFile, records)
}

// FindByExternalID returns the first item with the marketplace identifier.
func (s *Store) FindByExternalID(_ context.Context, externalID string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	if it := domain.FindByExternalID(items, externalID); it != nil {
		return it, nil
	}
	return nil, domain.ErrNotFound
}

// FindByIDPrefix returns the first item whose id equals or starts with prefix.
func (s *Store) FindByIDPrefix(_ context.Context, prefix string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadItems()
	if err != nil {
		return nil, err
	}
	if it := domain.FindByIDPrefix(items, prefix); it != nil {
		return it, nil
	}
	return nil, domain.ErrNotFound
}

// Load reads import_log.json.
func (s *Store) Load(_ context.Context) (domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []string
	if err := s.readJSON(ImportLogFile, &keys); err != nil {
		return nil, err
	}
	return domain.NewLedger(keys...), nil
}

// Save writes the ledger keys sorted.
func (s *Store) Save(_ context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeJSON(ImportLogFile, ledger.Keys())
}

func (s *Store) loadItems() ([]domain.Item, error) {
	var records []itemRecord
	if err := s.readJSON(ItemsFile, &records); err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(records))
	for _, r := range records {
		items = append(items, r.toItem())
	}
	return items, nil
}

// readJSON decodes name into v. A missing file leaves v untouched.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
