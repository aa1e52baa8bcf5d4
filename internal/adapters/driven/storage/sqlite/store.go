package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

// DBFile is the database file name inside the data directory.
const DBFile = "grocer.db"

// Store is a unified SQLite-based storage that provides access to
// the item and ledger store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.grocer/data/grocer.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".grocer", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ItemStore returns an ItemStore interface backed by this store.
func (s *Store) ItemStore() driven.ItemStore {
	return &itemStore{store: s}
}

// LedgerStore returns a LedgerStore interface backed by this store.
func (s *Store) LedgerStore() driven.LedgerStore {
	return &ledgerStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Item Store ====================

// itemStore implements driven.ItemStore.
type itemStore struct {
	store *Store
}

var _ driven.ItemStore = (*itemStore)(nil)

// List returns every item in insertion order with its purchases.
func (s *itemStore) List(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, canonical_name, category, brand, unit_size, external_id
		FROM items ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item //nolint:prealloc // size unknown from query
	index := make(map[string]int)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		index[item.ID] = len(items)
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	prows, err := s.store.db.QueryContext(ctx, `
		SELECT item_id, order_id, date, quantity, price_per_unit, raw_title
		FROM purchases ORDER BY item_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying purchases: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var itemID string
		var p domain.Purchase
		if err := prows.Scan(&itemID, &p.OrderID, &p.Date, &p.Quantity, &p.PricePerUnit, &p.RawTitle); err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].Purchases = append(items[i].Purchases, p)
		}
	}
	if err := prows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases: %w", err)
	}

	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// SaveAll replaces every stored item in one transaction.
func (s *itemStore) SaveAll(ctx context.Context, items []domain.Item) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM purchases"); err != nil {
		return fmt.Errorf("clearing purchases: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM items"); err != nil {
		return fmt.Errorf("clearing items: %w", err)
	}

	itemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO items (seq, id, canonical_name, category, brand, unit_size, external_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing item statement: %w", err)
	}
	defer itemStmt.Close()

	purchaseStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO purchases (item_id, position, order_id, date, quantity, price_per_unit, raw_title)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing purchase statement: %w", err)
	}
	defer purchaseStmt.Close()

	for i := range items {
		item := &items[i]
		if _, err := itemStmt.ExecContext(ctx, i+1, item.ID, item.CanonicalName, string(item.Category),
			item.Brand, item.UnitSize, item.ExternalID); err != nil {
			return fmt.Errorf("saving item %s: %w", item.ID, err)
		}
		for pos, p := range item.Purchases {
			if _, err := purchaseStmt.ExecContext(ctx, item.ID, pos, p.OrderID, p.Date,
				p.Quantity, p.PricePerUnit, p.RawTitle); err != nil {
				return fmt.Errorf("saving purchase of %s: %w", item.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FindByExternalID returns the first item carrying the marketplace identifier.
func (s *itemStore) FindByExternalID(ctx context.Context, externalID string) (*domain.Item, error) {
	if externalID == "" {
		return nil, domain.ErrNotFound
	}
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, canonical_name, category, brand, unit_size, external_id
		FROM items WHERE external_id = ? ORDER BY seq LIMIT 1
	`, externalID)
	return s.loadOne(ctx, row)
}

// FindByIDPrefix returns the first item whose id equals or starts with prefix.
func (s *itemStore) FindByIDPrefix(ctx context.Context, prefix string) (*domain.Item, error) {
	if prefix == "" {
		return nil, domain.ErrNotFound
	}
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, canonical_name, category, brand, unit_size, external_id
		FROM items WHERE substr(id, 1, length(?)) = ? ORDER BY seq LIMIT 1
	`, prefix, prefix)
	return s.loadOne(ctx, row)
}

func (s *itemStore) loadOne(ctx context.Context, row *sql.Row) (*domain.Item, error) {
	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT order_id, date, quantity, price_per_unit, raw_title
		FROM purchases WHERE item_id = ? ORDER BY position
	`, item.ID)
	if err != nil {
		return nil, fmt.Errorf("querying purchases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Purchase
		if err := rows.Scan(&p.OrderID, &p.Date, &p.Quantity, &p.PricePerUnit, &p.RawTitle); err != nil {
			return nil, fmt.Errorf("scanning purchase: %w", err)
		}
		item.Purchases = append(item.Purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchases: %w", err)
	}
	return item, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanItem(row scanner) (*domain.Item, error) {
	var item domain.Item
	var category string
	err := row.Scan(&item.ID, &item.CanonicalName, &category, &item.Brand, &item.UnitSize, &item.ExternalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	item.Category = domain.ParseCategory(category)
	return &item, nil
}

// ==================== Ledger Store ====================

// ledgerStore implements driven.LedgerStore.
type ledgerStore struct {
	store *Store
}

var _ driven.LedgerStore = (*ledgerStore)(nil)

// Load returns every accepted dedup key.
func (s *ledgerStore) Load(ctx context.Context) (domain.Ledger, error) {
	rows, err := s.store.db.QueryContext(ctx, "SELECT key FROM import_ledger")
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	ledger := domain.NewLedger()
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scanning ledger key: %w", err)
		}
		ledger.Add(key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger: %w", err)
	}
	return ledger, nil
}

// Save replaces the stored ledger in one transaction.
func (s *ledgerStore) Save(ctx context.Context, ledger domain.Ledger) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM import_ledger"); err != nil {
		return fmt.Errorf("clearing ledger: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO import_ledger (key) VALUES (?)")
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, key := range ledger.Keys() {
		if _, err := stmt.ExecContext(ctx, key); err != nil {
			return fmt.Errorf("saving ledger key: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
