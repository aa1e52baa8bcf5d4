package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grocer-cli/internal/orderexport"
)

// --- Mock implementations ---

// mockNormalisers implements driven.TitleNormaliserFactory for testing.
type mockNormalisers struct {
	created   []domain.LLMSettings
	fallbacks int
	titles    []string
	closed    int
	createErr error
}

func (m *mockNormalisers) Create(settings domain.LLMSettings) (driven.TitleNormaliser, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, settings)
	return &mockNormaliser{parent: m}, nil
}

func (m *mockNormalisers) Fallback() driven.TitleNormaliser {
	m.fallbacks++
	return &mockNormaliser{parent: m, fallback: true}
}

type mockNormaliser struct {
	parent   *mockNormalisers
	fallback bool
}

func (m *mockNormaliser) Normalise(_ context.Context, rawTitle string) domain.TitleInfo {
	m.parent.titles = append(m.parent.titles, rawTitle)
	if m.fallback {
		return domain.FallbackTitleInfo(rawTitle)
	}
	return domain.TitleInfo{
		CanonicalName: "Canonical " + rawTitle,
		Category:      domain.CategoryDairy,
		Brand:         "Acme",
		UnitSize:      "1 each",
	}
}

func (m *mockNormaliser) Close() error {
	m.parent.closed++
	return nil
}

// mockExportReader implements driven.ExportReader for testing.
type mockExportReader struct {
	err error
}

func (m *mockExportReader) ReadFile(_ string, _ domain.Ledger, _ bool) (*domain.ParseResult, error) {
	return nil, m.err
}

// --- Helpers ---

type importFixture struct {
	items       *memory.ItemStore
	ledger      *memory.LedgerStore
	normalisers *mockNormalisers
	settings    *SettingsService
	service     *ImportService
}

func newImportFixture(t *testing.T, existing ...domain.Item) *importFixture {
	t.Helper()
	f := &importFixture{
		items:       memory.NewItemStore(existing...),
		ledger:      memory.NewLedgerStore(),
		normalisers: &mockNormalisers{},
		settings:    newTestSettingsService(memory.NewConfigStore(), map[string]string{"OPENAI_API_KEY": "sk-env"}),
	}
	f.service = NewImportService(f.items, f.ledger, orderexport.NewReader(nil), f.normalisers, f.settings)
	return f
}

func writeExport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func listItems(t *testing.T, store *memory.ItemStore) []domain.Item {
	t.Helper()
	items, err := store.List(context.Background())
	require.NoError(t, err)
	return items
}

const mixedExport = `Order ID,Order Date,Title,ASIN,Quantity,Unit Price,Category
100,2024-01-01,Organic Milk 1 gal,B0MILK,1,$4.99,Grocery
100,2024-01-01,HDMI Cable,B0HDMI,1,$7.99,Electronics
100,2024-01-01,Loose Bananas,,6,$0.25,Fresh Produce
200,2024-01-15,Organic Milk 1 gal,B0MILK,2,$5.09,Grocery
200,2024-01-15,loose bananas,,4,$0.27,Fresh Produce
`

// --- Tests ---

func TestImportService_CreatesAndUpdatesItems(t *testing.T) {
	f := newImportFixture(t)
	path := writeExport(t, mixedExport)

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{GroceryOnly: true})
	require.NoError(t, err)

	assert.Equal(t, &domain.ImportReport{
		Source:     path,
		Total:      4,
		NewRows:    4,
		Skipped:    0,
		Added:      2,
		Updated:    2,
		Normalised: 2,
	}, report)

	items := listItems(t, f.items)
	require.Len(t, items, 2)

	milk := items[0]
	assert.NotEmpty(t, milk.ID)
	assert.Equal(t, "Canonical Organic Milk 1 gal", milk.CanonicalName)
	assert.Equal(t, domain.CategoryDairy, milk.Category)
	assert.Equal(t, "Acme", milk.Brand)
	assert.Equal(t, "B0MILK", milk.ExternalID)
	require.Len(t, milk.Purchases, 2)
	assert.Equal(t, 2, milk.Purchases[1].Quantity)

	bananas := items[1]
	assert.Empty(t, bananas.ExternalID)
	assert.Len(t, bananas.Purchases, 2, "title match ignores case")
	assert.NotEqual(t, milk.ID, bananas.ID)

	ledger, err := f.ledger.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"100|B0MILK", "100|Loose Bananas", "200|B0MILK", "200|loose bananas"}, ledger.Keys())

	assert.Equal(t, []string{"Organic Milk 1 gal", "Loose Bananas"}, f.normalisers.titles)
	require.Len(t, f.normalisers.created, 1)
	assert.Equal(t, "sk-env", f.normalisers.created[0].APIKey)
	assert.Equal(t, 1, f.normalisers.closed)
}

func TestImportService_Idempotent(t *testing.T) {
	f := newImportFixture(t)
	path := writeExport(t, mixedExport)
	ctx := context.Background()

	_, err := f.service.Import(ctx, path, domain.ImportOptions{GroceryOnly: true})
	require.NoError(t, err)
	itemsBefore := listItems(t, f.items)
	ledgerBefore, err := f.ledger.Load(ctx)
	require.NoError(t, err)

	report, err := f.service.Import(ctx, path, domain.ImportOptions{GroceryOnly: true})
	require.NoError(t, err)

	assert.Equal(t, 0, report.NewRows)
	assert.Equal(t, 4, report.Skipped)
	assert.Equal(t, 4, report.Total)
	assert.Zero(t, report.Added)
	assert.Zero(t, report.Updated)

	assert.Equal(t, itemsBefore, listItems(t, f.items))
	ledgerAfter, err := f.ledger.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, ledgerBefore, ledgerAfter)
	assert.Equal(t, 1, f.ledger.Saves(), "nothing new means nothing saved")
}

func TestImportService_AllCategories(t *testing.T) {
	f := newImportFixture(t)
	path := writeExport(t, mixedExport)

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{GroceryOnly: false})
	require.NoError(t, err)

	assert.Equal(t, 5, report.NewRows)
	assert.Equal(t, 3, report.Added)
	assert.Len(t, listItems(t, f.items), 3)
}

func TestImportService_MatchesExistingItemByExternalID(t *testing.T) {
	existing := domain.Item{
		ID:            "existing-1",
		CanonicalName: "Milk",
		Category:      domain.CategoryDairy,
		ExternalID:    "B0MILK",
		Purchases:     []domain.Purchase{{OrderID: "050", Date: "2023-12-20", Quantity: 1, RawTitle: "Milk"}},
	}
	f := newImportFixture(t, existing)
	path := writeExport(t, "Order ID,Order Date,Title,ASIN\n100,2024-01-01,Organic Milk 1 gal,B0MILK\n")

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Zero(t, report.Added)
	assert.Zero(t, report.Normalised)

	items := listItems(t, f.items)
	require.Len(t, items, 1)
	assert.Equal(t, "Milk", items[0].CanonicalName)
	assert.Len(t, items[0].Purchases, 2)
}

func TestImportService_ExternalIDRowsNeverMatchByTitle(t *testing.T) {
	existing := domain.Item{
		ID:         "existing-1",
		ExternalID: "B0OLD",
		Purchases:  []domain.Purchase{{OrderID: "050", Date: "2023-12-20", Quantity: 1, RawTitle: "Milk"}},
	}
	f := newImportFixture(t, existing)
	path := writeExport(t, "Order ID,Title,ASIN\n100,Milk,B0NEW\n")

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	assert.Len(t, listItems(t, f.items), 2)
}

func TestImportService_NormalisesEachKeyOnce(t *testing.T) {
	f := newImportFixture(t)
	// A known ASIN under a new title still matches; repeated titles match too.
	path := writeExport(t, "Order ID,Title,ASIN\n1,Milk,B01\n2,Milk 2pk,B01\n3,Eggs,\n4,EGGS,\n")

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Added)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 2, report.Normalised)
	assert.Equal(t, []string{"Milk", "Eggs"}, f.normalisers.titles)
}

func TestImportService_Offline(t *testing.T) {
	f := newImportFixture(t)
	f.settings.getenv = func(string) string { return "" }
	path := writeExport(t, "Order ID,Title\n1,Some Very Specific Snack Brand Kettle Chips\n")

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{Offline: true})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, f.normalisers.fallbacks)
	assert.Empty(t, f.normalisers.created)

	items := listItems(t, f.items)
	require.Len(t, items, 1)
	assert.Equal(t, "Some Very Specific Snack Brand Kettle Chips", items[0].CanonicalName)
	assert.Equal(t, domain.CategoryOther, items[0].Category)
}

func TestImportService_MissingAPIKey(t *testing.T) {
	f := newImportFixture(t)
	f.settings.getenv = func(string) string { return "" }
	path := writeExport(t, mixedExport)

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{GroceryOnly: true})

	require.ErrorIs(t, err, domain.ErrAPIKeyRequired)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	assert.Nil(t, report)
	assert.Empty(t, listItems(t, f.items))
	assert.Zero(t, f.ledger.Saves())
}

func TestImportService_APIKeyOverride(t *testing.T) {
	f := newImportFixture(t)
	f.settings.getenv = func(string) string { return "" }
	path := writeExport(t, "Order ID,Title\n1,Milk\n")

	_, err := f.service.Import(context.Background(), path, domain.ImportOptions{APIKey: "sk-flag"})
	require.NoError(t, err)

	require.Len(t, f.normalisers.created, 1)
	assert.Equal(t, "sk-flag", f.normalisers.created[0].APIKey)
	assert.Equal(t, domain.AIProviderOpenAI, f.normalisers.created[0].Provider)
}

func TestImportService_FactoryError(t *testing.T) {
	f := newImportFixture(t)
	f.normalisers.createErr = errors.New("boom")
	path := writeExport(t, "Order ID,Title\n1,Milk\n")

	_, err := f.service.Import(context.Background(), path, domain.ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestImportService_NoRows(t *testing.T) {
	f := newImportFixture(t)
	path := writeExport(t, "Order ID,Title,Category\n1,HDMI Cable,Electronics\n")

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{GroceryOnly: true})
	require.NoError(t, err)

	assert.True(t, report.Empty())
	assert.Zero(t, report.NewRows)
	assert.Zero(t, f.ledger.Saves())
}

func TestImportService_MissingFile(t *testing.T) {
	f := newImportFixture(t)

	_, err := f.service.Import(context.Background(), filepath.Join(t.TempDir(), "gone.csv"), domain.ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.csv")
}

func TestImportService_ReaderError(t *testing.T) {
	readErr := errors.New("disk on fire")
	service := NewImportService(memory.NewItemStore(), memory.NewLedgerStore(), &mockExportReader{err: readErr}, nil, nil)

	_, err := service.Import(context.Background(), "x.csv", domain.ImportOptions{})
	require.ErrorIs(t, err, readErr)
}

func TestImportService_WithoutNormaliserFactory(t *testing.T) {
	items := memory.NewItemStore()
	service := NewImportService(items, memory.NewLedgerStore(), orderexport.NewReader(nil), nil, nil)
	path := writeExport(t, "Order ID,Title\n1,Milk\n")

	report, err := service.Import(context.Background(), path, domain.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	stored := listItems(t, items)
	require.Len(t, stored, 1)
	assert.Equal(t, "Milk", stored[0].CanonicalName)
	assert.Equal(t, domain.CategoryOther, stored[0].Category)
}

func TestImportService_DedupKeysUnique(t *testing.T) {
	f := newImportFixture(t)
	path := writeExport(t, "Order ID,Title,ASIN\n1,Milk,B01\n1,Milk,B01\n1,Eggs,\n1,Eggs,\n2,Milk,B01\n")

	report, err := f.service.Import(context.Background(), path, domain.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, report.NewRows)
	assert.Zero(t, report.Skipped)
	assert.Equal(t, 2, report.Duplicates)

	seen := map[string]bool{}
	for _, item := range listItems(t, f.items) {
		for _, p := range item.Purchases {
			key := p.DedupKey(item.ExternalID)
			assert.False(t, seen[key], "duplicate key %s", key)
			seen[key] = true
		}
	}
	assert.Len(t, seen, 3)
}
