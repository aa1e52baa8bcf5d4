package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
)

var testToday = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

// MockImportService implements driving.ImportService for testing.
type MockImportService struct {
	ImportFunc func(ctx context.Context, path string, opts domain.ImportOptions) (*domain.ImportReport, error)

	Calls []domain.ImportOptions
}

var _ driving.ImportService = (*MockImportService)(nil)

func (m *MockImportService) Import(
	ctx context.Context, path string, opts domain.ImportOptions,
) (*domain.ImportReport, error) {
	m.Calls = append(m.Calls, opts)
	if m.ImportFunc != nil {
		return m.ImportFunc(ctx, path, opts)
	}
	return &domain.ImportReport{Source: path}, nil
}

// MockInventoryService implements driving.InventoryService for testing.
type MockInventoryService struct {
	ListFunc  func(ctx context.Context, opts domain.ListOptions) ([]domain.ItemFrequency, error)
	StatsFunc func(ctx context.Context) (*domain.Stats, error)
	ShowFunc  func(ctx context.Context, idPrefix string) (*domain.ItemDetail, error)
}

var _ driving.InventoryService = (*MockInventoryService)(nil)

func (m *MockInventoryService) List(ctx context.Context, opts domain.ListOptions) ([]domain.ItemFrequency, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return nil, nil
}

func (m *MockInventoryService) Stats(ctx context.Context) (*domain.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &domain.Stats{}, nil
}

func (m *MockInventoryService) Show(ctx context.Context, idPrefix string) (*domain.ItemDetail, error) {
	if m.ShowFunc != nil {
		return m.ShowFunc(ctx, idPrefix)
	}
	return nil, domain.ErrNotFound
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings    domain.AppSettings
	GetErr      error
	ValidateErr error
	LLMErr      error
	SaveErr     error
}

var _ driving.SettingsService = (*MockSettingsService)(nil)

func newMockSettings() *MockSettingsService {
	return &MockSettingsService{Settings: domain.DefaultAppSettings()}
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings = *settings
	return nil
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings.LLM.Provider = provider
	m.Settings.LLM.Model = model
	m.Settings.LLM.APIKey = apiKey
	return nil
}

func (m *MockSettingsService) SetStorage(backend domain.StorageBackend, dataDir string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings.Storage.Backend = backend
	m.Settings.Storage.DataDir = dataDir
	return nil
}

func (m *MockSettingsService) SetGroceryOnly(groceryOnly bool) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Settings.Import.GroceryOnly = groceryOnly
	return nil
}

func (m *MockSettingsService) Validate() error { return m.ValidateErr }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *MockSettingsService) ValidateLLMConfig() error { return m.LLMErr }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	Import    *MockImportService
	Inventory *MockInventoryService
	Settings  *MockSettingsService
}

// setupTestServices swaps in mock services and a fixed clock.
// The returned function restores the previous state.
func setupTestServices() (*testServices, func()) {
	origImport := importService
	origInventory := inventoryService
	origSettings := settingsService
	origBootstrap := bootstrap
	origNow := now
	origCleanup := cleanup

	svc := &testServices{
		Import:    &MockImportService{},
		Inventory: &MockInventoryService{},
		Settings:  newMockSettings(),
	}
	importService = svc.Import
	inventoryService = svc.Inventory
	settingsService = svc.Settings
	bootstrap = nil
	now = func() time.Time { return testToday }
	cleanup = nil

	return svc, func() {
		importService = origImport
		inventoryService = origInventory
		settingsService = origSettings
		bootstrap = origBootstrap
		now = origNow
		cleanup = origCleanup
	}
}

// runCLI executes the root command with args and returns its combined output.
// Flags keep their values between executions, so they are reset first.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
