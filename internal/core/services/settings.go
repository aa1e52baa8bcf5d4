package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorageBackend = "storage.backend"
	keyStorageDataDir = "storage.data_dir"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMRate        = "llm.requests_per_minute"
	keyGroceryOnly    = "import.grocery_only"
)

// EnvDataDir overrides the configured data directory.
const EnvDataDir = "GROCER_DATA_DIR"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// A blank API key is filled from the provider's environment variable, and
// GROCER_DATA_DIR overrides the configured data directory.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			DataDir: s.configStore.GetString(keyStorageDataDir),
		},
		LLM: domain.LLMSettings{
			Provider:          s.getProvider(defaults.LLM.Provider),
			BaseURL:           s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyLLMAPIKey),
			RequestsPerMinute: s.getInt(keyLLMRate, defaults.LLM.RequestsPerMinute),
		},
		Import: domain.ImportSettings{
			GroceryOnly: s.getBool(keyGroceryOnly, defaults.Import.GroceryOnly),
		},
	}

	settings.LLM.Model = s.getString(keyLLMModel, domain.DefaultLLMModels()[settings.LLM.Provider])

	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}
	if dir := s.getenv(EnvDataDir); dir != "" {
		settings.Storage.DataDir = dir
	}

	return settings, nil
}

// Save persists application settings.
// An API key that only came from the environment is not written to disk.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if env := s.getenv(EnvDataDir); env == "" || settings.Storage.DataDir != env {
		if err := s.configStore.Set(keyStorageDataDir, settings.Storage.DataDir); err != nil {
			return fmt.Errorf("save storage data_dir: %w", err)
		}
	}

	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	apiKey := settings.LLM.APIKey
	if apiKey == s.envAPIKey(settings.LLM.Provider) {
		apiKey = ""
	}
	// A blank key still overwrites a stored one so a previous provider's
	// key never outlives a provider switch.
	if apiKey != "" || s.configStore.GetString(keyLLMAPIKey) != "" {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyLLMRate, settings.LLM.RequestsPerMinute); err != nil {
		return fmt.Errorf("save llm requests_per_minute: %w", err)
	}

	if err := s.configStore.Set(keyGroceryOnly, settings.Import.GroceryOnly); err != nil {
		return fmt.Errorf("save import grocery_only: %w", err)
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
// An empty apiKey keeps the configured key when the provider is unchanged;
// on a switch the new provider's environment key, if any, is used instead.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	switching := settings.LLM.Provider != provider
	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if switching || settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = domain.DefaultOllamaURL
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	switch {
	case apiKey != "":
		settings.LLM.APIKey = apiKey
	case switching || !provider.RequiresAPIKey():
		settings.LLM.APIKey = s.envAPIKey(provider)
	}

	if provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("%w: %s", domain.ErrAPIKeyRequired, provider)
	}

	return s.Save(settings)
}

// SetStorage selects the storage backend and data directory.
// An empty dataDir keeps the current directory.
func (s *SettingsService) SetStorage(backend domain.StorageBackend, dataDir string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Storage.Backend = backend
	if dataDir != "" {
		settings.Storage.DataDir = dataDir
	}

	return s.Save(settings)
}

// SetGroceryOnly sets the default row filter for imports.
func (s *SettingsService) SetGroceryOnly(groceryOnly bool) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Import.GroceryOnly = groceryOnly
	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}
	if !settings.LLM.Provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", settings.LLM.Provider)
	}
	if settings.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: requests_per_minute must not be negative", domain.ErrInvalidInput)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	name := provider.APIKeyEnv()
	if name == "" {
		return ""
	}
	return s.getenv(name)
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getProvider(defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keyLLMProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
