package driving

import "github.com/custodia-labs/grocer-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the title normalisation provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetStorage selects the storage backend and data directory.
	SetStorage(backend domain.StorageBackend, dataDir string) error

	// SetGroceryOnly sets whether imports keep only grocery rows by default.
	SetGroceryOnly(groceryOnly bool) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
