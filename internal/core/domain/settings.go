package domain

const unknownDescription = "Unknown"

// StorageBackend selects where items and the import ledger are persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageJSON keeps items.json and import_log.json in the data directory.
	StorageJSON StorageBackend = "json"

	// StorageSQLite keeps everything in a single grocer.db SQLite file.
	StorageSQLite StorageBackend = "sqlite"
)

// AllStorageBackends returns every backend in menu order.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageJSON, StorageSQLite}
}

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageJSON || b == StorageSQLite
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageJSON:
		return "JSON files (items.json, import_log.json)"
	case StorageSQLite:
		return "SQLite database (grocer.db)"
	default:
		return unknownDescription
	}
}

// AIProvider identifies the LLM service used for title normalisation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// AllLLMProviders returns every provider in menu order.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama}
}

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the environment variable consulted when no key is configured.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// DefaultLLMModels returns the default model per provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// DefaultOllamaURL is the base URL of a local Ollama instance.
const DefaultOllamaURL = "http://localhost:11434"

// StorageSettings holds persistence configuration.
type StorageSettings struct {
	// Backend selects the store implementation.
	Backend StorageBackend

	// DataDir is the directory holding the data files. Empty means ~/.grocer/data.
	DataDir string
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// RequestsPerMinute paces title normalisation calls. Zero disables pacing.
	RequestsPerMinute int
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ImportSettings holds defaults for the import command.
type ImportSettings struct {
	// GroceryOnly keeps only rows the classifier accepts as grocery purchases.
	GroceryOnly bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Storage holds persistence settings.
	Storage StorageSettings

	// LLM holds title normalisation provider settings.
	LLM LLMSettings

	// Import holds import defaults.
	Import ImportSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM defaults to OpenAI, matching the export format the importer targets,
// but stays unconfigured until an API key is supplied.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Storage: StorageSettings{
			Backend: StorageJSON,
		},
		LLM: LLMSettings{
			Provider:          AIProviderOpenAI,
			Model:             "gpt-4o-mini",
			RequestsPerMinute: 120,
		},
		Import: ImportSettings{
			GroceryOnly: true,
		},
	}
}
