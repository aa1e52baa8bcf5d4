package cli

import (
	"bufio"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestReadPassword_NonTerminal(t *testing.T) {
	in := strings.NewReader("  sk-secret  \n")
	assert.Equal(t, "sk-secret", readPassword(in, bufio.NewReader(in)))
}

func TestSettingsShow(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.Settings.Settings.LLM.APIKey = "sk-1234567890abcdef"
	svc.Settings.Settings.Storage.DataDir = "/data/grocer"

	out, err := runCLI(t, "", "settings")
	require.NoError(t, err)

	assert.Contains(t, out, "[Storage]")
	assert.Contains(t, out, "Backend: JSON files")
	assert.Contains(t, out, "Data Dir: /data/grocer")
	assert.Contains(t, out, "[LLM]")
	assert.Contains(t, out, "Provider: OpenAI (cloud)")
	assert.Contains(t, out, "Model: gpt-4o-mini")
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.Contains(t, out, "Rate Limit: 120 requests/min")
	assert.Contains(t, out, "Status: configured")
	assert.Contains(t, out, "[Import]")
	assert.Contains(t, out, "Grocery Only: yes")
	assert.Contains(t, out, "Configuration is valid.")
	assert.NotContains(t, out, "Base URL")
}

func TestSettingsShow_Unconfigured(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.Settings.ValidateErr = errors.New("openai requires an API key")

	out, err := runCLI(t, "", "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Data Dir: (default)")
	assert.Contains(t, out, "API Key: (not set, or set OPENAI_API_KEY)")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Warning: openai requires an API key")
}

func TestSettingsShow_Ollama(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.Settings.Settings.LLM = domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
		BaseURL:  domain.DefaultOllamaURL,
	}

	out, err := runCLI(t, "", "settings", "show")
	require.NoError(t, err)

	assert.Contains(t, out, "Base URL: "+domain.DefaultOllamaURL)
	assert.Contains(t, out, "Rate Limit: none")
	assert.NotContains(t, out, "API Key")
}

func TestSettingsShow_GetError(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.Settings.GetErr = errors.New("bad toml")

	_, err := runCLI(t, "", "settings", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get settings: bad toml")
}

func TestSettingsLLM(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCLI(t, "2\n\nsk-ant-1234567890\n", "settings", "llm")
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderAnthropic, svc.Settings.Settings.LLM.Provider)
	assert.Equal(t, domain.DefaultLLMModels()[domain.AIProviderAnthropic], svc.Settings.Settings.LLM.Model)
	assert.Equal(t, "sk-ant-1234567890", svc.Settings.Settings.LLM.APIKey)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Contains(t, out, "LLM provider configured: Anthropic (cloud)")
}

func TestSettingsLLM_LocalSkipsKey(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCLI(t, "3\nqwen2.5\n", "settings", "llm")
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOllama, svc.Settings.Settings.LLM.Provider)
	assert.Equal(t, "qwen2.5", svc.Settings.Settings.LLM.Model)
	assert.Empty(t, svc.Settings.Settings.LLM.APIKey)
	assert.NotContains(t, out, "Enter API key")
}

func TestSettingsLLM_ValidationFails(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.Settings.LLMErr = errors.New("connection refused")

	out, err := runCLI(t, "3\n\n", "settings", "llm")
	require.Error(t, err)

	assert.Contains(t, out, "FAILED: connection refused")
	assert.Contains(t, err.Error(), "LLM configuration validation failed")
}

func TestSettingsStorage(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCLI(t, "2\n/srv/grocer\n", "settings", "storage")
	require.NoError(t, err)

	assert.Equal(t, domain.StorageSQLite, svc.Settings.Settings.Storage.Backend)
	assert.Equal(t, "/srv/grocer", svc.Settings.Settings.Storage.DataDir)
	assert.Contains(t, out, "Storage configured: SQLite database")
	assert.Contains(t, out, "existing items were not copied")
}

func TestSettingsStorage_KeepsCurrent(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()
	svc.Settings.Settings.Storage = domain.StorageSettings{Backend: domain.StorageSQLite, DataDir: "/srv/grocer"}

	out, err := runCLI(t, "\n\n", "settings", "storage")
	require.NoError(t, err)

	assert.Contains(t, out, "Enter choice [2]")
	assert.Equal(t, domain.StorageSQLite, svc.Settings.Settings.Storage.Backend)
	assert.Equal(t, "/srv/grocer", svc.Settings.Settings.Storage.DataDir)
	assert.NotContains(t, out, "not copied")
}

func TestSettingsGroceryOnly(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	out, err := runCLI(t, "", "settings", "grocery-only", "false")
	require.NoError(t, err)
	assert.False(t, svc.Settings.Settings.Import.GroceryOnly)
	assert.Contains(t, out, "Grocery-only imports: no")

	_, err = runCLI(t, "", "settings", "grocery-only", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid value "maybe"`)
}

func TestSettingsCmds_ServiceNotConfigured(t *testing.T) {
	for _, args := range [][]string{
		{"settings", "show"},
		{"settings", "llm"},
		{"settings", "storage"},
		{"settings", "grocery-only", "true"},
	} {
		t.Run(args[1], func(t *testing.T) {
			_, cleanup := setupTestServices()
			defer cleanup()
			settingsService = nil

			_, err := runCLI(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "settings service not configured")
		})
	}
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}
