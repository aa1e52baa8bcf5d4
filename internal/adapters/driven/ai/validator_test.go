package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	v := NewConfigValidator()
	require.NotNil(t, v)
	assert.Equal(t, DefaultPingTimeout, v.timeout)
	assert.Equal(t, time.Second, v.WithTimeout(time.Second).timeout)
}

func TestConfigValidator_ValidateLLM_NothingToValidate(t *testing.T) {
	validator := NewConfigValidator()

	// nil or unconfigured settings have nothing to ping.
	assert.NoError(t, validator.ValidateLLM(nil))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Model: "test-model"}))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOpenAI}))
}

func TestConfigValidator_ValidateLLM_Ollama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3.2:latest"}]}`))
	}))
	defer server.Close()

	validator := NewConfigValidator().WithTimeout(time.Second)
	settings := &domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL}

	assert.NoError(t, validator.ValidateLLM(settings))

	missing := *settings
	missing.Model = "mistral"
	assert.ErrorIs(t, validator.ValidateLLM(&missing), domain.ErrLLMUnavailable)

	server.Close()
	assert.ErrorIs(t, validator.ValidateLLM(settings), domain.ErrLLMUnavailable)
}

func TestConfigValidator_ValidateLLM_OpenAIRejectsKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateLLM(&domain.LLMSettings{
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-bad",
		BaseURL:  server.URL,
	})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}
