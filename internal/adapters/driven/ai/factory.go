// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"fmt"

	anthropicllm "github.com/custodia-labs/grocer-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/grocer-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/grocer-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/titles"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

// Ensure NormaliserFactory implements the interface.
var _ driven.TitleNormaliserFactory = (*NormaliserFactory)(nil)

// NormaliserFactory builds title normalisers from LLM settings.
type NormaliserFactory struct {
	prompts driven.PromptStore
}

// NewNormaliserFactory creates a factory. prompts may be nil.
func NewNormaliserFactory(prompts driven.PromptStore) *NormaliserFactory {
	return &NormaliserFactory{prompts: prompts}
}

// Create returns an LLM-backed normaliser paced by settings.RequestsPerMinute.
func (f *NormaliserFactory) Create(settings domain.LLMSettings) (driven.TitleNormaliser, error) {
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrAPIKeyRequired, settings.Provider.APIKeyEnv())
	}

	svc, err := CreateLLMService(&settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, domain.ErrLLMUnavailable
	}

	return titles.NewLLMNormaliser(svc, f.prompts, settings.RequestsPerMinute), nil
}

// Fallback returns a normaliser that keeps raw titles.
func (f *NormaliserFactory) Fallback() driven.TitleNormaliser {
	return titles.FallbackNormaliser{}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
