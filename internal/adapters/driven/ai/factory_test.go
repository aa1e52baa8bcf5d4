package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/titles"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{"nil settings returns nil", nil, true, ""},
		{"unconfigured settings returns nil", &domain.LLMSettings{}, true, ""},
		{"cloud provider without key returns nil", &domain.LLMSettings{Provider: domain.AIProviderOpenAI}, true, ""},
		{
			name:      "ollama",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk", Model: "gpt-4o-mini"},
			wantModel: "gpt-4o-mini",
		},
		{
			name:      "anthropic",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "sk", Model: "claude-3-5-haiku-latest"},
			wantModel: "claude-3-5-haiku-latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			assert.Equal(t, tt.wantModel, svc.ModelName())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateLLMService_UnknownProvider(t *testing.T) {
	_, err := CreateLLMService(&domain.LLMSettings{Provider: "mistral"})
	assert.NoError(t, err, "an invalid provider is treated as unconfigured")
}

func TestNormaliserFactory_Create(t *testing.T) {
	f := NewNormaliserFactory(nil)

	n, err := f.Create(domain.LLMSettings{Provider: domain.AIProviderOllama, RequestsPerMinute: 60})
	require.NoError(t, err)
	assert.IsType(t, &titles.LLMNormaliser{}, n)
	assert.NoError(t, n.Close())

	n, err = f.Create(domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk"})
	require.NoError(t, err)
	assert.IsType(t, &titles.LLMNormaliser{}, n)
}

func TestNormaliserFactory_CreateErrors(t *testing.T) {
	f := NewNormaliserFactory(nil)

	_, err := f.Create(domain.LLMSettings{Provider: domain.AIProviderAnthropic})
	require.ErrorIs(t, err, domain.ErrAPIKeyRequired)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")

	_, err = f.Create(domain.LLMSettings{Provider: "mistral"})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestNormaliserFactory_Fallback(t *testing.T) {
	n := NewNormaliserFactory(nil).Fallback()
	assert.Equal(t, titles.FallbackNormaliser{}, n)
}
