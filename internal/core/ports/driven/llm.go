package driven

import "context"

// LLMService answers single prompts for title normalisation.
// This is an optional service - when nil, new items keep their raw titles.
//
// Implementations may include:
//   - OpenAI (GPT-4o family)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Complete sends one system and user prompt pair and returns the reply text.
	// Failures wrap domain.ErrLLMUnavailable.
	Complete(ctx context.Context, c Completion) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// Completion is one prompt. Generation is always deterministic (temperature 0).
type Completion struct {
	// System holds the instructions.
	System string

	// User holds the input to classify.
	User string

	// MaxTokens bounds the reply. Zero uses the provider default.
	MaxTokens int

	// JSON asks the provider to answer with a single JSON object.
	JSON bool
}
