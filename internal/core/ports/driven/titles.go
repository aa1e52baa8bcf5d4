package driven

import (
	"context"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// TitleNormaliser turns a raw marketplace title into canonical item fields.
// Normalise never fails: on any error it returns domain.FallbackTitleInfo.
type TitleNormaliser interface {
	// Normalise classifies one raw product title.
	Normalise(ctx context.Context, rawTitle string) domain.TitleInfo

	// Close releases resources.
	Close() error
}

// TitleNormaliserFactory builds normalisers for an import run.
type TitleNormaliserFactory interface {
	// Create returns an LLM-backed normaliser for the settings.
	// Returns domain.ErrAPIKeyRequired when the provider needs a key and none is set.
	Create(settings domain.LLMSettings) (TitleNormaliser, error)

	// Fallback returns a normaliser that never leaves the process.
	Fallback() TitleNormaliser
}
