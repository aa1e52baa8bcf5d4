package titles

import (
	"context"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

var _ driven.TitleNormaliser = FallbackNormaliser{}

// FallbackNormaliser keeps the raw title as the canonical name in category "other".
type FallbackNormaliser struct{}

// Normalise returns domain.FallbackTitleInfo for the title.
func (FallbackNormaliser) Normalise(_ context.Context, rawTitle string) domain.TitleInfo {
	return domain.FallbackTitleInfo(rawTitle)
}

// Close is a no-op.
func (FallbackNormaliser) Close() error {
	return nil
}
