package ai

import (
	"context"
	"time"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
)

// DefaultPingTimeout bounds how long validation waits for the provider.
const DefaultPingTimeout = 5 * time.Second

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks LLM settings by pinging the provider they name.
type ConfigValidator struct {
	timeout time.Duration
}

// NewConfigValidator creates a validator using DefaultPingTimeout.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{timeout: DefaultPingTimeout}
}

// WithTimeout sets the ping timeout.
func (v *ConfigValidator) WithTimeout(d time.Duration) *ConfigValidator {
	v.timeout = d
	return v
}

// ValidateLLM pings the configured provider. Unconfigured settings pass,
// since imports can still run with --offline.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()
	return svc.Ping(ctx)
}
