package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateExternalID indicates two items claim the same marketplace identifier.
	ErrDuplicateExternalID = errors.New("duplicate external id")

	// Import Errors.

	// ErrNoRows indicates an import examined no order rows at all.
	// The import service never returns it; the CLI uses it to report the condition.
	ErrNoRows = errors.New("no order rows found")

	// AI Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Title normalisation falls back to the raw title without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrAPIKeyRequired indicates the configured LLM provider needs an API key and none was given.
	ErrAPIKeyRequired = errors.New("API key required for title normalisation")
)
