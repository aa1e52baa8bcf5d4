package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// If the prompt is not found, implementations should return a sensible default
	// or an error, depending on whether the prompt is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptTitleNormalise is the system prompt for title normalisation.
	// It must ask for a JSON object with canonical_name, category, brand and
	// unit_size keys. The template has no format placeholders.
	PromptTitleNormalise = "title_normalise"
)

// DefaultTitleNormalisePrompt is the built-in PromptTitleNormalise template.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
const DefaultTitleNormalisePrompt = `You are a grocery item classifier. Given an Amazon product title, extract structured information.

Respond with valid JSON only, no markdown and no explanation. Use this exact schema:
{
  "canonical_name": "short common name (e.g. Whole Milk, Sourdough Bread, Ground Beef 80/20)",
  "category": "one of: dairy, produce, meat, bakery, pantry, frozen, beverages, snacks, household, other",
  "brand": "brand name or empty string if none",
  "unit_size": "package size (e.g. 1 gallon, 12 oz, 1 lb) or empty string if unclear"
}`

// PromptStoreAware is an optional interface for services that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the service should use its built-in default prompt.
	SetPromptStore(store PromptStore)
}
