// Package titles turns raw marketplace product titles into canonical item
// fields.
//
// LLMNormaliser asks a chat model for a JSON classification and paces its
// calls with a token bucket. FallbackNormaliser never leaves the process and
// keeps the raw title. Both satisfy driven.TitleNormaliser and never fail:
// any error degrades to domain.FallbackTitleInfo.
package titles
