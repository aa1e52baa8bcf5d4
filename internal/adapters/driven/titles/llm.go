package titles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grocer-cli/internal/logger"
)

var (
	_ driven.TitleNormaliser  = (*LLMNormaliser)(nil)
	_ driven.PromptStoreAware = (*LLMNormaliser)(nil)
)

// maxReplyTokens bounds the classification reply; the JSON object is small.
const maxReplyTokens = 200

// defaultSystemPrompt is used when no prompt store is configured.
const defaultSystemPrompt = driven.DefaultTitleNormalisePrompt

// errNoJSON is returned when a reply holds no JSON object.
var errNoJSON = errors.New("reply holds no JSON object")

// titleReply is the JSON object the model is asked to return.
type titleReply struct {
	CanonicalName string `json:"canonical_name"`
	Category      string `json:"category"`
	Brand         string `json:"brand"`
	UnitSize      string `json:"unit_size"`
}

// LLMNormaliser classifies titles with a chat model.
type LLMNormaliser struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	limiter *rate.Limiter
}

// NewLLMNormaliser creates a normaliser backed by llm.
// requestsPerMinute paces calls; zero or less disables pacing.
// prompts may be nil, in which case the built-in system prompt is used.
func NewLLMNormaliser(llm driven.LLMService, prompts driven.PromptStore, requestsPerMinute int) *LLMNormaliser {
	n := &LLMNormaliser{llm: llm, prompts: prompts}
	if requestsPerMinute > 0 {
		n.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1)
	}
	return n
}

// SetPromptStore sets the prompt store for loading the system prompt.
func (n *LLMNormaliser) SetPromptStore(store driven.PromptStore) {
	n.prompts = store
}

// Normalise classifies rawTitle, falling back on any failure.
func (n *LLMNormaliser) Normalise(ctx context.Context, rawTitle string) domain.TitleInfo {
	fallback := domain.FallbackTitleInfo(rawTitle)

	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			logger.Warn("title normalisation skipped for %q: %v", rawTitle, err)
			return fallback
		}
	}

	reply, err := n.llm.Complete(ctx, driven.Completion{
		System:    n.systemPrompt(),
		User:      fmt.Sprintf("Product title: %q", rawTitle),
		MaxTokens: maxReplyTokens,
		JSON:      true,
	})
	if err != nil {
		logger.Warn("title normalisation failed for %q: %v", rawTitle, err)
		return fallback
	}

	info, err := parseReply(reply, fallback)
	if err != nil {
		logger.Warn("title normalisation returned an unusable reply for %q: %v", rawTitle, err)
		return fallback
	}
	logger.Debug("normalised %q -> %s (%s)", rawTitle, info.CanonicalName, info.Category)
	return info
}

// Close releases the underlying LLM service.
func (n *LLMNormaliser) Close() error {
	return n.llm.Close()
}

func (n *LLMNormaliser) systemPrompt() string {
	if n.prompts == nil {
		return defaultSystemPrompt
	}
	prompt, err := n.prompts.Load(driven.PromptTitleNormalise)
	if err != nil || prompt == "" {
		return defaultSystemPrompt
	}
	return prompt
}

// parseReply decodes the model's JSON object. Fields the model left out or
// blank keep their fallback values; categories outside the fixed set become "other".
func parseReply(reply string, fallback domain.TitleInfo) (domain.TitleInfo, error) {
	body, err := extractObject(reply)
	if err != nil {
		return fallback, err
	}

	var r titleReply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return fallback, fmt.Errorf("decode reply: %w", err)
	}

	info := fallback
	if name := strings.TrimSpace(r.CanonicalName); name != "" {
		info.CanonicalName = name
	}
	if r.Category != "" {
		info.Category = domain.ParseCategory(r.Category)
	}
	info.Brand = strings.TrimSpace(r.Brand)
	info.UnitSize = strings.TrimSpace(r.UnitSize)
	return info, nil
}

// extractObject returns the outermost {...} span, tolerating markdown fences
// and chatter around the object.
func extractObject(reply string) (string, error) {
	start := strings.IndexByte(reply, '{')
	end := strings.LastIndexByte(reply, '}')
	if start < 0 || end < start {
		return "", errNoJSON
	}
	return reply[start : end+1], nil
}
