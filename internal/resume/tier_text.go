package resume

import (
	"context"
	"strings"
	"time"
	"unicode"

	"internship-sniper-backend/internal/llm"
	"internship-sniper-backend/internal/llm/chatapi"
	"internship-sniper-backend/internal/telemetry"
	"internship-sniper-backend/internal/util"
)

// Extracted text shorter than this is considered unusable for any
// text-driven tier.
const minExtractableChars = 10

const textTemperature = 0.1

// TextTier sends a capped prefix of the document text to one
// chat-completion provider. A parse result without a non-empty name is
// treated as a failed call even when the JSON itself is valid.
type TextTier struct {
	tierName  string
	client    ChatClient
	promptCap int
	maxTokens int
	timeout   time.Duration
	messages  func(text string) []chatapi.Message
}

// ChatClient is the slice of the chatapi client the text tiers need.
type ChatClient interface {
	Complete(ctx context.Context, messages []chatapi.Message, maxTokens int, temperature float32) (string, error)
	Provider() string
}

// NewQwenTier builds the first text tier (DigitalOcean serverless
// inference, Qwen3 32B).
func NewQwenTier(client ChatClient) *TextTier {
	return &TextTier{
		tierName:  "text-qwen",
		client:    client,
		promptCap: 8000,
		maxTokens: 3000,
		timeout:   45 * time.Second,
		messages:  qwenMessages,
	}
}

// NewKimiTier builds the second text tier (NVIDIA integrate API, Kimi
// K2.5). The larger prompt cap and token budget reflect the slower,
// larger model.
func NewKimiTier(client ChatClient) *TextTier {
	return &TextTier{
		tierName:  "text-kimi",
		client:    client,
		promptCap: 10000,
		maxTokens: 4000,
		timeout:   90 * time.Second,
		messages:  kimiMessages,
	}
}

func (t *TextTier) Name() string { return t.tierName }

func (t *TextTier) Attempt(ctx context.Context, run *Run) (map[string]any, Outcome) {
	text := run.Text(ctx)
	if nonSpaceCount(text) < minExtractableChars {
		return nil, OutcomeSkip
	}

	callCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	content, err := t.client.Complete(callCtx, t.messages(util.Truncate(text, t.promptCap)), t.maxTokens, textTemperature)
	if err != nil {
		telemetry.Warn("pipeline.text.call_failed", map[string]any{
			"tier":       t.tierName,
			"provider":   t.client.Provider(),
			"rate_limit": llm.IsRateLimit(err),
			"error":      util.Truncate(err.Error(), 200),
		})
		return nil, OutcomeFail
	}

	parsed, ok := llm.CleanAndParseJSON(content)
	if !ok {
		telemetry.Warn("pipeline.text.invalid_json", map[string]any{
			"tier": t.tierName,
			"raw":  util.Truncate(content, 200),
		})
		return nil, OutcomeFail
	}

	// A valid object without a name is a semantically empty extraction.
	if name, _ := parsed["name"].(string); strings.TrimSpace(name) == "" {
		telemetry.Warn("pipeline.text.missing_name", map[string]any{"tier": t.tierName})
		return nil, OutcomeFail
	}
	return parsed, OutcomeSuccess
}

func nonSpaceCount(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
