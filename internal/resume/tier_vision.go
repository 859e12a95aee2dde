package resume

import (
	"context"
	"errors"
	"time"

	"internship-sniper-backend/internal/document"
	"internship-sniper-backend/internal/llm"
	"internship-sniper-backend/internal/llm/gemini"
	"internship-sniper-backend/internal/telemetry"
	"internship-sniper-backend/internal/util"
)

const (
	visionAttemptsPerModel = 2
	visionBackoff          = 5 * time.Second
)

var defaultVisionModels = []string{"gemini-2.0-flash-lite", "gemini-2.0-flash"}

// VisionClient is the slice of the Gemini client the vision tier needs.
type VisionClient interface {
	GenerateContent(ctx context.Context, model, prompt string, images []gemini.InlinePart) (string, error)
}

// PageSource renders a document into standalone page images.
type PageSource interface {
	Rasterize(ctx context.Context, doc document.Document) ([]document.Page, error)
}

// VisionTier sends rasterized pages to a vision-capable model. Models are
// tried in order; a rate-limited call waits out a fixed backoff and
// retries the same model once before moving on.
type VisionTier struct {
	Client  VisionClient
	Raster  PageSource
	Models  []string
	Backoff time.Duration
}

// NewVisionTier builds the tier with the default model order and backoff.
func NewVisionTier(client VisionClient, raster PageSource) *VisionTier {
	return &VisionTier{Client: client, Raster: raster}
}

func (t *VisionTier) Name() string { return "vision" }

func (t *VisionTier) Attempt(ctx context.Context, run *Run) (map[string]any, Outcome) {
	pages, err := t.Raster.Rasterize(ctx, run.Doc)
	if err != nil {
		if !errors.Is(err, document.ErrUnsupportedFormat) && !errors.Is(err, document.ErrNoPages) {
			telemetry.Warn("pipeline.vision.raster_failed", map[string]any{"error": err.Error()})
		}
		return nil, OutcomeSkip
	}

	images := make([]gemini.InlinePart, len(pages))
	for i, p := range pages {
		images[i] = gemini.InlinePart{MIMEType: p.MIMEType, Data: p.Data}
	}

	models := t.Models
	if len(models) == 0 {
		models = defaultVisionModels
	}
	backoff := t.Backoff
	if backoff <= 0 {
		backoff = visionBackoff
	}

	for _, model := range models {
		for attempt := 0; attempt < visionAttemptsPerModel; attempt++ {
			text, err := t.Client.GenerateContent(ctx, model, visionPrompt, images)
			if err != nil {
				telemetry.Warn("pipeline.vision.call_failed", map[string]any{
					"model":   model,
					"attempt": attempt + 1,
					"error":   util.Truncate(err.Error(), 200),
				})
				if llm.IsRateLimit(err) {
					if !sleepContext(ctx, backoff) {
						return nil, OutcomeFail
					}
					continue
				}
				break
			}

			parsed, ok := llm.CleanAndParseJSON(text)
			if !ok {
				telemetry.Warn("pipeline.vision.invalid_json", map[string]any{
					"model": model,
					"raw":   util.Truncate(text, 200),
				})
				break
			}
			return parsed, OutcomeSuccess
		}
	}
	return nil, OutcomeFail
}
