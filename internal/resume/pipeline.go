// Package resume turns an uploaded document into a structured Record by
// cascading through extraction tiers in fixed priority order: a vision
// model over rasterized pages, two text-completion providers over
// extracted text, and a deterministic regex parser that always produces
// something.
package resume

import (
	"context"
	"time"

	"internship-sniper-backend/internal/document"
	"internship-sniper-backend/internal/metrics"
	"internship-sniper-backend/internal/telemetry"
)

// Outcome classifies a single tier attempt.
type Outcome int

const (
	// OutcomeSuccess means the tier produced a usable payload.
	OutcomeSuccess Outcome = iota
	// OutcomeSkip means the tier's preconditions were not met (no pages,
	// not enough text) and it made no provider calls.
	OutcomeSkip
	// OutcomeFail means the tier tried and exhausted its attempts.
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkip:
		return "skip"
	default:
		return "fail"
	}
}

// Tier is one extraction strategy. Attempt must recover all internal
// errors and report them through the outcome; it never panics upward.
type Tier interface {
	Name() string
	Attempt(ctx context.Context, run *Run) (map[string]any, Outcome)
}

// TextSource yields best-effort plain text for a document. An empty
// result means extraction failed.
type TextSource interface {
	Extract(ctx context.Context, doc document.Document) string
}

// Run carries the per-request state shared by tiers. Document text is
// extracted at most once per run; tiers execute sequentially so no
// locking is needed.
type Run struct {
	Doc document.Document

	source   TextSource
	text     string
	textDone bool
}

// Text returns the document's extracted plain text, extracting it on
// first use and caching it for later tiers.
func (r *Run) Text(ctx context.Context) string {
	if !r.textDone {
		if r.source != nil {
			r.text = r.source.Extract(ctx, r.Doc)
		}
		r.textDone = true
	}
	return r.text
}

// Pipeline drives the tier chain. The zero value is unusable; build one
// with New.
type Pipeline struct {
	tiers []Tier
	text  TextSource
}

// New assembles a pipeline over the given text source and tiers. Tiers
// run in the order given; the final tier is expected to always succeed.
func New(text TextSource, tiers ...Tier) *Pipeline {
	return &Pipeline{tiers: tiers, text: text}
}

// Extract runs the document through the tier chain and returns the
// normalized record of the first successful tier. It never returns an
// error: if every tier fails or is skipped, the result is an empty
// record with an explanatory summary.
func (p *Pipeline) Extract(ctx context.Context, doc document.Document) Record {
	run := &Run{Doc: doc, source: p.text}
	runStart := time.Now()
	metrics.IncExtractionStarted()
	defer func() {
		metrics.ObserveExtractionDurationMs(float64(time.Since(runStart).Milliseconds()))
	}()

	for _, tier := range p.tiers {
		start := time.Now()
		raw, outcome := tier.Attempt(ctx, run)
		metrics.IncTierOutcome(tier.Name(), outcome.String())
		telemetry.Info("pipeline.tier", map[string]any{
			"tier":        tier.Name(),
			"outcome":     outcome.String(),
			"duration_ms": time.Since(start).Milliseconds(),
			"file":        doc.FileName,
		})
		if outcome == OutcomeSuccess {
			return Normalize(raw)
		}
	}
	return EmptyRecord("An error occurred while processing your resume.")
}

// sleepContext waits for d or until the context is cancelled, reporting
// whether the full wait completed.
func sleepContext(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
