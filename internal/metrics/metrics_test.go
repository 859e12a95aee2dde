package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesTierOutcomes(t *testing.T) {
	IncExtractionStarted()
	IncTierOutcome("vision", "fail")
	IncTierOutcome("regex", "success")
	ObserveExtractionDurationMs(1234)

	out := Render()

	for _, want := range []string{
		"extraction_started_total",
		`extraction_tier_outcomes_total{tier="vision",outcome="fail"}`,
		`extraction_tier_outcomes_total{tier="regex",outcome="success"}`,
		"extraction_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}
