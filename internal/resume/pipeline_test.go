package resume

import (
	"context"
	"errors"
	"testing"
	"time"

	"internship-sniper-backend/internal/document"
	"internship-sniper-backend/internal/llm"
	"internship-sniper-backend/internal/llm/chatapi"
	"internship-sniper-backend/internal/llm/gemini"
)

type stubTextSource struct {
	text  string
	calls int
}

func (s *stubTextSource) Extract(ctx context.Context, doc document.Document) string {
	s.calls++
	return s.text
}

type stubRaster struct {
	pages []document.Page
	err   error
}

func (s stubRaster) Rasterize(ctx context.Context, doc document.Document) ([]document.Page, error) {
	return s.pages, s.err
}

type visionReply struct {
	text string
	err  error
}

// scriptedVision replays a fixed sequence of replies and records the
// model requested for each call.
type scriptedVision struct {
	replies []visionReply
	models  []string
}

func (s *scriptedVision) GenerateContent(ctx context.Context, model, prompt string, images []gemini.InlinePart) (string, error) {
	s.models = append(s.models, model)
	i := len(s.models) - 1
	if i >= len(s.replies) {
		return "", errors.New("unscripted call")
	}
	return s.replies[i].text, s.replies[i].err
}

type stubChat struct {
	provider string
	content  string
	err      error
	calls    int
	log      *[]string
}

func (s *stubChat) Complete(ctx context.Context, messages []chatapi.Message, maxTokens int, temperature float32) (string, error) {
	s.calls++
	if s.log != nil {
		*s.log = append(*s.log, s.provider)
	}
	return s.content, s.err
}

func (s *stubChat) Provider() string { return s.provider }

func testDoc() document.Document {
	return document.Document{Data: []byte("%PDF-1.4"), ContentType: "application/pdf", FileName: "resume.pdf"}
}

func onePage() []document.Page {
	return []document.Page{{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}}
}

func TestPipelineTierOrderingAllFail(t *testing.T) {
	var order []string

	vision := &scriptedVision{replies: []visionReply{
		{err: errors.New("boom")},
		{err: errors.New("boom")},
	}}
	chatA := &stubChat{provider: "do-qwen3", err: errors.New("boom"), log: &order}
	chatB := &stubChat{provider: "nvidia-kimi", err: errors.New("boom"), log: &order}
	src := &stubTextSource{text: janeDoeResume}

	p := New(src,
		NewVisionTier(vision, stubRaster{pages: onePage()}),
		NewQwenTier(chatA),
		NewKimiTier(chatB),
		RegexTier{},
	)
	rec := p.Extract(context.Background(), testDoc())

	// Both vision models attempted, then A, then B, then regex wins.
	if len(vision.models) != 2 {
		t.Fatalf("vision calls = %v", vision.models)
	}
	wantOrder := []string{"do-qwen3", "nvidia-kimi"}
	if len(order) != 2 || order[0] != wantOrder[0] || order[1] != wantOrder[1] {
		t.Fatalf("text tier order = %v", order)
	}
	if rec.Name != "Jane Doe" {
		t.Fatalf("expected regex result, got name %q", rec.Name)
	}
}

func TestPipelineStopsAtFirstSuccess(t *testing.T) {
	vision := &scriptedVision{replies: []visionReply{
		{text: `{"name":"Jane Doe","email":"jane@example.com"}`},
	}}
	chatA := &stubChat{provider: "do-qwen3", content: `{"name":"never"}`}
	src := &stubTextSource{text: janeDoeResume}

	p := New(src,
		NewVisionTier(vision, stubRaster{pages: onePage()}),
		NewQwenTier(chatA),
		RegexTier{},
	)
	rec := p.Extract(context.Background(), testDoc())

	if rec.Name != "Jane Doe" || rec.Email != "jane@example.com" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if chatA.calls != 0 {
		t.Fatalf("text tier should not run after vision success, calls = %d", chatA.calls)
	}
	if src.calls != 0 {
		t.Fatalf("text should not be extracted when vision wins, calls = %d", src.calls)
	}
}

func TestVisionRateLimitRetriesSameModel(t *testing.T) {
	vision := &scriptedVision{replies: []visionReply{
		{err: &llm.RateLimitError{Provider: "gemini", Err: errors.New("status 429")}},
		{text: `{"name":"Jane Doe"}`},
	}}
	tier := NewVisionTier(vision, stubRaster{pages: onePage()})
	tier.Backoff = time.Millisecond

	run := &Run{Doc: testDoc()}
	raw, outcome := tier.Attempt(context.Background(), run)

	if outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v", outcome)
	}
	if len(vision.models) != 2 || vision.models[0] != vision.models[1] {
		t.Fatalf("expected same-model retry, calls = %v", vision.models)
	}
	if vision.models[0] != "gemini-2.0-flash-lite" {
		t.Fatalf("expected primary model first, got %q", vision.models[0])
	}
	if Normalize(raw).Name != "Jane Doe" {
		t.Fatalf("unexpected payload: %v", raw)
	}
}

func TestVisionNonRateLimitErrorAdvancesModel(t *testing.T) {
	vision := &scriptedVision{replies: []visionReply{
		{err: errors.New("400 bad request")},
		{text: `{"name":"Jane Doe"}`},
	}}
	tier := NewVisionTier(vision, stubRaster{pages: onePage()})

	_, outcome := tier.Attempt(context.Background(), &Run{Doc: testDoc()})

	if outcome != OutcomeSuccess {
		t.Fatalf("outcome = %v", outcome)
	}
	want := []string{"gemini-2.0-flash-lite", "gemini-2.0-flash"}
	if len(vision.models) != 2 || vision.models[0] != want[0] || vision.models[1] != want[1] {
		t.Fatalf("model sequence = %v", vision.models)
	}
}

func TestVisionRasterFailureSkips(t *testing.T) {
	vision := &scriptedVision{}
	tier := NewVisionTier(vision, stubRaster{err: document.ErrRasterizationFailed})

	_, outcome := tier.Attempt(context.Background(), &Run{Doc: testDoc()})

	if outcome != OutcomeSkip {
		t.Fatalf("outcome = %v", outcome)
	}
	if len(vision.models) != 0 {
		t.Fatalf("no provider call expected, got %v", vision.models)
	}
}

func TestVisionBackoffCancellable(t *testing.T) {
	vision := &scriptedVision{replies: []visionReply{
		{err: &llm.RateLimitError{Provider: "gemini", Err: errors.New("status 429")}},
	}}
	tier := NewVisionTier(vision, stubRaster{pages: onePage()})
	tier.Backoff = time.Minute

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan Outcome, 1)
	go func() {
		_, outcome := tier.Attempt(ctx, &Run{Doc: testDoc()})
		done <- outcome
	}()
	cancel()

	select {
	case outcome := <-done:
		if outcome != OutcomeFail {
			t.Fatalf("outcome = %v", outcome)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("backoff did not honor cancellation")
	}
}

func TestTextTierNameGate(t *testing.T) {
	chat := &stubChat{provider: "do-qwen3", content: `{"name":"","email":"","skills":""}`}
	tier := NewQwenTier(chat)

	run := &Run{Doc: testDoc(), source: &stubTextSource{text: janeDoeResume}}
	_, outcome := tier.Attempt(context.Background(), run)

	if outcome != OutcomeFail {
		t.Fatalf("valid JSON without a name must fail the tier, got %v", outcome)
	}
}

func TestTextTierSkipsOnShortText(t *testing.T) {
	chat := &stubChat{provider: "do-qwen3", content: `{"name":"x"}`}
	tier := NewQwenTier(chat)

	run := &Run{Doc: testDoc(), source: &stubTextSource{text: "a b c"}}
	_, outcome := tier.Attempt(context.Background(), run)

	if outcome != OutcomeSkip {
		t.Fatalf("outcome = %v", outcome)
	}
	if chat.calls != 0 {
		t.Fatalf("no provider call expected, got %d", chat.calls)
	}
}

func TestTextExtractedOncePerRun(t *testing.T) {
	src := &stubTextSource{text: janeDoeResume}
	chatA := &stubChat{provider: "do-qwen3", err: errors.New("boom")}
	chatB := &stubChat{provider: "nvidia-kimi", err: errors.New("boom")}

	p := New(src, NewQwenTier(chatA), NewKimiTier(chatB), RegexTier{})
	p.Extract(context.Background(), testDoc())

	if src.calls != 1 {
		t.Fatalf("text extracted %d times, want 1", src.calls)
	}
}

func TestPipelineWithOnlyRegexTier(t *testing.T) {
	src := &stubTextSource{text: janeDoeResume}
	p := New(src, RegexTier{})

	rec := p.Extract(context.Background(), testDoc())

	if rec.Name != "Jane Doe" {
		t.Fatalf("name = %q", rec.Name)
	}
	if len(rec.Experience) == 0 {
		t.Fatal("expected at least one experience entry")
	}
}

func TestPipelineShortTextEmptyRecord(t *testing.T) {
	src := &stubTextSource{text: "hi"}
	chat := &stubChat{provider: "do-qwen3", content: `{"name":"x"}`}
	p := New(src, NewQwenTier(chat), RegexTier{})

	rec := p.Extract(context.Background(), testDoc())

	if rec.Summary == "" {
		t.Fatal("expected explanatory summary")
	}
	if rec.Name != "" || rec.Email != "" {
		t.Fatalf("expected empty fields, got %+v", rec)
	}
	if chat.calls != 0 {
		t.Fatalf("no provider call expected, got %d", chat.calls)
	}
}
