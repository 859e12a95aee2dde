package chatapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"internship-sniper-backend/internal/llm"
)

func TestCompleteReturnsFirstChoice(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": `{"name":"Jane"}`}},
			},
		})
	}))
	defer srv.Close()

	c := New("do-qwen3", srv.URL, "test-key", "alibaba-qwen3-32b", 5*time.Second)
	out, err := c.Complete(context.Background(), []Message{
		{Role: "system", Content: "You are a resume parser."},
		{Role: "user", Content: "Parse this."},
	}, 3000, 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"name":"Jane"}` {
		t.Fatalf("unexpected content: %q", out)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %q", gotAuth)
	}
	if gotReq.Model != "alibaba-qwen3-32b" || gotReq.MaxTokens != 3000 || gotReq.Temperature != 0.1 {
		t.Fatalf("unexpected request body: %+v", gotReq)
	}
}

func TestCompleteRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer srv.Close()

	c := New("nvidia-kimi", srv.URL, "k", "moonshotai/kimi-k2.5", 5*time.Second)
	_, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100, 0.1)

	var rl *llm.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rl.Provider != "nvidia-kimi" {
		t.Fatalf("unexpected provider: %s", rl.Provider)
	}
}

func TestCompleteErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model not found","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	c := New("do-qwen3", srv.URL, "k", "bad-model", 5*time.Second)
	if _, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100, 0.1); err == nil {
		t.Fatal("expected error for error body")
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := New("do-qwen3", srv.URL, "k", "m", 5*time.Second)
	if _, err := c.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}}, 100, 0.1); err == nil {
		t.Fatal("expected error for empty choices")
	}
}
