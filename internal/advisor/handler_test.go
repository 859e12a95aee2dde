package advisor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeFitValidation(t *testing.T) {
	r := newRouter(NewService(nil, nil, nil))

	w := postJSON(r, "/api/analyze-fit", `{"resume":"only resume"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAnalyzeFitEndpoint(t *testing.T) {
	gem := &fakeGemini{text: `{"matchPercentage": 90}`}
	r := newRouter(NewService(gem, nil, nil))

	w := postJSON(r, "/api/analyze-fit", `{"resume":"r","jobDescription":"jd"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["matchPercentage"] != float64(90) {
		t.Fatalf("body = %v", out)
	}
}

func TestAIChatAcceptsObjectContext(t *testing.T) {
	gem := &fakeGemini{text: `{"message":"ok","suggestion":null}`}
	r := newRouter(NewService(gem, nil, nil))

	w := postJSON(r, "/api/ai-chat", `{"query":"help","resumeContext":{"name":"Jane"},"conversationHistory":[]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(gem.prompts[0], `{"name":"Jane"}`) {
		t.Fatalf("prompt missing context:\n%s", gem.prompts[0])
	}
}

func TestTailorResumeValidation(t *testing.T) {
	r := newRouter(NewService(nil, nil, nil))

	w := postJSON(r, "/api/tailor-resume", `{"jobDescription":"jd"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestTailorResumeNoProvidersReturnsOriginal(t *testing.T) {
	r := newRouter(NewService(nil, nil, nil))

	w := postJSON(r, "/api/tailor-resume", `{"resumeData":{"name":"Jane"},"jobDescription":"jd"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out TailorResult
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Warning == "" {
		t.Fatal("expected warning")
	}
	data, ok := out.TailoredData.(map[string]any)
	if !ok || data["name"] != "Jane" {
		t.Fatalf("tailoredData = %v", out.TailoredData)
	}
}

func TestMarketFitDegradedEndpoint(t *testing.T) {
	r := newRouter(NewService(nil, nil, nil))

	w := postJSON(r, "/api/analyze-market-fit", `{"resumeContext":{"title":"dev"},"country":"India"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, present := out["analysis"]; !present {
		t.Fatalf("expected analysis key in degraded response, body = %s", w.Body.String())
	}
}
