package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"internship-sniper-backend/internal/llm"
)

const apiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// InlinePart is an image attached to a generation request.
type InlinePart struct {
	MIMEType string
	Data     []byte
}

// Client calls Google's Gemini generateContent API. One client serves both
// the vision tier (prompt plus page images) and the thin text endpoints
// (prompt only).
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New constructs a Gemini client.
func New(apiKey string) *Client {
	return NewWithBaseURL(apiKey, apiBaseURL)
}

// NewWithBaseURL constructs a client pointing at a custom endpoint (for
// testing).
func NewWithBaseURL(apiKey, baseURL string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 120 * time.Second},
	}
}

type generatePart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Role  string         `json:"role"`
	Parts []generatePart `json:"parts"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends a prompt (and optional inline images) to the given
// model and returns the first candidate's text.
func (c *Client) GenerateContent(ctx context.Context, model, prompt string, images []InlinePart) (string, error) {
	parts := make([]generatePart, 0, len(images)+1)
	parts = append(parts, generatePart{Text: prompt})
	for _, img := range images {
		parts = append(parts, generatePart{
			InlineData: &inlineData{
				MIMEType: img.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return "", fmt.Errorf("gemini request marshal: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini response read: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode != http.StatusOK && isQuotaBody(respBody)) {
		return "", &llm.RateLimitError{
			Provider: "gemini",
			Err:      fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(respBody), 200)),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var parsed generateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("gemini response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("gemini error: %s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini response missing candidates")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return text.String(), nil
}

func isQuotaBody(body []byte) bool {
	return bytes.Contains(body, []byte("RESOURCE_EXHAUSTED")) ||
		bytes.Contains(body, []byte("quota"))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
