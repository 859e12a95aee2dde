// Package jobsearch aggregates internship listings by fanning search
// queries out to a web-search API, one query per job platform, and
// scoring the merged results against the caller's skills.
package jobsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const serperBaseURL = "https://google.serper.dev/search"

// OrganicResult is one organic search hit.
type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// SerperClient calls the Serper.dev search API.
type SerperClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewSerperClient constructs a client.
func NewSerperClient(apiKey string) *SerperClient {
	return NewSerperClientWithBaseURL(apiKey, serperBaseURL)
}

// NewSerperClientWithBaseURL constructs a client pointing at a custom
// endpoint (for testing).
func NewSerperClientWithBaseURL(apiKey, baseURL string) *SerperClient {
	return &SerperClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type serperRequest struct {
	Q     string `json:"q"`
	GL    string `json:"gl"`
	HL    string `json:"hl"`
	Num   int    `json:"num"`
	Start int    `json:"start,omitempty"`
}

type serperResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// Search runs one search query and returns its organic results.
func (c *SerperClient) Search(ctx context.Context, query, countryCode string, num, start int) ([]OrganicResult, error) {
	payload, err := json.Marshal(serperRequest{
		Q:     query,
		GL:    countryCode,
		HL:    "en",
		Num:   num,
		Start: start,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper status %d", resp.StatusCode)
	}

	var parsed serperResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("serper response parse: %w", err)
	}
	return parsed.Organic, nil
}
