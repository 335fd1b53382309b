// Package docs queries the Keboola AI service for documentation
// answers. The service lives on the ai. subdomain of the project's
// stack and authenticates with the storage token header.
package docs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const tokenHeader = "X-StorageAPI-Token" //nolint:gosec // header name, not a credential

// Answer is the AI service response to a documentation question
type Answer struct {
	Text       string   `json:"text"`
	SourceURLs []string `json:"sourceUrls"`
}

// Client is a minimal AI service client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the AI service at baseURL
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Question asks the documentation endpoint and returns the answer with
// its source URLs.
func (c *Client) Question(ctx context.Context, query string) (Answer, error) {
	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return Answer{}, fmt.Errorf("failed to marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/docs/question", bytes.NewReader(payload))
	if err != nil {
		return Answer{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Answer{}, fmt.Errorf("docs request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Answer{}, fmt.Errorf("docs request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var answer Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return Answer{}, fmt.Errorf("failed to decode docs response: %w", err)
	}
	return answer, nil
}
