package exa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/amityadav/scout/internal/search"
)

const defaultAPIURL = "https://api.exa.ai/search"

// snippetLimit truncates Exa summaries, which can run to full paragraphs
const snippetLimit = 500

// Client is an Exa search API client. Several API keys may be configured;
// requests rotate through them round-robin. The rotation index is the only
// mutable state and is guarded by a mutex so the client can be shared
// across concurrent queries.
type Client struct {
	apiURL string
	client *http.Client

	mu   sync.Mutex
	keys []string
	next int
}

// NewClient creates an Exa client over the given API keys, skipping blanks
func NewClient(apiKeys []string) *Client {
	var keys []string
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return &Client{
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: 30 * time.Second},
		keys:   keys,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "exa"
}

// Available reports whether at least one API key is configured
func (c *Client) Available() bool {
	return len(c.keys) > 0
}

// nextKey returns the next API key in rotation
func (c *Client) nextKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.keys[c.next%len(c.keys)]
	c.next++
	return key
}

// searchRequest is the Exa search payload
type searchRequest struct {
	Query              string `json:"query"`
	NumResults         int    `json:"numResults"`
	Type               string `json:"type"` // "keyword", "neural" or "auto"
	StartPublishedDate string `json:"startPublishedDate,omitempty"`
	Contents           struct {
		Summary bool `json:"summary"`
	} `json:"contents"`
}

// searchResult is a single Exa hit
type searchResult struct {
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate,omitempty"`
	Summary       string `json:"summary,omitempty"`
	Text          string `json:"text,omitempty"`
}

// searchResponse is the Exa search response
type searchResponse struct {
	Results []searchResult `json:"results"`
}

// Search implements the search.Provider interface
func (c *Client) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	start := time.Now()

	if !c.Available() {
		return nil, fmt.Errorf("no Exa API keys configured")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	reqBody := searchRequest{
		Query:      query,
		NumResults: maxResults,
		Type:       "auto",
	}
	reqBody.Contents.Summary = true
	if days > 0 {
		reqBody.StartPublishedDate = time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	log.Printf("[Exa] Searching for: %q (max %d results, days=%d)", query, maxResults, days)

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.nextKey())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("exa rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	log.Printf("[Exa] Found %d results for query: %s", len(parsed.Results), query)

	results := make([]search.Result, len(parsed.Results))
	for i, r := range parsed.Results {
		snippet := r.Summary
		if snippet == "" {
			snippet = r.Text
		}
		if len(snippet) > snippetLimit {
			snippet = snippet[:snippetLimit]
		}
		results[i] = search.Result{
			Title:         r.Title,
			URL:           r.URL,
			Snippet:       snippet,
			SourceDomain:  search.ExtractDomain(r.URL),
			PublishedDate: r.PublishedDate,
			Provider:      c.Name(),
		}
	}
	return &search.Response{
		Query:    query,
		Results:  results,
		Provider: c.Name(),
		Success:  true,
		Elapsed:  time.Since(start),
	}, nil
}
