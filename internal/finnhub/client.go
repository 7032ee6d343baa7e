package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amityadav/scout/internal/search"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Client fetches market news from the Finnhub API. Finnhub's news feed is
// not query-addressable, so results are filtered client-side against the
// query terms.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "finnhub"
}

// Available reports whether an API key is configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// article is one entry of Finnhub's news feed
type article struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"` // unix seconds
	Headline string `json:"headline"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// Search implements the search.Provider interface against /news
func (c *Client) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	start := time.Now()

	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key is not set")
	}

	params := url.Values{}
	params.Set("category", "general")
	params.Set("token", c.apiKey)
	endpoint := fmt.Sprintf("%s/news?%s", c.baseURL, params.Encode())

	log.Printf("[Finnhub] Fetching market news for query: %q", query)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("finnhub rate limit exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var articles []article
	if err := json.NewDecoder(resp.Body).Decode(&articles); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var cutoff time.Time
	if days > 0 {
		cutoff = time.Now().AddDate(0, 0, -days)
	}
	terms := queryTerms(query)

	var results []search.Result
	for _, a := range articles {
		published := time.Unix(a.Datetime, 0)
		if !cutoff.IsZero() && published.Before(cutoff) {
			continue
		}
		if !matchesTerms(a.Headline+" "+a.Summary, terms) {
			continue
		}
		results = append(results, search.Result{
			Title:         a.Headline,
			Snippet:       a.Summary,
			URL:           a.URL,
			SourceDomain:  search.ExtractDomain(a.URL),
			PublishedDate: published.Format("2006-01-02"),
			Provider:      c.Name(),
		})
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
	}

	log.Printf("[Finnhub] %d of %d articles matched query %q", len(results), len(articles), query)
	return &search.Response{
		Query:    query,
		Results:  results,
		Provider: c.Name(),
		Success:  true,
		Elapsed:  time.Since(start),
	}, nil
}

// queryTerms splits a query into lower-cased match terms
func queryTerms(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// matchesTerms reports whether any query term appears in the text.
// An empty term list matches everything.
func matchesTerms(text string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	lowered := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
