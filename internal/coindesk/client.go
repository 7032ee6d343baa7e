package coindesk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amityadav/scout/internal/search"
)

const defaultAPIURL = "https://api.coindesk.com/news/v1/article/list"

// fetchLimit is how many articles to pull before client-side filtering
const fetchLimit = 50

// Client fetches crypto news from the Coindesk News API. Like Finnhub,
// the feed is not query-addressable; articles are filtered against the
// query terms locally.
type Client struct {
	apiKey string
	apiURL string
	client *http.Client
}

// NewClient creates a new Coindesk client. The news list endpoint works
// without a key, so the provider is always available; a configured key is
// still sent for higher rate limits.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		apiURL: defaultAPIURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "coindesk"
}

// Available always reports true; no key is required for the news feed
func (c *Client) Available() bool {
	return true
}

type article struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
	Date     string `json:"date"`
}

type listResponse struct {
	Data struct {
		Articles []article `json:"articles"`
	} `json:"data"`
}

// Search implements the search.Provider interface
func (c *Client) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("limit", strconv.Itoa(fetchLimit))
	endpoint := fmt.Sprintf("%s?%s", c.apiURL, params.Encode())

	log.Printf("[Coindesk] Fetching crypto news for query: %q", query)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("api error: %d %s", resp.StatusCode, string(bodyBytes))
	}

	var parsed listResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	terms := strings.Fields(strings.ToLower(query))
	var results []search.Result
	for _, a := range parsed.Data.Articles {
		if len(terms) > 0 && !anyTermIn(a.Title+" "+a.Abstract, terms) {
			continue
		}
		results = append(results, search.Result{
			Title:         a.Title,
			Snippet:       a.Abstract,
			URL:           a.URL,
			SourceDomain:  search.ExtractDomain(a.URL),
			PublishedDate: a.Date,
			Provider:      c.Name(),
		})
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
	}

	log.Printf("[Coindesk] %d of %d articles matched query %q", len(results), len(parsed.Data.Articles), query)
	return &search.Response{
		Query:    query,
		Results:  results,
		Provider: c.Name(),
		Success:  true,
		Elapsed:  time.Since(start),
	}, nil
}

func anyTermIn(text string, terms []string) bool {
	lowered := strings.ToLower(text)
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			return true
		}
	}
	return false
}
