package serpapi

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	g "github.com/serpapi/google-search-results-golang"

	"github.com/amityadav/scout/internal/search"
)

// Client is a wrapper around the SerpApi search service
type Client struct {
	apiKey string
}

// NewClient creates a new SerpApi client
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "serpapi"
}

// Available reports whether an API key is configured
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// Search performs a Google search via SerpApi and returns organic results.
// The underlying library call blocks without context support; the ctx is
// checked up front and the aggregator detaches us at its deadline.
func (c *Client) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	start := time.Now()

	if c.apiKey == "" {
		return nil, fmt.Errorf("SerpApi API key is not set")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parameter := map[string]string{
		"engine":        "google",
		"q":             query,
		"google_domain": "google.com",
		"gl":            "us",
		"hl":            "en",
	}
	if maxResults > 0 {
		parameter["num"] = strconv.Itoa(maxResults)
	}
	if days > 0 {
		// Restrict to recent results (qdr:d1 = past day, d7 = past week, ...)
		parameter["tbs"] = "qdr:d" + strconv.Itoa(days)
	}

	log.Printf("[SerpApi] Searching for: %q (max %d results, days=%d)", query, maxResults, days)
	s := g.NewGoogleSearch(parameter, c.apiKey)
	raw, err := s.GetJSON()
	if err != nil {
		return nil, fmt.Errorf("serpapi search failed: %w", err)
	}

	// Focus on organic_results node
	organicResults, ok := raw["organic_results"].([]interface{})
	if !ok {
		log.Printf("[SerpApi] No organic_results found in response")
		return &search.Response{
			Query:    query,
			Provider: c.Name(),
			Success:  true,
			Elapsed:  time.Since(start),
		}, nil
	}

	var results []search.Result
	for _, item := range organicResults {
		res, ok := item.(map[string]interface{})
		if !ok {
			continue
		}

		title, _ := res["title"].(string)
		link, _ := res["link"].(string)
		snippet, _ := res["snippet"].(string)
		date, _ := res["date"].(string)

		if title == "" || link == "" {
			continue
		}

		results = append(results, search.Result{
			Title:         title,
			URL:           link,
			Snippet:       snippet,
			SourceDomain:  search.ExtractDomain(link),
			PublishedDate: date,
			Provider:      c.Name(),
		})
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
	}

	log.Printf("[SerpApi] Found %d organic results", len(results))
	return &search.Response{
		Query:    query,
		Results:  results,
		Provider: c.Name(),
		Success:  true,
		Elapsed:  time.Since(start),
	}, nil
}
