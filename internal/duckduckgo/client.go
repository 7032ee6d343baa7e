package duckduckgo

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amityadav/scout/internal/search"
)

const searchURL = "https://html.duckduckgo.com/html/"

// Client scrapes DuckDuckGo's HTML endpoint. It needs no API key, which
// makes it the fallback provider when nothing else is configured.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a new DuckDuckGo scrape client
func NewClient() *Client {
	return &Client{
		endpoint: searchURL,
		client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "duckduckgo"
}

// Available always reports true; no credentials are needed
func (c *Client) Available() bool {
	return true
}

// Search implements the search.Provider interface. DuckDuckGo's HTML
// endpoint has no recency filter, so days is ignored.
func (c *Client) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	start := time.Now()

	if maxResults <= 0 {
		maxResults = 10
	}

	log.Printf("[DuckDuckGo] Searching for: %q (max %d results)", query, maxResults)

	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var results []search.Result
	doc.Find("div.result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find("a.result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		link := resolveRedirect(href)
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		if title == "" || link == "" {
			return true
		}
		results = append(results, search.Result{
			Title:        title,
			Snippet:      snippet,
			URL:          link,
			SourceDomain: search.ExtractDomain(link),
			Provider:     c.Name(),
		})
		return len(results) < maxResults
	})

	log.Printf("[DuckDuckGo] Found %d results for query: %s", len(results), query)
	return &search.Response{
		Query:    query,
		Results:  results,
		Provider: c.Name(),
		Success:  true,
		Elapsed:  time.Since(start),
	}, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> redirect links
func resolveRedirect(href string) string {
	if href == "" {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}
	if parsed.Scheme == "" {
		return "https:" + href
	}
	return href
}
