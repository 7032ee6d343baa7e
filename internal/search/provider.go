package search

import (
	"context"
	"net/url"
	"strings"
	"time"
)

// Result represents a single search result from any provider
type Result struct {
	Title         string `json:"title"`
	Snippet       string `json:"snippet"`
	URL           string `json:"url"`
	SourceDomain  string `json:"source_domain"`
	PublishedDate string `json:"published_date,omitempty"`
	Provider      string `json:"provider"` // "tavily", "serpapi", "exa", etc.
}

// Response is what a single provider returns for one search call
type Response struct {
	Query        string        `json:"query"`
	Results      []Result      `json:"results"`
	Provider     string        `json:"provider"`
	Success      bool          `json:"success"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Provider is the interface all search providers must implement.
// Search may block on network I/O; callers own timeout enforcement via ctx.
// Implementations must report internal failures through Response.Success and
// ErrorMessage (or a returned error) rather than panicking.
type Provider interface {
	// Name returns the provider identifier (e.g., "tavily", "serpapi")
	Name() string

	// Available reports whether the provider can serve requests
	// (credentials configured, etc.). Must be cheap and non-blocking.
	Available() bool

	// Search runs one query. maxResults bounds the result count,
	// days bounds the article age (0 = no restriction).
	Search(ctx context.Context, query string, maxResults, days int) (*Response, error)
}

// ExtractDomain pulls the display domain out of a result URL.
func ExtractDomain(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
