package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amityadav/scout/internal/aggregator"
	"github.com/amityadav/scout/internal/search"
)

// captureProvider records the arguments of its last Search call
type captureProvider struct {
	mu         sync.Mutex
	name       string
	query      string
	maxResults int
	days       int
	results    []search.Result
}

func (c *captureProvider) Name() string    { return c.name }
func (c *captureProvider) Available() bool { return true }

func (c *captureProvider) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	c.mu.Lock()
	c.query = query
	c.maxResults = maxResults
	c.days = days
	c.mu.Unlock()
	return &search.Response{Query: query, Results: c.results, Provider: c.name, Success: true}, nil
}

func newService(providers ...search.Provider) (*SearchService, *search.Registry) {
	registry := search.NewRegistry(providers...)
	agg := aggregator.New(4, time.Second)
	return NewSearchService(registry, agg, aggregator.DedupeByURL, 0), registry
}

func TestSearchAppliesDefaults(t *testing.T) {
	provider := &captureProvider{name: "capture"}
	svc, _ := newService(provider)

	resp := svc.Search(context.Background(), "golang news", Options{})

	require.True(t, resp.Success)
	assert.Equal(t, "golang news", provider.query)
	assert.Equal(t, DefaultMaxResultsPerProvider, provider.maxResults)
	assert.Equal(t, DefaultTimeWindowDays, provider.days)
}

func TestSearchOverridesDefaults(t *testing.T) {
	provider := &captureProvider{name: "capture"}
	svc, _ := newService(provider)

	svc.Search(context.Background(), "golang news", Options{
		MaxResultsPerProvider: 12,
		TimeWindowDays:        2,
	})

	assert.Equal(t, 12, provider.maxResults)
	assert.Equal(t, 2, provider.days)
}

func TestSearchAsyncDeliversResponse(t *testing.T) {
	provider := &captureProvider{
		name:    "capture",
		results: []search.Result{{Title: "T", URL: "https://example.com/t", Provider: "capture"}},
	}
	svc, _ := newService(provider)

	ch := svc.SearchAsync(context.Background(), "golang news", Options{})

	select {
	case resp := <-ch:
		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.Len(t, resp.Results, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async response")
	}

	// Channel closes after the single response.
	_, open := <-ch
	assert.False(t, open)
}

func TestSearchStockNewsQueryShape(t *testing.T) {
	provider := &captureProvider{name: "capture"}
	svc, _ := newService(provider)

	resp := svc.SearchStockNews(context.Background(), "NVDA", "Nvidia", Options{})

	require.True(t, resp.Success)
	assert.Equal(t, "Nvidia NVDA stock latest news", provider.query)
	assert.Contains(t, []int{1, 2, 3}, provider.days)
}

func TestLookbackDays(t *testing.T) {
	// 2026-08-24 was a Monday.
	monday := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		day  time.Time
		want int
	}{
		{monday, 3},
		{monday.AddDate(0, 0, 1), 1}, // Tuesday
		{monday.AddDate(0, 0, 4), 1}, // Friday
		{monday.AddDate(0, 0, 5), 2}, // Saturday
		{monday.AddDate(0, 0, 6), 2}, // Sunday
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lookbackDays(tt.day), "%s", tt.day.Weekday())
	}
}
