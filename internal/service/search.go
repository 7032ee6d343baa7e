package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/amityadav/scout/internal/aggregator"
	"github.com/amityadav/scout/internal/search"
)

const (
	// DefaultMaxResultsPerProvider bounds each provider's contribution
	DefaultMaxResultsPerProvider = 5
	// DefaultTimeWindowDays is the news look-back window when unset
	DefaultTimeWindowDays = 7
)

// SearchService is the caller-facing entry point for aggregated searches
type SearchService struct {
	registry        *search.Registry
	agg             *aggregator.Aggregator
	defaultStrategy aggregator.Strategy
	defaultCap      int
}

// NewSearchService creates the search service
func NewSearchService(registry *search.Registry, agg *aggregator.Aggregator, defaultStrategy aggregator.Strategy, defaultCap int) *SearchService {
	return &SearchService{
		registry:        registry,
		agg:             agg,
		defaultStrategy: defaultStrategy,
		defaultCap:      defaultCap,
	}
}

// Options tunes a single search call. Zero values mean service defaults.
type Options struct {
	MaxResultsPerProvider int
	TimeWindowDays        int
	Timeout               time.Duration
	Strategy              aggregator.Strategy
	Cap                   int
}

func (s *SearchService) applyDefaults(opts Options) Options {
	if opts.MaxResultsPerProvider <= 0 {
		opts.MaxResultsPerProvider = DefaultMaxResultsPerProvider
	}
	if opts.TimeWindowDays <= 0 {
		opts.TimeWindowDays = DefaultTimeWindowDays
	}
	if opts.Strategy == "" {
		opts.Strategy = s.defaultStrategy
	}
	if opts.Cap <= 0 {
		opts.Cap = s.defaultCap
	}
	return opts
}

// Search runs one aggregated search across all registered providers,
// blocking until every provider settles or the timeout expires. The
// response is always well-formed; check Success and ProvidersFailed for
// degraded operation.
func (s *SearchService) Search(ctx context.Context, query string, opts Options) *aggregator.AggregateResponse {
	opts = s.applyDefaults(opts)

	q := aggregator.Query{
		Text:                  query,
		MaxResultsPerProvider: opts.MaxResultsPerProvider,
		TimeWindowDays:        opts.TimeWindowDays,
		Deadline:              opts.Timeout,
	}
	merge := aggregator.MergeOptions{
		Strategy: opts.Strategy,
		Cap:      opts.Cap,
	}
	return s.agg.Search(ctx, q, s.registry.GetAll(), merge)
}

// SearchAsync runs Search in a goroutine and delivers the response on the
// returned channel, for callers composing with select. The channel is
// buffered, so the result is never lost if the caller reads late.
func (s *SearchService) SearchAsync(ctx context.Context, query string, opts Options) <-chan *aggregator.AggregateResponse {
	ch := make(chan *aggregator.AggregateResponse, 1)
	go func() {
		ch <- s.Search(ctx, query, opts)
		close(ch)
	}()
	return ch
}

// SearchStockNews searches for recent news about one stock. The look-back
// window shrinks to the last trading day: Mondays reach back over the
// weekend, weekends cover Friday's close.
func (s *SearchService) SearchStockNews(ctx context.Context, stockCode, stockName string, opts Options) *aggregator.AggregateResponse {
	query := fmt.Sprintf("%s %s stock latest news", stockName, stockCode)
	opts.TimeWindowDays = lookbackDays(time.Now())

	log.Printf("[SearchService] Stock news search for %s (%s), window %d days", stockName, stockCode, opts.TimeWindowDays)
	return s.Search(ctx, query, opts)
}

// lookbackDays picks the news window for stock searches by weekday
func lookbackDays(now time.Time) int {
	switch now.Weekday() {
	case time.Monday:
		return 3
	case time.Saturday, time.Sunday:
		return 2
	default:
		return 1
	}
}
