package aggregator

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amityadav/scout/internal/search"
)

// mockProvider is a configurable fake search provider
type mockProvider struct {
	name        string
	results     []search.Result
	err         error
	failMessage string
	delay       time.Duration
	unavailable bool
	panics      bool
	inFlight    *int32
	maxInFlight *int32
}

func newMockProvider(name string, results ...search.Result) *mockProvider {
	return &mockProvider{name: name, results: results}
}

func (m *mockProvider) withError(err error) *mockProvider {
	m.err = err
	return m
}

func (m *mockProvider) withFailure(message string) *mockProvider {
	m.failMessage = message
	return m
}

func (m *mockProvider) withDelay(delay time.Duration) *mockProvider {
	m.delay = delay
	return m
}

func (m *mockProvider) withUnavailable() *mockProvider {
	m.unavailable = true
	return m
}

func (m *mockProvider) withPanic() *mockProvider {
	m.panics = true
	return m
}

func (m *mockProvider) withConcurrencyTracking(inFlight, maxInFlight *int32) *mockProvider {
	m.inFlight = inFlight
	m.maxInFlight = maxInFlight
	return m
}

func (m *mockProvider) Name() string    { return m.name }
func (m *mockProvider) Available() bool { return !m.unavailable }

func (m *mockProvider) Search(ctx context.Context, query string, maxResults, days int) (*search.Response, error) {
	if m.inFlight != nil {
		current := atomic.AddInt32(m.inFlight, 1)
		for {
			max := atomic.LoadInt32(m.maxInFlight)
			if current <= max || atomic.CompareAndSwapInt32(m.maxInFlight, max, current) {
				break
			}
		}
		defer atomic.AddInt32(m.inFlight, -1)
	}
	if m.panics {
		panic("mock provider exploded")
	}
	if m.delay > 0 {
		// Sleeps through cancellation, like a network call with no
		// preemption point.
		time.Sleep(m.delay)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.failMessage != "" {
		return &search.Response{
			Query:        query,
			Provider:     m.name,
			Success:      false,
			ErrorMessage: m.failMessage,
		}, nil
	}
	return &search.Response{
		Query:    query,
		Results:  m.results,
		Provider: m.name,
		Success:  true,
	}, nil
}

// makeResults builds n results with unique URLs for a provider
func makeResults(provider string, n int) []search.Result {
	results := make([]search.Result, n)
	for i := 0; i < n; i++ {
		results[i] = search.Result{
			Title:    fmt.Sprintf("%s article %d", provider, i),
			Snippet:  fmt.Sprintf("snippet from %s number %d", provider, i),
			URL:      fmt.Sprintf("https://%s.example.com/article/%d", provider, i),
			Provider: provider,
		}
	}
	return results
}

func testQuery() Query {
	return Query{
		Text:                  "golang concurrency",
		MaxResultsPerProvider: 5,
		TimeWindowDays:        7,
		Deadline:              2 * time.Second,
	}
}

func TestSearchMergesAllProviders(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("alpha", makeResults("alpha", 3)...),
		newMockProvider("beta", makeResults("beta", 2)...),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{Strategy: DedupeByURL})

	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Results, 5)
	assert.ElementsMatch(t, []string{"alpha", "beta"}, resp.ProvidersUsed)
	assert.Empty(t, resp.ProvidersFailed)
	assert.Equal(t, 3, resp.MergeStats["alpha"])
	assert.Equal(t, 2, resp.MergeStats["beta"])
}

func TestFailureIsolation(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("good1", makeResults("good1", 2)...),
		newMockProvider("bad1").withError(fmt.Errorf("connection refused")),
		newMockProvider("good2", makeResults("good2", 2)...),
		newMockProvider("bad2").withFailure("rate limit exceeded"),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{Strategy: KeepAll})

	assert.True(t, resp.Success)
	assert.ElementsMatch(t, []string{"good1", "good2"}, resp.ProvidersUsed)
	assert.ElementsMatch(t, []string{"bad1", "bad2"}, resp.ProvidersFailed)
	assert.Len(t, resp.Results, 4)

	require.Contains(t, resp.Outcomes, "bad1")
	assert.Equal(t, StatusFailed, resp.Outcomes["bad1"].Status)
	assert.Equal(t, "connection refused", resp.Outcomes["bad1"].ErrorDetail)
	assert.Equal(t, StatusFailed, resp.Outcomes["bad2"].Status)
	assert.Equal(t, "rate limit exceeded", resp.Outcomes["bad2"].ErrorDetail)
}

func TestNoAvailableProviders(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("locked", makeResults("locked", 3)...).withUnavailable(),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.ProvidersUsed)
	assert.Empty(t, resp.ProvidersFailed)
	assert.Equal(t, search.ErrNoProviders.Error(), resp.ErrorMessage)
}

func TestEmptyProviderList(t *testing.T) {
	agg := New(4, time.Second)

	resp := agg.Search(context.Background(), testQuery(), nil, MergeOptions{})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	assert.Equal(t, search.ErrNoProviders.Error(), resp.ErrorMessage)
}

func TestEmptySuccessCountsAsUsed(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("quiet"), // zero results, no error
		newMockProvider("chatty", makeResults("chatty", 2)...),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{})

	assert.True(t, resp.Success)
	assert.ElementsMatch(t, []string{"chatty", "quiet"}, resp.ProvidersUsed)
	assert.Empty(t, resp.ProvidersFailed)
	assert.Equal(t, StatusEmptySuccess, resp.Outcomes["quiet"].Status)
	assert.Equal(t, 0, resp.MergeStats["quiet"])
	assert.Equal(t, 2, resp.MergeStats["chatty"])
}

func TestAllProvidersFail(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("bad1").withError(fmt.Errorf("boom")),
		newMockProvider("bad2").withFailure("no results endpoint"),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	assert.Empty(t, resp.ProvidersUsed)
	assert.ElementsMatch(t, []string{"bad1", "bad2"}, resp.ProvidersFailed)
	assert.Equal(t, search.ErrAllProvidersFailed.Error(), resp.ErrorMessage)
}

func TestProviderPanicIsolated(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("volatile").withPanic(),
		newMockProvider("steady", makeResults("steady", 1)...),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{})

	assert.True(t, resp.Success)
	assert.ElementsMatch(t, []string{"steady"}, resp.ProvidersUsed)
	assert.ElementsMatch(t, []string{"volatile"}, resp.ProvidersFailed)
	require.Contains(t, resp.Outcomes, "volatile")
	assert.Equal(t, StatusFailed, resp.Outcomes["volatile"].Status)
	assert.Contains(t, resp.Outcomes["volatile"].ErrorDetail, "provider panic")
}

func TestSlowProviderTimesOut(t *testing.T) {
	agg := New(4, time.Second)
	q := testQuery()
	q.Deadline = 250 * time.Millisecond

	providers := []search.Provider{
		newMockProvider("p1", makeResults("p1", 5)...),
		newMockProvider("p2", makeResults("p2", 5)...),
		newMockProvider("p3", makeResults("p3", 5)...).withDelay(3 * time.Second),
	}

	start := time.Now()
	resp := agg.Search(context.Background(), q, providers, MergeOptions{Strategy: DedupeByURL})
	elapsed := time.Since(start)

	assert.True(t, resp.Success)
	assert.Len(t, resp.Results, 10)
	assert.ElementsMatch(t, []string{"p1", "p2"}, resp.ProvidersUsed)
	assert.ElementsMatch(t, []string{"p3"}, resp.ProvidersFailed)
	require.Contains(t, resp.Outcomes, "p3")
	assert.Equal(t, StatusTimedOut, resp.Outcomes["p3"].Status)

	// The stuck provider must not hold the caller past the deadline.
	assert.Less(t, elapsed, 1500*time.Millisecond)
	assert.Less(t, resp.TotalElapsed, 1500*time.Millisecond)
}

func TestDeadlineBoundWhenNothingReturns(t *testing.T) {
	agg := New(4, time.Second)
	q := testQuery()
	q.Deadline = 150 * time.Millisecond

	providers := []search.Provider{
		newMockProvider("stuck", makeResults("stuck", 1)...).withDelay(5 * time.Second),
	}

	start := time.Now()
	resp := agg.Search(context.Background(), q, providers, MergeOptions{})
	elapsed := time.Since(start)

	assert.False(t, resp.Success)
	assert.Empty(t, resp.Results)
	assert.ElementsMatch(t, []string{"stuck"}, resp.ProvidersFailed)
	assert.Equal(t, StatusTimedOut, resp.Outcomes["stuck"].Status)
	assert.Less(t, elapsed, time.Second)
}

func TestWorkerBudgetQueuesExcessProviders(t *testing.T) {
	var inFlight, maxInFlight int32

	agg := New(2, 5*time.Second)
	providers := []search.Provider{
		newMockProvider("w1", makeResults("w1", 1)...).withDelay(50 * time.Millisecond).withConcurrencyTracking(&inFlight, &maxInFlight),
		newMockProvider("w2", makeResults("w2", 1)...).withDelay(50 * time.Millisecond).withConcurrencyTracking(&inFlight, &maxInFlight),
		newMockProvider("w3", makeResults("w3", 1)...).withDelay(50 * time.Millisecond).withConcurrencyTracking(&inFlight, &maxInFlight),
		newMockProvider("w4", makeResults("w4", 1)...).withDelay(50 * time.Millisecond).withConcurrencyTracking(&inFlight, &maxInFlight),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{Strategy: KeepAll})

	// Queued providers still complete; none are dropped.
	assert.Len(t, resp.ProvidersUsed, 4)
	assert.Len(t, resp.Results, 4)
	assert.LessOrEqual(t, maxInFlight, int32(2))
}

func TestCancelledContextStopsCollection(t *testing.T) {
	agg := New(4, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	providers := []search.Provider{
		newMockProvider("p1", makeResults("p1", 1)...).withDelay(time.Second),
	}

	start := time.Now()
	resp := agg.Search(ctx, testQuery(), providers, MergeOptions{})

	assert.False(t, resp.Success)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, StatusTimedOut, resp.Outcomes["p1"].Status)
}

func TestEveryDispatchedProviderGetsExactlyOneOutcome(t *testing.T) {
	agg := New(4, time.Second)
	providers := []search.Provider{
		newMockProvider("a", makeResults("a", 1)...),
		newMockProvider("b").withError(fmt.Errorf("nope")),
		newMockProvider("c"),
	}

	resp := agg.Search(context.Background(), testQuery(), providers, MergeOptions{})

	assert.Len(t, resp.Outcomes, 3)
	for _, name := range []string{"a", "b", "c"} {
		inUsed := contains(resp.ProvidersUsed, name)
		inFailed := contains(resp.ProvidersFailed, name)
		assert.True(t, inUsed != inFailed, "provider %s must be in exactly one set", name)
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
