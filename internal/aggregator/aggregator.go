package aggregator

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/amityadav/scout/internal/search"
)

const (
	// DefaultTimeout bounds a whole query when the caller does not set one
	DefaultTimeout = 30 * time.Second
	// DefaultMaxConcurrent bounds how many provider calls run at once
	DefaultMaxConcurrent = 4
)

// Query describes one aggregated search. It is built once per call and
// never mutated after dispatch.
type Query struct {
	Text                  string
	MaxResultsPerProvider int
	TimeWindowDays        int
	Deadline              time.Duration // 0 = aggregator default
}

// Aggregator fans a query out to every available provider, collects
// outcomes as they settle, and merges them into one response. It holds
// no per-query state, so one instance serves concurrent queries.
type Aggregator struct {
	maxConcurrent int
	timeout       time.Duration
}

// New creates an aggregator with the given concurrency budget and
// default per-query timeout. Zero values fall back to defaults.
func New(maxConcurrent int, timeout time.Duration) *Aggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Aggregator{
		maxConcurrent: maxConcurrent,
		timeout:       timeout,
	}
}

// Search dispatches q to every available provider and returns the merged
// response. It always returns a well-formed response: provider errors and
// timeouts are folded into per-provider outcomes, never raised. The only
// call-level failure mode is Success=false on the response.
func (a *Aggregator) Search(ctx context.Context, q Query, providers []search.Provider, opts MergeOptions) *AggregateResponse {
	start := time.Now()

	available := filterAvailable(providers)
	if len(available) == 0 {
		log.Printf("[Aggregator] No available providers for query %q", q.Text)
		return unavailableResponse(q.Text, time.Since(start))
	}

	deadline := q.Deadline
	if deadline <= 0 {
		deadline = a.timeout
	}
	dctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	log.Printf("[Aggregator] Dispatching %q to %d providers (budget %d, deadline %v)",
		q.Text, len(available), a.budget(len(available)), deadline)

	ordered := a.collect(dctx, q, available, deadline)

	results, stats := Merge(ordered, opts)
	resp := assemble(q.Text, ordered, results, stats, time.Since(start))

	log.Printf("[Aggregator] Query %q done: %d merged results, used=%v failed=%v in %v",
		q.Text, len(resp.Results), resp.ProvidersUsed, resp.ProvidersFailed, resp.TotalElapsed)
	return resp
}

func (a *Aggregator) budget(numProviders int) int {
	if numProviders < a.maxConcurrent {
		return numProviders
	}
	return a.maxConcurrent
}

// collect runs the fan-out and gathers outcomes in completion order.
// Providers beyond the worker budget wait for a free slot instead of
// being dropped. Any provider not settled when the deadline fires is
// recorded as timed out and its eventual result is discarded.
func (a *Aggregator) collect(ctx context.Context, q Query, providers []search.Provider, deadline time.Duration) []*ProviderOutcome {
	// Buffered to len(providers) so detached tasks can still send
	// after the collector stops listening, then get garbage collected.
	outcomeCh := make(chan *ProviderOutcome, len(providers))
	sem := semaphore.NewWeighted(int64(a.budget(len(providers))))

	for _, p := range providers {
		go func(p search.Provider) {
			if err := sem.Acquire(ctx, 1); err != nil {
				// Deadline expired while queued; collector marks the timeout.
				return
			}
			defer sem.Release(1)
			outcomeCh <- a.callProvider(ctx, p, q)
		}(p)
	}

	ordered := make([]*ProviderOutcome, 0, len(providers))
	settled := make(map[string]bool, len(providers))

collecting:
	for len(ordered) < len(providers) {
		select {
		case out := <-outcomeCh:
			ordered = append(ordered, out)
			settled[out.Provider] = true
		case <-ctx.Done():
			log.Printf("[Aggregator] Deadline reached with %d/%d providers settled", len(ordered), len(providers))
			break collecting
		}
	}

	for _, p := range providers {
		if !settled[p.Name()] {
			ordered = append(ordered, &ProviderOutcome{
				Provider:    p.Name(),
				Status:      StatusTimedOut,
				ErrorDetail: "deadline exceeded before response",
				Elapsed:     deadline,
			})
		}
	}
	return ordered
}

// callProvider invokes one provider and converts whatever happens into an
// outcome. A misbehaving provider must never take down sibling tasks, so
// errors and even panics stop here.
func (a *Aggregator) callProvider(ctx context.Context, p search.Provider, q Query) (out *ProviderOutcome) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Aggregator] Provider %s panicked: %v", p.Name(), r)
			out = &ProviderOutcome{
				Provider:    p.Name(),
				Status:      StatusFailed,
				ErrorDetail: fmt.Sprintf("provider panic: %v", r),
				Elapsed:     time.Since(start),
			}
		}
	}()

	resp, err := p.Search(ctx, q.Text, q.MaxResultsPerProvider, q.TimeWindowDays)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		log.Printf("[Aggregator] Provider %s failed: %v", p.Name(), err)
		return &ProviderOutcome{
			Provider:    p.Name(),
			Status:      StatusFailed,
			ErrorDetail: err.Error(),
			Elapsed:     elapsed,
		}
	case resp == nil || !resp.Success:
		detail := "provider reported failure"
		if resp != nil && resp.ErrorMessage != "" {
			detail = resp.ErrorMessage
		}
		log.Printf("[Aggregator] Provider %s failed: %s", p.Name(), detail)
		return &ProviderOutcome{
			Provider:    p.Name(),
			Status:      StatusFailed,
			ErrorDetail: detail,
			Elapsed:     elapsed,
		}
	case len(resp.Results) == 0:
		log.Printf("[Aggregator] Provider %s returned no results in %v", p.Name(), elapsed)
		return &ProviderOutcome{
			Provider: p.Name(),
			Status:   StatusEmptySuccess,
			Elapsed:  elapsed,
		}
	default:
		log.Printf("[Aggregator] Provider %s returned %d results in %v", p.Name(), len(resp.Results), elapsed)
		return &ProviderOutcome{
			Provider: p.Name(),
			Status:   StatusSuccess,
			Results:  resp.Results,
			Elapsed:  elapsed,
		}
	}
}

func filterAvailable(providers []search.Provider) []search.Provider {
	var available []search.Provider
	for _, p := range providers {
		if p.Available() {
			available = append(available, p)
		}
	}
	return available
}
