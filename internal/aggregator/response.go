package aggregator

import (
	"sort"
	"time"

	"github.com/amityadav/scout/internal/search"
)

// AggregateResponse is the immutable final artifact of one aggregated
// search. Callers detect degraded operation by inspecting Success,
// ProvidersFailed and the per-provider outcomes; nothing is raised.
type AggregateResponse struct {
	Query           string                      `json:"query"`
	Results         []search.Result             `json:"results"`
	ProvidersUsed   []string                    `json:"providers_used"`
	ProvidersFailed []string                    `json:"providers_failed"`
	Outcomes        map[string]*ProviderOutcome `json:"provider_outcomes"`
	MergeStats      map[string]int              `json:"merge_stats"`
	Success         bool                        `json:"success"`
	ErrorMessage    string                      `json:"error_message,omitempty"`
	TotalElapsed    time.Duration               `json:"total_elapsed"`
}

// assemble builds the final response from the settled outcomes. Pure data
// transformation: no I/O, cannot fail.
func assemble(query string, ordered []*ProviderOutcome, results []search.Result, stats map[string]int, elapsed time.Duration) *AggregateResponse {
	outcomes := make(map[string]*ProviderOutcome, len(ordered))
	var used, failed []string
	for _, out := range ordered {
		outcomes[out.Provider] = out
		if out.Status.Usable() {
			used = append(used, out.Provider)
		} else {
			failed = append(failed, out.Provider)
		}
	}
	sort.Strings(used)
	sort.Strings(failed)

	resp := &AggregateResponse{
		Query:           query,
		Results:         results,
		ProvidersUsed:   used,
		ProvidersFailed: failed,
		Outcomes:        outcomes,
		MergeStats:      stats,
		Success:         len(used) > 0,
		TotalElapsed:    elapsed,
	}
	if !resp.Success {
		resp.ErrorMessage = search.ErrAllProvidersFailed.Error()
	}
	return resp
}

// unavailableResponse short-circuits a query that found no available
// providers, before any dispatch.
func unavailableResponse(query string, elapsed time.Duration) *AggregateResponse {
	return &AggregateResponse{
		Query:        query,
		Outcomes:     map[string]*ProviderOutcome{},
		MergeStats:   map[string]int{},
		Success:      false,
		ErrorMessage: search.ErrNoProviders.Error(),
		TotalElapsed: elapsed,
	}
}
