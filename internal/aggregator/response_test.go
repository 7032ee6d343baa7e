package aggregator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amityadav/scout/internal/search"
)

func TestAssembleSplitsUsedAndFailed(t *testing.T) {
	ordered := []*ProviderOutcome{
		successOutcome("beta", result("beta", "B", "https://b.example.com", "")),
		failedOutcome("gamma"),
		successOutcome("alpha"),
		{Provider: "delta", Status: StatusTimedOut, ErrorDetail: "deadline exceeded before response"},
	}
	results := []search.Result{result("beta", "B", "https://b.example.com", "")}
	stats := map[string]int{"beta": 1, "alpha": 0}

	resp := assemble("query", ordered, results, stats, 42*time.Millisecond)

	assert.True(t, resp.Success)
	assert.Equal(t, []string{"alpha", "beta"}, resp.ProvidersUsed)
	assert.Equal(t, []string{"delta", "gamma"}, resp.ProvidersFailed)
	assert.Equal(t, 42*time.Millisecond, resp.TotalElapsed)
	assert.Empty(t, resp.ErrorMessage)
	assert.Len(t, resp.Outcomes, 4)

	// The two sets are disjoint and cover every dispatched provider.
	seen := map[string]int{}
	for _, name := range resp.ProvidersUsed {
		seen[name]++
	}
	for _, name := range resp.ProvidersFailed {
		seen[name]++
	}
	assert.Len(t, seen, 4)
	for name, count := range seen {
		assert.Equal(t, 1, count, "provider %s", name)
	}
}

func TestAssembleAllFailed(t *testing.T) {
	ordered := []*ProviderOutcome{
		failedOutcome("alpha"),
		{Provider: "beta", Status: StatusTimedOut},
	}

	resp := assemble("query", ordered, nil, map[string]int{}, time.Millisecond)

	assert.False(t, resp.Success)
	assert.Empty(t, resp.ProvidersUsed)
	assert.Equal(t, []string{"alpha", "beta"}, resp.ProvidersFailed)
	assert.Equal(t, search.ErrAllProvidersFailed.Error(), resp.ErrorMessage)
	assert.Empty(t, resp.Results)
}

func TestUnavailableResponse(t *testing.T) {
	resp := unavailableResponse("query", time.Millisecond)

	assert.False(t, resp.Success)
	assert.Equal(t, search.ErrNoProviders.Error(), resp.ErrorMessage)
	assert.Empty(t, resp.ProvidersUsed)
	assert.Empty(t, resp.ProvidersFailed)
	assert.NotNil(t, resp.Outcomes)
	assert.NotNil(t, resp.MergeStats)
}

func TestStatusJSONRendering(t *testing.T) {
	out := &ProviderOutcome{Provider: "alpha", Status: StatusEmptySuccess}

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"empty_success"`)
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "empty_success", StatusEmptySuccess.String())
	assert.Equal(t, "failed", StatusFailed.String())
	assert.Equal(t, "timed_out", StatusTimedOut.String())

	assert.True(t, StatusSuccess.Usable())
	assert.True(t, StatusEmptySuccess.Usable())
	assert.False(t, StatusFailed.Usable())
	assert.False(t, StatusTimedOut.Usable())
}
