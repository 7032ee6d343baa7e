package aggregator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amityadav/scout/internal/search"
)

// Status classifies how a single provider's search call ended
type Status int

const (
	// StatusSuccess means the provider returned at least one result
	StatusSuccess Status = iota
	// StatusEmptySuccess means the call completed cleanly with zero results
	StatusEmptySuccess
	// StatusFailed means the provider returned an error (or panicked)
	StatusFailed
	// StatusTimedOut means the query deadline expired before the provider answered
	StatusTimedOut
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmptySuccess:
		return "empty_success"
	case StatusFailed:
		return "failed"
	case StatusTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Usable reports whether the outcome's results may feed the merge
func (s Status) Usable() bool {
	return s == StatusSuccess || s == StatusEmptySuccess
}

// MarshalJSON renders the status as its string form
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string form back into a status
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "success":
		*s = StatusSuccess
	case "empty_success":
		*s = StatusEmptySuccess
	case "failed":
		*s = StatusFailed
	case "timed_out":
		*s = StatusTimedOut
	default:
		return fmt.Errorf("unknown provider status %q", name)
	}
	return nil
}

// ProviderOutcome records how one dispatched provider settled.
// Exactly one outcome exists per dispatched provider per query.
type ProviderOutcome struct {
	Provider    string          `json:"provider"`
	Status      Status          `json:"status"`
	Results     []search.Result `json:"results"`
	ErrorDetail string          `json:"error_detail,omitempty"`
	Elapsed     time.Duration   `json:"elapsed"`
}
