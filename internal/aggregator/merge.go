package aggregator

import (
	"sort"
	"strings"

	"github.com/amityadav/scout/internal/search"
)

// Strategy selects how per-provider result sets are combined
type Strategy string

const (
	// DedupeByURL keeps the first result for each normalized URL (default)
	DedupeByURL Strategy = "dedupe_by_url"
	// ScoreBased sorts by provider quality tier then snippet length and
	// keeps the top fraction of the pool
	ScoreBased Strategy = "score_based"
	// KeepAll returns the raw concatenation
	KeepAll Strategy = "keep_all"
)

// ParseStrategy maps a config string to a Strategy, defaulting to DedupeByURL
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case ScoreBased:
		return ScoreBased
	case KeepAll:
		return KeepAll
	default:
		return DedupeByURL
	}
}

// DefaultKeepFraction is how much of the sorted pool ScoreBased retains
const DefaultKeepFraction = 0.5

// MergeOptions configures the merge step
type MergeOptions struct {
	Strategy Strategy
	// Cap truncates the merged sequence when > 0
	Cap int
	// KeepFraction is the ScoreBased pool cut, (0,1]; 0 means DefaultKeepFraction
	KeepFraction float64
	// HighQuality flags providers whose results sort first under ScoreBased
	HighQuality map[string]bool
}

// defaultHighQuality marks the providers whose results historically rank best
var defaultHighQuality = map[string]bool{
	"exa":    true,
	"tavily": true,
}

// Merge combines the usable outcomes into one ordered result sequence.
// Outcomes must be in completion order; concatenation preserves it, so
// result order reflects which provider answered first, not dispatch order.
// The returned stats map always holds every usable provider's raw
// (pre-dedupe, pre-truncation) contribution.
func Merge(outcomes []*ProviderOutcome, opts MergeOptions) ([]search.Result, map[string]int) {
	stats := make(map[string]int, len(outcomes))
	var all []search.Result
	for _, out := range outcomes {
		if !out.Status.Usable() {
			continue
		}
		stats[out.Provider] = len(out.Results)
		all = append(all, out.Results...)
	}

	if len(all) == 0 {
		return nil, stats
	}

	var merged []search.Result
	switch opts.Strategy {
	case ScoreBased:
		merged = mergeScoreBased(all, opts)
	case KeepAll:
		merged = all
	default:
		merged = mergeDedupeByURL(all)
	}

	if opts.Cap > 0 && len(merged) > opts.Cap {
		merged = merged[:opts.Cap]
	}
	return merged, stats
}

// mergeDedupeByURL walks the concatenation once, keeping an entry the
// first time its normalized URL is seen. Entries without a URL fall back
// to normalized-title keying; entries with neither are kept as-is.
func mergeDedupeByURL(all []search.Result) []search.Result {
	seen := make(map[string]bool, len(all))
	deduped := make([]search.Result, 0, len(all))
	for _, r := range all {
		key := NormalizeURL(r.URL)
		if key == "" {
			if title := normalizeTitle(r.Title); title != "" {
				key = "title:" + title
			}
		}
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		deduped = append(deduped, r)
	}
	return deduped
}

// mergeScoreBased stable-sorts by provider quality tier (high-quality
// first) then snippet length descending, and keeps the top fraction of
// the pool, rounded down.
func mergeScoreBased(all []search.Result, opts MergeOptions) []search.Result {
	highQuality := opts.HighQuality
	if highQuality == nil {
		highQuality = defaultHighQuality
	}

	sorted := append([]search.Result(nil), all...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := highQuality[sorted[i].Provider], highQuality[sorted[j].Provider]
		if ti != tj {
			return ti
		}
		return len(sorted[i].Snippet) > len(sorted[j].Snippet)
	})

	fraction := opts.KeepFraction
	if fraction <= 0 || fraction > 1 {
		fraction = DefaultKeepFraction
	}
	keep := int(float64(len(sorted)) * fraction)
	return sorted[:keep]
}

// NormalizeURL produces the dedup key for a URL: trimmed, lower-cased,
// trailing slashes stripped. Returns "" for effectively empty URLs.
func NormalizeURL(rawURL string) string {
	normalized := strings.ToLower(strings.TrimSpace(rawURL))
	return strings.TrimRight(normalized, "/")
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
