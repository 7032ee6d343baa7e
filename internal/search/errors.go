package search

import "errors"

// ErrNoProviders is reported when a query is dispatched with no
// configured or available providers.
var ErrNoProviders = errors.New("no search providers available")

// ErrAllProvidersFailed is reported when every dispatched provider
// ended in failure or timeout.
var ErrAllProvidersFailed = errors.New("all search providers failed")
