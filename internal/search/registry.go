package search

// Registry holds a fixed set of search providers. The set is decided at
// construction time; changing providers means building a new Registry,
// so concurrent queries never observe a mutating provider list.
type Registry struct {
	providers []Provider
}

// NewRegistry creates a registry over the given providers
func NewRegistry(providers ...Provider) *Registry {
	return &Registry{
		providers: append([]Provider(nil), providers...),
	}
}

// GetAll returns a copy of the provider list
func (r *Registry) GetAll() []Provider {
	return append([]Provider(nil), r.providers...)
}

// GetAvailable returns the providers that can currently serve requests
func (r *Registry) GetAvailable() []Provider {
	var available []Provider
	for _, p := range r.providers {
		if p.Available() {
			available = append(available, p)
		}
	}
	return available
}

// Count returns the number of registered providers
func (r *Registry) Count() int {
	return len(r.providers)
}
