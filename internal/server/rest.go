package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/amityadav/scout/internal/aggregator"
	"github.com/amityadav/scout/internal/config"
	"github.com/amityadav/scout/internal/search"
	"github.com/amityadav/scout/internal/service"
)

// Services groups all dependencies for REST handlers
type Services struct {
	SearchService *service.SearchService
	Registry      *search.Registry
}

// CreateRESTHandler creates the REST API endpoints
func CreateRESTHandler(services Services, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-Key")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		switch r.URL.Path {
		case "/api/search":
			handleSearch(w, r, services.SearchService, cfg.APIKey)
		case "/api/stock-news":
			handleStockNews(w, r, services.SearchService, cfg.APIKey)
		case "/api/providers":
			handleProviders(w, r, services.Registry)
		case "/api/health":
			handleHealth(w, r)
		default:
			http.NotFound(w, r)
		}
	}
}

func authorized(w http.ResponseWriter, r *http.Request, apiKey string) bool {
	if apiKey == "" {
		return true // auth disabled when no key is configured
	}
	if r.Header.Get("X-API-Key") != apiKey {
		http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
		return false
	}
	return true
}

func handleSearch(w http.ResponseWriter, r *http.Request, svc *service.SearchService, apiKey string) {
	if !authorized(w, r, apiKey) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, `{"error": "q query parameter is required"}`, http.StatusBadRequest)
		return
	}

	opts := optionsFromRequest(r)
	resp := svc.Search(r.Context(), query, opts)
	writeJSON(w, resp)
}

func handleStockNews(w http.ResponseWriter, r *http.Request, svc *service.SearchService, apiKey string) {
	if !authorized(w, r, apiKey) {
		return
	}

	code := r.URL.Query().Get("code")
	name := r.URL.Query().Get("name")
	if code == "" || name == "" {
		http.Error(w, `{"error": "code and name query parameters are required"}`, http.StatusBadRequest)
		return
	}

	resp := svc.SearchStockNews(r.Context(), code, name, optionsFromRequest(r))
	writeJSON(w, resp)
}

func handleProviders(w http.ResponseWriter, r *http.Request, registry *search.Registry) {
	type providerInfo struct {
		Name      string `json:"name"`
		Available bool   `json:"available"`
	}
	var providers []providerInfo
	for _, p := range registry.GetAll() {
		providers = append(providers, providerInfo{Name: p.Name(), Available: p.Available()})
	}
	writeJSON(w, map[string]interface{}{"providers": providers})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// optionsFromRequest parses the shared search tuning parameters
func optionsFromRequest(r *http.Request) service.Options {
	var opts service.Options
	q := r.URL.Query()

	if v, err := strconv.Atoi(q.Get("max_results")); err == nil && v > 0 {
		opts.MaxResultsPerProvider = v
	}
	if v, err := strconv.Atoi(q.Get("days")); err == nil && v > 0 {
		opts.TimeWindowDays = v
	}
	if v, err := strconv.Atoi(q.Get("timeout_seconds")); err == nil && v > 0 {
		opts.Timeout = time.Duration(v) * time.Second
	}
	if v, err := strconv.Atoi(q.Get("cap")); err == nil && v > 0 {
		opts.Cap = v
	}
	if strategy := q.Get("strategy"); strategy != "" {
		opts.Strategy = aggregator.ParseStrategy(strategy)
	}
	return opts
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[REST] Failed to encode response: %v", err)
	}
}
