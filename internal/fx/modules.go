package fx

import (
	"log"

	"go.uber.org/fx"

	"github.com/amityadav/scout/internal/aggregator"
	"github.com/amityadav/scout/internal/coindesk"
	"github.com/amityadav/scout/internal/config"
	"github.com/amityadav/scout/internal/duckduckgo"
	"github.com/amityadav/scout/internal/exa"
	"github.com/amityadav/scout/internal/finnhub"
	"github.com/amityadav/scout/internal/monitor"
	"github.com/amityadav/scout/internal/search"
	"github.com/amityadav/scout/internal/serpapi"
	"github.com/amityadav/scout/internal/service"
	"github.com/amityadav/scout/internal/tavily"
)

// ============================================================================
// FX MODULES - Group related providers together
// ============================================================================

// ConfigModule provides application configuration
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// SearchModule provides the registry with all configured search providers
var SearchModule = fx.Module("search",
	fx.Provide(NewSearchRegistry),
)

// AggregatorModule provides the parallel search aggregator
var AggregatorModule = fx.Module("aggregator",
	fx.Provide(NewAggregator),
)

// ServiceModule provides the caller-facing search service
var ServiceModule = fx.Module("service",
	fx.Provide(NewSearchService),
)

// MonitorModule provides the provider availability monitor
var MonitorModule = fx.Module("monitor",
	fx.Provide(NewMonitor),
)

// ============================================================================
// PROVIDER FUNCTIONS - Constructors that FX will call automatically
// ============================================================================

// NewSearchRegistry builds the fixed provider set from configuration.
// The set never changes after construction; reconfiguring providers means
// restarting the process with new env vars.
func NewSearchRegistry(cfg config.Config) *search.Registry {
	var providers []search.Provider

	if cfg.TavilyAPIKey != "" {
		providers = append(providers, tavily.NewClient(cfg.TavilyAPIKey))
		log.Printf("[FX] SearchRegistry: Tavily registered")
	}
	if cfg.SerpAPIKey != "" {
		providers = append(providers, serpapi.NewClient(cfg.SerpAPIKey))
		log.Printf("[FX] SearchRegistry: SerpApi registered")
	}
	if len(cfg.ExaAPIKeys) > 0 {
		providers = append(providers, exa.NewClient(cfg.ExaAPIKeys))
		log.Printf("[FX] SearchRegistry: Exa registered (%d keys)", len(cfg.ExaAPIKeys))
	}
	if cfg.FinnhubAPIKey != "" {
		providers = append(providers, finnhub.NewClient(cfg.FinnhubAPIKey))
		log.Printf("[FX] SearchRegistry: Finnhub registered")
	}
	if cfg.EnableDuckDuckGo {
		providers = append(providers, duckduckgo.NewClient())
		log.Printf("[FX] SearchRegistry: DuckDuckGo registered")
	}
	providers = append(providers, coindesk.NewClient(cfg.CoindeskAPIKey))
	log.Printf("[FX] SearchRegistry: Coindesk registered")

	registry := search.NewRegistry(providers...)
	log.Printf("[FX] SearchRegistry initialized with %d providers", registry.Count())
	return registry
}

// NewAggregator creates the parallel search aggregator
func NewAggregator(cfg config.Config) *aggregator.Aggregator {
	agg := aggregator.New(cfg.MaxConcurrentSearches, cfg.SearchTimeout)
	log.Printf("[FX] Aggregator initialized (max concurrency: %d, timeout: %v)", cfg.MaxConcurrentSearches, cfg.SearchTimeout)
	return agg
}

// NewSearchService creates the caller-facing search service
func NewSearchService(registry *search.Registry, agg *aggregator.Aggregator, cfg config.Config) *service.SearchService {
	strategy := aggregator.ParseStrategy(cfg.MergeStrategy)
	svc := service.NewSearchService(registry, agg, strategy, cfg.ResultCap)
	log.Printf("[FX] SearchService initialized (strategy: %s)", strategy)
	return svc
}

// NewMonitor creates the provider availability monitor
func NewMonitor(registry *search.Registry, cfg config.Config) *monitor.Monitor {
	m := monitor.New(registry, cfg.MonitorSchedule)
	log.Printf("[FX] Monitor initialized")
	return m
}
