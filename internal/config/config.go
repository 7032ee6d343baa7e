package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	TavilyAPIKey     string
	SerpAPIKey       string
	ExaAPIKeys       []string
	FinnhubAPIKey    string
	CoindeskAPIKey   string
	EnableDuckDuckGo bool

	MaxConcurrentSearches int
	SearchTimeout         time.Duration
	MergeStrategy         string
	ResultCap             int

	HTTPPort        int
	APIKey          string
	MonitorSchedule string
}

// Load loads configuration from environment variables
func Load() Config {
	return Config{
		TavilyAPIKey:     os.Getenv("TAVILY_API_KEY"),
		SerpAPIKey:       os.Getenv("SERPAPI_API_KEY"),
		ExaAPIKeys:       splitList(os.Getenv("EXA_API_KEYS")),
		FinnhubAPIKey:    os.Getenv("FINNHUB_API_KEY"),
		CoindeskAPIKey:   os.Getenv("COINDESK_API_KEY"),
		EnableDuckDuckGo: getEnvBool("ENABLE_DUCKDUCKGO", true),

		MaxConcurrentSearches: getEnvInt("MAX_CONCURRENT_SEARCHES", 4),
		SearchTimeout:         time.Duration(getEnvInt("SEARCH_TIMEOUT_SECONDS", 30)) * time.Second,
		MergeStrategy:         getEnv("MERGE_STRATEGY", "dedupe_by_url"),
		ResultCap:             getEnvInt("RESULT_CAP", 0),

		HTTPPort:        getEnvInt("HTTP_PORT", 8080),
		APIKey:          os.Getenv("SCOUT_API_KEY"),
		MonitorSchedule: getEnv("MONITOR_SCHEDULE", "0 * * * *"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// splitList parses a comma-separated env value into trimmed entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
