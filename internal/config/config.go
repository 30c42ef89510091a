package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the formation engine service
type Config struct {
	Catalog CatalogConfig
	Index   IndexConfig
	Match   MatchConfig
	Server  ServerConfig
	Watch   WatchConfig
}

// CatalogConfig holds the corpus source locations
type CatalogConfig struct {
	Dir           string
	RegistryPath  string
	WordlistsPath string
}

// IndexConfig holds vector index tuning and cache location
type IndexConfig struct {
	CachePath  string
	MinNGram   int
	MaxNGram   int
	SearchTopK int
}

// MatchConfig holds profile matching defaults
type MatchConfig struct {
	MinScore int
}

// ServerConfig holds the HTTP listener configuration
type ServerConfig struct {
	Addr string
}

// WatchConfig controls the catalog file watcher
type WatchConfig struct {
	Enabled  bool
	Debounce time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Dir:           GetStringEnv("CATALOG_DIR", "./content/formations"),
			RegistryPath:  GetStringEnv("REGISTRY_PATH", "./content/rncp/rncp.json"),
			WordlistsPath: GetStringEnv("WORDLISTS_PATH", ""),
		},
		Index: IndexConfig{
			CachePath:  GetStringEnv("INDEX_CACHE_PATH", "./data/index.gob"),
			MinNGram:   GetIntEnv("INDEX_MIN_NGRAM", 3),
			MaxNGram:   GetIntEnv("INDEX_MAX_NGRAM", 6),
			SearchTopK: GetIntEnv("SEARCH_TOP_K", 10),
		},
		Match: MatchConfig{
			MinScore: GetIntEnv("MATCH_MIN_SCORE", 2),
		},
		Server: ServerConfig{
			Addr: GetStringEnv("SERVER_ADDR", ":8080"),
		},
		Watch: WatchConfig{
			Enabled:  GetBoolEnv("WATCH_ENABLED", true),
			Debounce: GetDurationEnv("WATCH_DEBOUNCE", 2*time.Second),
		},
	}
}

// Wordlists is an optional YAML overlay extending the normalizer's
// built-in exclusion and stop-word lists.
type Wordlists struct {
	ExtraExclusions []string `yaml:"extra_exclusions"`
	ExtraStopWords  []string `yaml:"extra_stop_words"`
}

// LoadWordlists reads the overlay file. An empty path yields empty lists.
func LoadWordlists(path string) (*Wordlists, error) {
	if path == "" {
		return &Wordlists{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wordlists: %w", err)
	}
	var wl Wordlists
	if err := yaml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("parse wordlists: %w", err)
	}
	return &wl, nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
