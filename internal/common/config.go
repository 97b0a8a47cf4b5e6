// Package common provides shared configuration, logging, and utilities.
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment  string             `toml:"environment"` // "development" or "production"
	Storage      StorageConfig      `toml:"storage"`
	Logging      LoggingConfig      `toml:"logging"`
	Research     ResearchConfig     `toml:"research"`
	Cache        CacheConfig        `toml:"cache"`
	Router       RouterConfig       `toml:"router"`
	Orchestrator OrchestratorConfig `toml:"orchestrator"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Format string   `toml:"format"`                                      // "json" or "text"
	Output []string `toml:"output"`                                      // "stdout", "file"
}

// ResearchConfig configures the paid web-research provider.
type ResearchConfig struct {
	APIKey         string        `toml:"api_key"`                              // Provider API key (env: OPTIONSINTEL_RESEARCH_API_KEY)
	BaseURL        string        `toml:"base_url"`                             // Override for testing
	RateLimit      int           `toml:"rate_limit" validate:"min=1"`          // Requests per second
	RequestTimeout time.Duration `toml:"request_timeout"`                      // HTTP timeout
	Depth          string        `toml:"depth" validate:"oneof=basic advanced"` // Search depth; advanced costs more credits
	MaxResults     int           `toml:"max_results" validate:"min=1"`         // Results per search
}

// CacheConfig configures the intelligence cache service.
type CacheConfig struct {
	CleanupSchedule     string `toml:"cleanup_schedule"`                       // Cron schedule for the expiry sweep
	MaxEarningsQuarters int    `toml:"max_earnings_quarters" validate:"min=1"` // Quarters fetched on a cache miss
	MaxNewsArticles     int    `toml:"max_news_articles" validate:"min=1"`     // Articles fetched on a cache miss
	NewsMaxAgeDays      int    `toml:"news_max_age_days" validate:"min=1"`     // Article age window on a cache miss
}

// RouterConfig configures the query router defaults.
type RouterConfig struct {
	MaxRAGAgeDays      int     `toml:"max_rag_age_days" validate:"min=1"`          // Pattern-store rows older than this are ignored
	RelevanceThreshold float64 `toml:"relevance_threshold" validate:"min=0,max=1"` // RAG hit threshold
	HybridAgeDays      float64 `toml:"hybrid_age_days"`                            // Average age beyond which a hybrid fetch triggers
	EnableHybrid       bool    `toml:"enable_hybrid"`                              // Allow hybrid RAG+web responses
}

// OrchestratorConfig configures the multi-source orchestrator.
type OrchestratorConfig struct {
	InternalTimeout time.Duration `toml:"internal_timeout"` // Per-branch timeout for pattern-store reads
	IntelTimeout    time.Duration `toml:"intel_timeout"`    // Per-branch timeout for the cached intelligence path
	ResearchTimeout time.Duration `toml:"research_timeout"` // Per-branch timeout for web research
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability; only
// user-facing settings should be exposed in optionsintel.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: []string{"stdout", "file"},
		},
		Research: ResearchConfig{
			APIKey:         "", // User must provide API key (config or env)
			RateLimit:      2,  // Conservative default for paid API quotas
			RequestTimeout: 30 * time.Second,
			Depth:          "basic",
			MaxResults:     5,
		},
		Cache: CacheConfig{
			CleanupSchedule:     "0 * * * *", // Hourly expiry sweep
			MaxEarningsQuarters: 4,
			MaxNewsArticles:     20,
			NewsMaxAgeDays:      30,
		},
		Router: RouterConfig{
			MaxRAGAgeDays:      30,
			RelevanceThreshold: 0.6,
			HybridAgeDays:      3,
			EnableHybrid:       true,
		},
		Orchestrator: OrchestratorConfig{
			InternalTimeout: 2 * time.Second,
			IntelTimeout:    10 * time.Second,
			ResearchTimeout: 15 * time.Second,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files
// override earlier ones, environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("OPTIONSINTEL_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Storage configuration
	if badgerPath := os.Getenv("OPTIONSINTEL_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("OPTIONSINTEL_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("OPTIONSINTEL_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Research provider configuration
	if apiKey := os.Getenv("OPTIONSINTEL_RESEARCH_API_KEY"); apiKey != "" {
		config.Research.APIKey = apiKey
	} else if apiKey := os.Getenv("TAVILY_API_KEY"); apiKey != "" {
		config.Research.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPTIONSINTEL_RESEARCH_BASE_URL"); baseURL != "" {
		config.Research.BaseURL = baseURL
	}
	if rateLimit := os.Getenv("OPTIONSINTEL_RESEARCH_RATE_LIMIT"); rateLimit != "" {
		if r, err := strconv.Atoi(rateLimit); err == nil {
			config.Research.RateLimit = r
		}
	}

	// Cache configuration
	if schedule := os.Getenv("OPTIONSINTEL_CACHE_CLEANUP_SCHEDULE"); schedule != "" {
		config.Cache.CleanupSchedule = schedule
	}

	// Router configuration
	if threshold := os.Getenv("OPTIONSINTEL_ROUTER_RELEVANCE_THRESHOLD"); threshold != "" {
		if t, err := strconv.ParseFloat(threshold, 64); err == nil {
			config.Router.RelevanceThreshold = t
		}
	}
}
