package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// NLP configuration
	NLP NLPConfig `mapstructure:"nlp"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Search pipeline configuration
	Search SearchConfig `mapstructure:"search"`

	// Cache configuration
	Cache CacheConfig `mapstructure:"cache"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// Alert configuration
	Alert AlertConfig `mapstructure:"alert"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// AlertConfig holds configuration for alerting
type AlertConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string `mapstructure:"path"`
	SchoolAliases   string `mapstructure:"school_aliases"`
	PracticeAliases string `mapstructure:"practice_aliases"`
}

// NLPConfig holds NLP configuration
type NLPConfig struct {
	// Models is a map of model configurations (e.g. "default", "judge")
	Models map[string]NLPModelConfig `mapstructure:"models"`
}

// NLPModelConfig holds configuration for a specific model
type NLPModelConfig struct {
	Provider    string  `mapstructure:"provider"` // openai
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // openai, embedeverything
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	Dimensions int    `mapstructure:"dimensions"`
}

// SearchConfig tunes the resolution pipeline stages
type SearchConfig struct {
	TopK               int           `mapstructure:"top_k"`
	JudgeConcurrency   int           `mapstructure:"judge_concurrency"`
	JudgeTimeout       time.Duration `mapstructure:"judge_timeout"`
	EmbedTimeout       time.Duration `mapstructure:"embed_timeout"`
	StrictKeywordCount int           `mapstructure:"strict_keyword_count"`
	StrictMatches      int           `mapstructure:"strict_matches"`
	RelaxBelow         int           `mapstructure:"relax_below"`
	FallbackSize       int           `mapstructure:"fallback_size"`
}

// CacheConfig tunes the query result cache
type CacheConfig struct {
	MaxSize int           `mapstructure:"max_size"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Database defaults
	viper.SetDefault("database.path", "lawyers.db")
	viper.SetDefault("database.school_aliases", "school_aliases.yaml")
	viper.SetDefault("database.practice_aliases", "practice_aliases.yaml")

	viper.SetDefault("nlp.models.default.provider", "openai")
	viper.SetDefault("nlp.models.default.model", "gpt-4o-mini")
	viper.SetDefault("nlp.models.default.temperature", 0.0)
	viper.SetDefault("nlp.models.default.max_tokens", 1024)

	viper.SetDefault("embedding.provider", "embedeverything")
	viper.SetDefault("embedding.model", "all-MiniLM-L6-v2")

	// Search defaults
	viper.SetDefault("search.top_k", 50)
	viper.SetDefault("search.judge_concurrency", 15)
	viper.SetDefault("search.judge_timeout", "30s")
	viper.SetDefault("search.embed_timeout", "30s")
	viper.SetDefault("search.strict_keyword_count", 3)
	viper.SetDefault("search.strict_matches", 2)
	viper.SetDefault("search.relax_below", 5)
	viper.SetDefault("search.fallback_size", 20)

	// Cache defaults
	viper.SetDefault("cache.max_size", 100)
	viper.SetDefault("cache.ttl", "1h")

	// Circuit breaker defaults
	viper.SetDefault("circuit_breaker.enabled", true)
	viper.SetDefault("circuit_breaker.max_requests", 3)
	viper.SetDefault("circuit_breaker.interval", 60)
	viper.SetDefault("circuit_breaker.timeout", 30)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		defaultPath := fmt.Sprintf("%s/.lawsearch/telemetry", home)
		viper.SetDefault("telemetry.parquet_path", defaultPath)
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Initialize Models map if nil
	if config.NLP.Models == nil {
		config.NLP.Models = make(map[string]NLPModelConfig)
	}

	// Helper to get or create model config
	getModel := func(name string) NLPModelConfig {
		if c, ok := config.NLP.Models[name]; ok {
			return c
		}
		return NLPModelConfig{}
	}

	// Update default model from env
	defaultModel := getModel("default")
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		defaultModel.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		defaultModel.BaseURL = baseURL
	}
	config.NLP.Models["default"] = defaultModel

	// Embedding credentials
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && config.Embedding.Provider == "openai" {
		config.Embedding.APIKey = apiKey
	}

	// Database path
	if dbPath := os.Getenv("LAWSEARCH_DB_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
