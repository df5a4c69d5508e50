package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the shopassist service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Auth      AuthConfig      `yaml:"auth"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. Empty APIKeys disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CORSConfig holds browser cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// RateLimitConfig holds per-IP limits for the assistant endpoints. Requests=0 disables limiting.
type RateLimitConfig struct {
	Requests  int `yaml:"requests"`
	WindowSec int `yaml:"window_sec"`
}

// CatalogConfig points at the product catalog file.
type CatalogConfig struct {
	Path     string `yaml:"path"`     // .csv or .parquet
	Currency string `yaml:"currency"` // spoken currency word
}

// RetrievalConfig holds semantic search settings.
type RetrievalConfig struct {
	TopK           int     `yaml:"top_k"`
	MinScore       float64 `yaml:"min_score"`
	BuildBatchSize int     `yaml:"build_batch_size"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string        `yaml:"provider"` // openai, fastembed
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	Model      string        `yaml:"model"`
	Dimensions int           `yaml:"dimensions"`
	CacheDir   string        `yaml:"cache_dir"` // fastembed model cache
	Breaker    BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker thresholds for the embedding provider.
type BreakerConfig struct {
	MaxFailures uint32 `yaml:"max_failures"`  // consecutive failures before opening
	OpenSec     int    `yaml:"open_sec"`      // how long the breaker stays open
	HalfOpenMax uint32 `yaml:"half_open_max"` // probes allowed in half-open
}

// CacheConfig holds embedding cache store settings. Empty Addrs disables the cache.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLSec           int      `yaml:"ttl_sec"` // 0 = no expiry
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Enabled reports whether an embedding cache store is configured.
func (c CacheConfig) Enabled() bool { return len(c.Addrs) > 0 }

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"*"}
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.RateLimit.WindowSec <= 0 {
		c.RateLimit.WindowSec = 60
	}
	if c.Catalog.Currency == "" {
		c.Catalog.Currency = "rupees"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 4
	}
	if c.Retrieval.MinScore == 0 {
		c.Retrieval.MinScore = 0.2
	}
	if c.Retrieval.BuildBatchSize <= 0 {
		c.Retrieval.BuildBatchSize = 64
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "fastembed"
	}
	if c.Embedding.Provider == "openai" && c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.CacheDir == "" {
		c.Embedding.CacheDir = "local_cache"
	}
	if c.Embedding.Breaker.MaxFailures == 0 {
		c.Embedding.Breaker.MaxFailures = 5
	}
	if c.Embedding.Breaker.OpenSec <= 0 {
		c.Embedding.Breaker.OpenSec = 30
	}
	if c.Embedding.Breaker.HalfOpenMax == 0 {
		c.Embedding.Breaker.HalfOpenMax = 1
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = "valkey"
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "shopassist:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	if c.Retrieval.MinScore < -1 || c.Retrieval.MinScore > 1 {
		return fmt.Errorf("retrieval.min_score must be within [-1, 1], got %v", c.Retrieval.MinScore)
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("rate_limit.requests must not be negative, got %d", c.RateLimit.Requests)
	}
	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.APIKey == "" {
			return fmt.Errorf("embedding.api_key is required for provider \"openai\"")
		}
	case "fastembed":
		// ok
	default:
		return fmt.Errorf(
			"embedding.provider must be \"openai\" or \"fastembed\", got %q",
			c.Embedding.Provider,
		)
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	switch c.Cache.Driver {
	case "valkey", "redis":
		// ok
	default:
		return fmt.Errorf("cache.driver must be \"valkey\" or \"redis\", got %q", c.Cache.Driver)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative, got %d", c.Cache.TTLSec)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
