package shopassist

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	catalogPath string
	products    []Product

	embedder         Embedder
	vectorDimensions int

	topK     int
	minScore float64
	currency string

	cacheDriver string // "valkey" or "redis"; empty disables the cache
	cacheAddrs  []string
	cachePass   string
	cachePrefix string
	cacheTTL    time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalogFile loads products from a .csv or .parquet file.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
	})
}

// WithProducts uses an in-memory catalog instead of a file.
func WithProducts(products ...Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.products = append(c.products, products...)
	})
}

// WithEmbedder sets the text embedding provider. Required.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions makes catalog build fail on vectors of any other length.
// Zero (default) accepts whatever the first vector has.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithTopK sets the maximum number of products per reply. Default: 4.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithMinScore sets the cosine relevance floor. Default: 0.2.
func WithMinScore(score float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.minScore = score
	})
}

// WithCurrency sets the currency word used in price ranges. Default: "rupees".
func WithCurrency(currency string) Option {
	return optionFunc(func(c *clientConfig) {
		c.currency = currency
	})
}

// WithValkeyCache caches catalog vectors in a Valkey instance.
func WithValkeyCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
	})
}

// WithRedisCache caches catalog vectors in a Redis instance.
func WithRedisCache(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePass = password
	})
}

// WithCacheKeyPrefix namespaces cache keys. Default: "shopassist:sdk:".
// Use a different prefix per embedding model.
func WithCacheKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cachePrefix = prefix
	})
}

// WithCacheTTL expires cached vectors. Zero (default) keeps them forever.
func WithCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations,
// replies by source and retrieval outcome) on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
