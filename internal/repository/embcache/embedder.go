// Package embcache caches text embeddings in a key-value store.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/db"
	"github.com/kailas-cloud/shopassist/internal/domain"
)

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Set(ctx context.Context, key string, value []byte) error
	SetMulti(ctx context.Context, items []db.SetItem, ttl time.Duration) error
}

// Compile-time check: CachedEmbedder serves both single and batch calls.
var _ domain.BatchEmbedder = (*CachedEmbedder)(nil)

// CachedEmbedder caches embeddings in a key-value store.
// Keys are scoped by namespace (key prefix + model) so vectors of different models never mix.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	namespace  string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	namespace string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		namespace:  namespace,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithTTL sets the expiry of cached vectors. Zero keeps them forever.
func (c *CachedEmbedder) WithTTL(ttl time.Duration) *CachedEmbedder {
	c.ttl = ttl
	return c
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit", 1)
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss", 1)

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}

	c.putToCache(ctx, key, result.Embedding)
	return result, nil
}

// BatchEmbed resolves cached vectors with one MGET and embeds only the misses.
// Output order matches texts. Tokens are counted for misses only.
func (c *CachedEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = c.cacheKey(t)
	}

	out := make([][]float32, len(texts))
	cached, err := c.store.MGet(ctx, keys)
	if err != nil {
		c.logger.Warn("Failed to read cached embeddings", zap.Int("keys", len(keys)), zap.Error(err))
		cached = nil
	}

	var missIdx []int
	for i := range texts {
		if i < len(cached) && len(cached[i]) > 0 {
			vec, perr := bytesToVector(cached[i])
			if perr == nil {
				out[i] = vec
				continue
			}
			c.logger.Warn("Failed to parse cached embedding", zap.String("key", keys[i]), zap.Error(perr))
		}
		missIdx = append(missIdx, i)
	}

	c.incCache("hit", len(texts)-len(missIdx))
	c.incCache("miss", len(missIdx))

	if len(missIdx) == 0 {
		return domain.BatchEmbeddingResult{Embeddings: out}, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}

	res, err := domain.EmbedAll(ctx, c.inner, missTexts)
	if err != nil {
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embed %d uncached texts: %w", len(missTexts), err)
	}

	items := make([]db.SetItem, len(missIdx))
	for j, i := range missIdx {
		out[i] = res.Embeddings[j]
		items[j] = db.SetItem{Key: keys[i], Value: vectorToCacheBytes(res.Embeddings[j])}
	}
	if err := c.store.SetMulti(ctx, items, c.ttl); err != nil {
		c.logger.Warn("Failed to cache embeddings", zap.Int("keys", len(items)), zap.Error(err))
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   out,
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

func (c *CachedEmbedder) incCache(result string, n int) {
	if c.cacheTotal != nil && n > 0 {
		c.cacheTotal.WithLabelValues(result).Add(float64(n))
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return c.namespace + "emb:" + hex.EncodeToString(h[:])
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := bytesToVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, vec []float32) {
	data := vectorToCacheBytes(vec)
	var err error
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

func vectorToCacheBytes(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func bytesToVector(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding cache data: len=%d (not multiple of 4)", len(data))
	}
	vec := make([]float32, len(data)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return vec, nil
}
