package embcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/db"
	"github.com/kailas-cloud/shopassist/internal/domain"
)

type mockEmbedder struct {
	result      domain.EmbeddingResult
	err         error
	batchResult domain.BatchEmbeddingResult
	batchErr    error
	batchCalls  int
	batchTexts  []string
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchTexts = append(m.batchTexts, texts...)
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	if m.batchResult.Embeddings != nil {
		return m.batchResult, nil
	}
	// Авто-генерация
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn      func(ctx context.Context, key string) ([]byte, error)
	mgetFn     func(ctx context.Context, keys []string) ([][]byte, error)
	setFn      func(ctx context.Context, key string, value []byte) error
	setTTLFn   func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	setMultiFn func(ctx context.Context, items []db.SetItem, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if m.mgetFn != nil {
		return m.mgetFn(ctx, keys)
	}
	return make([][]byte, len(keys)), nil
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setTTLFn != nil {
		return m.setTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockKVStore) SetMulti(ctx context.Context, items []db.SetItem, ttl time.Duration) error {
	if m.setMultiFn != nil {
		return m.setMultiFn(ctx, items, ttl)
	}
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner domain.Embedder) (*CachedEmbedder, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	ce := New(inner, ms, "shopassist:test:", nil, zap.NewNop())
	return ce, ms
}
