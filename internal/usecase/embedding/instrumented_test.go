package embedding

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEmbeddingMetrics()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	batchErr   error
	calls      int
	batchCalls int
	batchSizes []int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
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

// singleOnly hides BatchEmbed so the fallback path is exercised.
type singleOnly struct{ inner *mockEmbedder }

func (s singleOnly) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return s.inner.Embed(ctx, text)
}

// --- Tests ---

func TestInstrumentedEmbedder_Success(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:    []float32{0.1, 0.2, 0.3},
		PromptTokens: 7,
		TotalTokens:  7,
	}}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.NewNop())

	result, err := p.Embed(context.Background(), "gold ring")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 {
		t.Fatalf("expected 3 dimensions, got %d", len(result.Embedding))
	}
	if result.TotalTokens != 7 {
		t.Errorf("TotalTokens = %d, expected 7", result.TotalTokens)
	}
}

func TestInstrumentedEmbedder_Error(t *testing.T) {
	inner := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", nil)

	_, err := p.Embed(context.Background(), "gold ring")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
}

func TestInstrumentedEmbedder_BatchEmbed_Chunks(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{
		Embedding:   []float32{0.5},
		TotalTokens: 2,
	}}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.NewNop()).WithBatchSize(2)

	res, err := p.BatchEmbed(context.Background(), []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 5 {
		t.Fatalf("expected 5 embeddings, got %d", len(res.Embeddings))
	}
	if inner.batchCalls != 3 {
		t.Errorf("expected 3 chunked calls, got %d", inner.batchCalls)
	}
	want := []int{2, 2, 1}
	for i, n := range want {
		if inner.batchSizes[i] != n {
			t.Errorf("chunk %d size = %d, expected %d", i, inner.batchSizes[i], n)
		}
	}
	if res.TotalTokens != 10 {
		t.Errorf("TotalTokens = %d, expected 10", res.TotalTokens)
	}
}

func TestInstrumentedEmbedder_BatchEmbed_Empty(t *testing.T) {
	inner := &mockEmbedder{}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.NewNop())

	res, err := p.BatchEmbed(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 0 || inner.batchCalls != 0 {
		t.Errorf("expected no work for empty input")
	}
}

func TestInstrumentedEmbedder_BatchEmbed_InnerError(t *testing.T) {
	inner := &mockEmbedder{batchErr: errors.New("api down")}
	p := NewInstrumentedEmbedder(inner, "test", "test-model", zap.NewNop())

	if _, err := p.BatchEmbed(context.Background(), []string{"a"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestInstrumentedEmbedder_BatchEmbed_FallbackToSingle(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{0.9}, TotalTokens: 1}}
	p := NewInstrumentedEmbedder(singleOnly{inner}, "test", "test-model", zap.NewNop())

	res, err := p.BatchEmbed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embeddings) != 3 || inner.calls != 3 {
		t.Errorf("expected 3 single calls, got %d embeddings / %d calls", len(res.Embeddings), inner.calls)
	}
}

func TestInstrumentedEmbedder_WithBatchSizeIgnoresNonPositive(t *testing.T) {
	p := NewInstrumentedEmbedder(&mockEmbedder{}, "test", "m", nil).WithBatchSize(0)
	if p.batchSize != DefaultMaxAPIBatchSize {
		t.Errorf("batchSize = %d, expected default", p.batchSize)
	}
}

func TestInstrumentedEmbedder_RecordsUsage(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 7}}
	e := NewInstrumentedEmbedder(inner, "test", "m", zap.NewNop()).WithBatchSize(2)

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := e.Embed(ctx, "gold ring"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if _, err := e.BatchEmbed(ctx, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("BatchEmbed: %v", err)
	}

	if !usage.Used {
		t.Error("usage must be marked as used")
	}
	if usage.TotalTokens != 7+21 {
		t.Errorf("TotalTokens = %d, want 28", usage.TotalTokens)
	}
}

func TestInstrumentedEmbedder_NoUsageCollector(t *testing.T) {
	inner := &mockEmbedder{result: domain.EmbeddingResult{Embedding: []float32{1}, TotalTokens: 7}}
	e := NewInstrumentedEmbedder(inner, "test", "m", zap.NewNop())

	if _, err := e.Embed(context.Background(), "x"); err != nil {
		t.Fatalf("Embed without collector: %v", err)
	}
}
