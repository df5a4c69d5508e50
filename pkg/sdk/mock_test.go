package shopassist

import (
	"context"
	"strings"
	"sync"

	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/domain/reply"
	healthuc "github.com/kailas-cloud/shopassist/internal/usecase/health"
)

// --- Embedder mocks ---

var keywordVocabulary = []string{"gold", "silver", "ring", "necklace", "wedding"}

// keywordVector marks which vocabulary words occur in text.
func keywordVector(text string) []float32 {
	text = strings.ToLower(text)
	vec := make([]float32, len(keywordVocabulary))
	for i, w := range keywordVocabulary {
		if strings.Contains(text, w) {
			vec[i] = 1
		}
	}
	return vec
}

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

func keywordEmbedder() *mockEmbedder {
	return &mockEmbedder{fn: func(_ context.Context, text string) (EmbeddingResult, error) {
		return EmbeddingResult{Embedding: keywordVector(text), TotalTokens: 1}, nil
	}}
}

type mockBatchEmbedder struct {
	mu         sync.Mutex
	embedCalls int
	batchCalls int
}

func (m *mockBatchEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	return EmbeddingResult{Embedding: keywordVector(text)}, nil
}

func (m *mockBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (BatchEmbeddingResult, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = keywordVector(t)
	}
	return BatchEmbeddingResult{Embeddings: out, TotalTokens: len(texts)}, nil
}

// --- Use case mocks ---

type mockAssistantUC struct {
	respondFn func(ctx context.Context, text string) reply.Reply
}

func (m *mockAssistantUC) Respond(ctx context.Context, text string) reply.Reply {
	return m.respondFn(ctx, text)
}

type mockCatalog struct {
	products []product.Product
}

func (m *mockCatalog) Len() int { return len(m.products) }

func (m *mockCatalog) Products(limit int) []product.Product {
	if limit > 0 && limit < len(m.products) {
		return m.products[:limit]
	}
	return m.products
}

func (m *mockCatalog) Lookup(sku string) (product.Product, bool) {
	for i := range m.products {
		if m.products[i].SKU() == sku {
			return m.products[i], true
		}
	}
	return product.Product{}, false
}

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- Fixtures ---

func jewelry() []Product {
	return []Product{
		{SKU: "R1", Name: "Gold Wedding Ring", Category: "Ring", Material: "Gold",
			Occasion: "Wedding", Price: 50000, Rating: 4.8, Stock: 3},
		{SKU: "R2", Name: "Silver Band", Category: "Ring", Material: "Silver", Price: 30000},
		{SKU: "N1", Name: "Pearl Necklace", Category: "Necklace", Material: "Silver", Price: 20000},
	}
}
