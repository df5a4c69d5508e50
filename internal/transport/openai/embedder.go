// Package openai embeds text through an OpenAI-compatible embeddings API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/metrics"
)

// Compile-time checks.
var (
	_ domain.BatchEmbedder = (*Embedder)(nil)
	_ domain.HealthChecker = (*Embedder)(nil)
)

// Embedder is an embedding provider using the OpenAI-compatible API.
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
	user       string
	provider   string
	logger     *zap.Logger
}

// Config holds the embedding provider settings.
type Config struct {
	APIKey     string
	BaseURL    string // empty keeps the api.openai.com default
	Model      string
	Dimensions int
	User       string
	Provider   string
	Logger     *zap.Logger
}

// NewEmbedder creates an OpenAI-compatible embedding provider.
func NewEmbedder(cfg *Config) *Embedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.EmbeddingModel(cfg.Model),
		dimensions: cfg.Dimensions,
		user:       cfg.User,
		provider:   provider,
		logger:     logger,
	}
}

// Name returns the provider label used in metrics.
func (e *Embedder) Name() string { return e.provider }

// Embed implements domain.Embedder. Returns the vector and usage with transport-level metrics.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.create(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder with a single API call.
// Vectors are returned in input order regardless of the order the API lists them in.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	return e.create(ctx, texts)
}

func (e *Embedder) create(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	req := openai.EmbeddingRequest{
		Input:          texts,
		Model:          e.model,
		EncodingFormat: openai.EmbeddingEncodingFormatFloat,
		User:           e.user,
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	model := string(e.model)
	start := time.Now()

	resp, err := e.client.CreateEmbeddings(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, model, "api_error").Inc()
		return domain.BatchEmbeddingResult{}, parseAPIError(err)
	}

	if len(resp.Data) != len(texts) {
		metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(e.provider, model, "empty_response").Inc()
		return domain.BatchEmbeddingResult{}, fmt.Errorf("embedding response has %d vectors for %d inputs: %w",
			len(resp.Data), len(texts), domain.ErrEmbeddingProviderError)
	}

	// Record success metrics
	metrics.EmbeddingRequestsTotal.WithLabelValues(e.provider, model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(e.provider, model).Observe(duration.Seconds())

	totalTokens := resp.Usage.TotalTokens
	promptTokens := resp.Usage.PromptTokens
	if totalTokens > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "prompt").Add(float64(promptTokens))
		metrics.EmbeddingTokensTotal.WithLabelValues(e.provider, model, "total").Add(float64(totalTokens))
	}

	data := resp.Data
	sort.SliceStable(data, func(i, j int) bool { return data[i].Index < data[j].Index })

	embeddings := make([][]float32, len(data))
	for i := range data {
		embeddings[i] = data[i].Embedding
	}

	if len(texts) > 1 {
		e.logger.Debug("Batch embedded",
			zap.Int("texts", len(texts)),
			zap.Int("total_tokens", totalTokens),
			zap.Duration("duration", duration),
		)
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrEmbeddingProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrEmbeddingProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("embedding API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("embedding API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("embedding API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("embedding request: %w: %w", err, wrap)
	}
	return fmt.Errorf("embedding request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body (FastAPI-style gateways).
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
