package shopassist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/shopassist/internal/db/redis"
	"github.com/kailas-cloud/shopassist/internal/domain"
	"github.com/kailas-cloud/shopassist/internal/domain/product"
	"github.com/kailas-cloud/shopassist/internal/domain/reply"
	catalogrepo "github.com/kailas-cloud/shopassist/internal/repository/catalog"
	"github.com/kailas-cloud/shopassist/internal/repository/embcache"
	"github.com/kailas-cloud/shopassist/internal/usecase/assistant"
	cataloguc "github.com/kailas-cloud/shopassist/internal/usecase/catalog"
	healthuc "github.com/kailas-cloud/shopassist/internal/usecase/health"
	"github.com/kailas-cloud/shopassist/internal/usecase/intent"
	"github.com/kailas-cloud/shopassist/internal/usecase/retrieval"
	"github.com/kailas-cloud/shopassist/internal/usecase/synth"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCachePrefix      = "shopassist:sdk:"
	defaultCurrency         = "rupees"
)

// Внутренние интерфейсы для подмены в тестах.
type assistantUseCase interface {
	Respond(ctx context.Context, text string) reply.Reply
}

type catalogReader interface {
	Len() int
	Products(limit int) []product.Product
	Lookup(sku string) (product.Product, bool)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the shopassist SDK entry point.
type Client struct {
	store     *redis.Store
	assistant assistantUseCase
	catalog   catalogReader
	healthSvc healthUseCase
	obs       *observer
}

// New builds the catalog index and wires the assistant.
// The provided context bounds cache readiness and catalog embedding.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		topK:        retrieval.DefaultTopK,
		minScore:    retrieval.DefaultMinScore,
		currency:    defaultCurrency,
		cachePrefix: defaultCachePrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.embedder == nil {
		return nil, errors.New("shopassist: embedder required (use WithEmbedder)")
	}
	products, err := loadProducts(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(ctx, store, products, cfg, obs)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, err
	}
	return c, nil
}

func loadProducts(cfg *clientConfig) ([]product.Product, error) {
	switch {
	case len(cfg.products) > 0:
		out := make([]product.Product, 0, len(cfg.products))
		for _, p := range cfg.products {
			dp, err := productToDomain(p)
			if err != nil {
				return nil, fmt.Errorf("shopassist: %w: %w", domain.ErrInvalidRecord, err)
			}
			out = append(out, dp)
		}
		return out, nil
	case cfg.catalogPath != "":
		out, err := catalogrepo.Load(cfg.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("shopassist: load catalog: %w", err)
		}
		return out, nil
	default:
		return nil, errors.New("shopassist: catalog required (use WithCatalogFile or WithProducts)")
	}
}

func openCache(ctx context.Context, cfg *clientConfig) (*redis.Store, error) {
	if cfg.cacheDriver == "" {
		return nil, nil
	}
	store, err := redis.NewStore(redis.Config{
		Driver:   cfg.cacheDriver,
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePass,
	})
	if err != nil {
		return nil, fmt.Errorf("shopassist: create %s cache: %w", cfg.cacheDriver, err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("shopassist: cache not ready: %w", err)
	}
	return store, nil
}

func wireClient(
	ctx context.Context,
	store *redis.Store,
	products []product.Product,
	cfg *clientConfig,
	obs *observer,
) (*Client, error) {
	emb := adaptEmbedder(cfg.embedder)
	if store != nil {
		emb = embcache.New(emb, store, cfg.cachePrefix, nil, nil).WithTTL(cfg.cacheTTL)
	}

	start := time.Now()
	index, err := cataloguc.New(emb, nil).
		WithDimensions(cfg.vectorDimensions).
		Build(ctx, products)
	obs.observeBuild(start, len(products), err)
	if err != nil {
		return nil, fmt.Errorf("shopassist: build catalog: %w", err)
	}

	retriever := retrieval.New(index, emb).WithMinScore(cfg.minScore)
	svc := assistant.New(intent.NewDefault(), retriever, synth.New(cfg.currency), nil).
		WithTopK(cfg.topK)

	// Pass nil interface (not typed nil pointer) when the cache is off.
	var cache healthuc.CachePinger
	if store != nil {
		cache = store
	}

	return &Client{
		store:     store,
		assistant: svc,
		catalog:   index,
		healthSvc: healthuc.New(index, cache, nil),
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ask answers a shopper's message. It never fails: a degraded catalog search
// yields a "nothing found" reply with a failure Outcome.
func (c *Client) Ask(ctx context.Context, text string) Reply {
	start := time.Now()
	r := c.assistant.Respond(ctx, text)
	c.obs.observeAsk(start, r)
	return replyFromDomain(r)
}

// Products returns up to limit catalog products in catalog order; limit <= 0 returns all.
func (c *Client) Products(limit int) []Product {
	ps := c.catalog.Products(limit)
	out := make([]Product, len(ps))
	for i := range ps {
		out[i] = productFromDomain(&ps[i])
	}
	return out
}

// Product returns the catalog product with the given SKU.
func (c *Client) Product(sku string) (Product, bool) {
	p, ok := c.catalog.Lookup(sku)
	if !ok {
		return Product{}, false
	}
	return productFromDomain(&p), true
}

// Len returns the number of indexed products.
func (c *Client) Len() int { return c.catalog.Len() }
