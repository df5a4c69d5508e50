// Package redis implements db.Store on rueidis for both Valkey and Redis servers.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/shopassist/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Supported drivers. Both speak the same RESP key-value commands.
const (
	DriverValkey = "valkey"
	DriverRedis  = "redis"
)

// Config holds connection parameters for a store.
type Config struct {
	Driver   string // valkey (default) or redis
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store via rueidis.
type Store struct {
	client rueidis.Client
	driver string
}

// NewStore creates a store via rueidis.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	driver := cfg.Driver
	switch driver {
	case "":
		driver = DriverValkey
	case DriverValkey, DriverRedis:
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		ClientName:   "shopassist",
		DisableCache: true, // embeddings are read once per process, client-side tracking buys nothing
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", driver, err)
	}

	return &Store{client: client, driver: driver}, nil
}

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c, driver: DriverValkey}
}

// Driver returns the configured server flavor.
func (s *Store) Driver() string { return s.driver }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	cmd := s.b().Ping().Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady polls Ping until the store responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for %s: %w", s.driver, ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
