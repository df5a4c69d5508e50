// Package db defines the key-value store contracts behind the embedding cache.
package db

import (
	"context"
	"time"
)

// Store is the database facade used by the composition root.
type Store interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetItem holds a single key+value pair for pipelined SET.
type SetItem struct {
	Key   string
	Value []byte
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// MGet returns values aligned with keys; a missing key yields a nil entry.
	MGet(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetMulti stores all items in one round-trip. ttl <= 0 means no expiry.
	SetMulti(ctx context.Context, items []SetItem, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
