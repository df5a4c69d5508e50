package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/shopassist/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Err: err}
	}
	return data, nil
}

// MGet fetches many keys in one command. Missing keys come back as nil entries.
func (s *Store) MGet(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmd := s.b().Mget().Key(keys...).Build()
	arr, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpMGet, Err: err}
	}
	if len(arr) != len(keys) {
		return nil, &db.Error{Op: db.OpMGet, Err: fmt.Errorf("got %d values for %d keys", len(arr), len(keys))}
	}

	out := make([][]byte, len(arr))
	for i := range arr {
		if arr[i].IsNil() {
			continue
		}
		data, err := arr[i].AsBytes()
		if err != nil {
			return nil, &db.Error{Op: db.OpMGet, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = data
	}
	return out, nil
}

// Set stores a value at the given key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetWithTTL stores a value with an expiration.
func (s *Store) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpSet, Err: err}
	}
	return nil
}

// SetMulti stores multiple values in a single DoMulti round-trip.
func (s *Store) SetMulti(ctx context.Context, items []db.SetItem, ttl time.Duration) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, len(items))
	for i, item := range items {
		set := s.b().Set().Key(item.Key).Value(rueidis.BinaryString(item.Value))
		if ttl > 0 {
			cmds[i] = set.Ex(ttl).Build()
		} else {
			cmds[i] = set.Build()
		}
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpSet, Err: fmt.Errorf("key %s: %w", items[i].Key, err)}
		}
	}
	return nil
}

// Del removes a key. Deleting a missing key is not an error.
func (s *Store) Del(ctx context.Context, key string) error {
	cmd := s.b().Del().Key(key).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
