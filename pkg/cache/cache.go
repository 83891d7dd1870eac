// Package cache stores rendered rung artifacts keyed by their source.
//
// Graphviz layout dominates the cost of SVG and PNG output, and identical
// DOT text always lays out the same way, so renders are keyed by a hash of
// the DOT source and the output format.
//
// Three stores are provided: [MemoryCache] for a single server process,
// [FileCache] for the command line, and [RedisCache] for servers that
// share renders. [NullCache] disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiry. A zero ttl never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RenderKey returns the key of a rendered artifact.
func RenderKey(format, dot string) string {
	return "render:" + format + ":" + Hash([]byte(dot))
}

// Fetch returns the cached value for key, or calls fill, stores its result
// and returns it. Cache errors fall through to fill.
func Fetch(ctx context.Context, c Cache, key string, ttl time.Duration, fill func() ([]byte, error)) ([]byte, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := fill()
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, nil
}
