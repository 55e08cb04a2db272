// Package store holds the typed repositories over the shared key-value
// store. Key naming is an implementation detail of this package: every key
// is owned by exactly one entity and no two entities are ever updated
// together atomically, so no multi-key transactions exist anywhere.
package store

import (
	"context"
	"time"
)

// KV is the subset of store operations the repositories need. The redis
// package client satisfies it; tests use an in-memory fake.
type KV interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]interface{}) error
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)
	Get(ctx context.Context, key string) (string, error)
	SetEX(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, pattern string) ([]string, error)
}

const (
	promptKeyPrefix    = "prompt:"
	analyticsKeyPrefix = "analytics:"
	sessionKeyPrefix   = "session:"
	userKeyPrefix      = "user:"
)

func promptKey(slug string) string    { return promptKeyPrefix + slug }
func analyticsKey(slug string) string { return analyticsKeyPrefix + slug }
func userKey(name string) string      { return userKeyPrefix + name }

func sessionKey(slug, token string) string {
	return sessionKeyPrefix + slug + ":" + token
}
