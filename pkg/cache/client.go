package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache: miss")

type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

type noopCache struct{}

// NewNoopCache returns a Cache that stores nothing. Used when caching is disabled.
func NewNoopCache() Cache {
	return noopCache{}
}

func (noopCache) Set(context.Context, string, string, time.Duration) error { return nil }
func (noopCache) Get(context.Context, string) (string, error)              { return "", ErrMiss }
func (noopCache) Del(context.Context, string) error                        { return nil }
