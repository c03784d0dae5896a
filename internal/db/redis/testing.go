package redis

import (
	"time"

	"github.com/redis/rueidis"
)

// NewStoreForTest creates a Store with the provided rueidis client (test-only).
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}

// NewCachedStoreForTest creates a Store that reads through client-side caching (test-only).
func NewCachedStoreForTest(c rueidis.Client, ttl time.Duration) *Store {
	return &Store{client: c, cacheTTL: ttl}
}
