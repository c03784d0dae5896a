package refcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/db"
	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
)

const cacheKeyPrefix = "unisearch:ref:"

// DefaultTTL is used when New gets a non-positive ttl.
const DefaultTTL = time.Hour

// store is the consumer interface for the reference cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Searcher is the engine call being cached.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte) (*result.Response, error)
}

// CachedSearcher caches engine replies for reference indices.
// Requests to other indices pass straight through.
type CachedSearcher struct {
	inner      Searcher
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSearcher {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSearcher{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Search returns a cached reply or calls the inner searcher.
func (c *CachedSearcher) Search(ctx context.Context, idx string, body []byte) (*result.Response, error) {
	if !cacheable(idx) {
		return c.inner.Search(ctx, idx, body)
	}

	key := cacheKey(idx, body)
	if resp, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return resp, nil
	}

	c.incCache("miss")

	resp, err := c.inner.Search(ctx, idx, body)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", idx, err)
	}

	c.putToCache(ctx, key, resp.Raw())
	return resp, nil
}

func cacheable(idx string) bool {
	switch index.Index(idx) {
	case index.OntologyTree, index.OntologyWord,
		index.AdministrativeDivision, index.HelsinkiCommonAdministrativeDivision:
		return true
	default:
		return false
	}
}

func cacheKey(idx string, body []byte) string {
	h := sha256.Sum256(body)
	return cacheKeyPrefix + idx + ":" + hex.EncodeToString(h[:])
}

func (c *CachedSearcher) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSearcher) getFromCache(ctx context.Context, key string) (*result.Response, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached reference data", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	resp, err := result.Parse(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached reference data", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return resp, true
}

func (c *CachedSearcher) putToCache(ctx context.Context, key string, raw []byte) {
	if len(raw) == 0 {
		return
	}
	if err := c.store.SetWithTTL(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("Failed to cache reference data", zap.String("key", key), zap.Error(err))
	}
}
