package unisearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/domain/language"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	esAddrs    []string
	esUser     string
	esPassword string
	maxRetries int

	breaker            bool
	breakerMaxFailures uint32
	breakerOpenTimeout time.Duration

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	timeZone        *time.Location
	defaultLanguage language.Code
	reservable      bool

	readinessTimeout time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithElasticsearch sets the search engine node URLs.
func WithElasticsearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esAddrs = addrs
	})
}

// WithBasicAuth sets the search engine credentials.
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.esUser = username
		c.esPassword = password
	})
}

// WithMaxRetries sets how many times a failed engine request is retried.
func WithMaxRetries(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRetries = n
	})
}

// WithCircuitBreaker stops calling the engine after maxFailures consecutive
// failures and probes it again after openTimeout.
func WithCircuitBreaker(maxFailures uint32, openTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.breaker = true
		c.breakerMaxFailures = maxFailures
		c.breakerOpenTimeout = openTimeout
	})
}

// WithCache caches reference index lookups in Redis for ttl.
// A zero ttl uses one hour.
func WithCache(addrs []string, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = addrs
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithTimeZone sets the zone of openAt instants without an offset.
// Defaults to Europe/Helsinki.
func WithTimeZone(loc *time.Location) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeZone = loc
	})
}

// WithDefaultLanguage sets the sort language used when a request names none.
// Accepts "fi", "sv" or "en".
func WithDefaultLanguage(code string) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLanguage = language.Code(code)
	})
}

// WithReservableResourceFilter enables the mustHaveReservableResource filter.
func WithReservableResourceFilter(enabled bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.reservable = enabled
	})
}

// WithReadinessTimeout bounds how long New waits for the engine and cache.
// Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
