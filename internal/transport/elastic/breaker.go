package elastic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
	"github.com/kailas-cloud/unisearch/internal/metrics"
)

// Searcher is the search call guarded by a Breaker.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte) (*result.Response, error)
	Ping(ctx context.Context) error
}

// BreakerConfig holds circuit breaker settings.
type BreakerConfig struct {
	Name string
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
	// HalfOpenRequests is the number of probes allowed while half-open.
	HalfOpenRequests uint32
}

// Breaker stops calling the engine after repeated failures.
type Breaker struct {
	inner  Searcher
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

// NewBreaker wraps inner. Engine rejections of a request (4xx) and caller
// cancellation do not count as failures.
func NewBreaker(inner Searcher, cfg BreakerConfig, logger *zap.Logger) *Breaker {
	if cfg.Name == "" {
		cfg.Name = "elasticsearch"
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	metrics.BreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	st := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &Breaker{inner: inner, cb: gobreaker.NewCircuitBreaker(st), logger: logger}
}

// Search implements Searcher.
func (b *Breaker) Search(ctx context.Context, index string, body []byte) (*result.Response, error) {
	resp, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Search(ctx, index, body)
	})
	if err != nil {
		return nil, breakerError(err)
	}
	return resp.(*result.Response), nil
}

// Ping bypasses the breaker so health checks see the real state of the cluster.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.inner.Ping(ctx)
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

func breakerError(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	return err
}
