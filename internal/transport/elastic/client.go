package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
	"github.com/kailas-cloud/unisearch/internal/metrics"
)

// Config holds the search engine connection settings.
type Config struct {
	Addresses  []string
	Username   string
	Password   string
	MaxRetries int
	// Transport overrides the HTTP transport (tests).
	Transport http.RoundTripper
	Logger    *zap.Logger
}

// Client runs search requests against Elasticsearch.
type Client struct {
	es     *elasticsearch.Client
	logger *zap.Logger
}

// StatusError is a non-2xx reply from the engine.
type StatusError struct {
	Status int
	Type   string
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: status %d: %s: %s", domain.ErrUpstream, e.Status, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s: status %d", domain.ErrUpstream, e.Status)
}

func (e *StatusError) Unwrap() error { return domain.ErrUpstream }

// New creates a client. No request is made until the first call.
func New(cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  cfg.Addresses,
		Username:   cfg.Username,
		Password:   cfg.Password,
		MaxRetries: cfg.MaxRetries,
		Transport:  cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{es: es, logger: logger}, nil
}

// Search posts body to {index}/_search and parses the reply.
func (c *Client) Search(ctx context.Context, index string, body []byte) (*result.Response, error) {
	start := time.Now()

	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		c.observeError(index, "transport")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		c.observeError(index, "read")
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrUpstream, err)
	}

	if res.IsError() {
		c.observeError(index, "status")
		serr := statusError(res.StatusCode, data)
		c.logger.Warn("Search engine rejected request",
			zap.String("index", index),
			zap.Int("status", res.StatusCode),
			zap.String("type", serr.Type),
			zap.String("reason", serr.Reason),
		)
		return nil, serr
	}

	resp, err := result.Parse(data)
	if err != nil {
		c.observeError(index, "decode")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(index, "success").Inc()
	metrics.SearchRequestDuration.WithLabelValues(index).Observe(time.Since(start).Seconds())
	return resp, nil
}

// Ping checks that the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("%w: ping: %w", domain.ErrUpstream, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return &StatusError{Status: res.StatusCode}
	}
	return nil
}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		if err := c.Ping(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for elasticsearch: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *Client) observeError(index, errorType string) {
	metrics.SearchRequestsTotal.WithLabelValues(index, "error").Inc()
	metrics.SearchErrorsTotal.WithLabelValues(index, errorType).Inc()
}

func statusError(status int, body []byte) *StatusError {
	serr := &StatusError{Status: status}
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Error) == 0 {
		return serr
	}
	var detail struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(payload.Error, &detail); err == nil {
		serr.Type, serr.Reason = detail.Type, detail.Reason
		return serr
	}
	// Some errors are a bare string.
	var msg string
	if err := json.Unmarshal(payload.Error, &msg); err == nil {
		serr.Reason = msg
	}
	return serr
}

// IsClientError reports whether err is an engine rejection of the request itself.
func IsClientError(err error) bool {
	var serr *StatusError
	return errors.As(err, &serr) && serr.Status >= 400 && serr.Status < 500
}
