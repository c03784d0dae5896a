package unisearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/unisearch/internal/db/redis"
	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
	"github.com/kailas-cloud/unisearch/internal/domain/search/query"
	"github.com/kailas-cloud/unisearch/internal/domain/search/request"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
	"github.com/kailas-cloud/unisearch/internal/repository/refcache"
	"github.com/kailas-cloud/unisearch/internal/transport/elastic"
	healthuc "github.com/kailas-cloud/unisearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/unisearch/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Edge is one hit of a page with the cursor that resumes after it.
type Edge = page.Edge[result.Node]

// PageInfo describes the position of a page within the whole result set.
type PageInfo = page.Info

// Page is one page of a unified search.
type Page struct {
	Edges     []Edge
	TotalHits int
	MaxScore  *float64
	PageInfo  PageInfo
	// Results holds the raw engine reply.
	Results []json.RawMessage
}

// Client runs unified searches in-process.
type Client struct {
	store     *dbRedis.Store
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

type searchUseCase interface {
	UnifiedSearch(ctx context.Context, req request.Request) (searchuc.Connection, error)
	Suggestions(ctx context.Context, prefix string, langs []language.Code, idx index.Index, size int) ([]string, error)
	OntologyTree(ctx context.Context, rootID string, leavesOnly bool) ([]json.RawMessage, error)
	OntologyWords(ctx context.Context, ids []string) ([]json.RawMessage, error)
	AdministrativeDivisions(ctx context.Context, helsinkiCommonOnly bool) ([]json.RawMessage, error)
}

// New connects to the search engine, and to the cache when WithCache is given,
// and waits until both answer.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.esAddrs) == 0 {
		return nil, errors.New("unisearch: search engine address required (use WithElasticsearch)")
	}
	if cfg.defaultLanguage != language.Undefined && !cfg.defaultLanguage.IsDefined() {
		return nil, fmt.Errorf("unisearch: unknown default language %q", cfg.defaultLanguage)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	es, err := elastic.New(elastic.Config{
		Addresses:  cfg.esAddrs,
		Username:   cfg.esUser,
		Password:   cfg.esPassword,
		MaxRetries: cfg.maxRetries,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("unisearch: %w", err)
	}
	if err := es.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		return nil, fmt.Errorf("unisearch: search engine not ready: %w", err)
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return wireClient(es, store, cfg, obs), nil
}

func createStore(ctx context.Context, cfg *clientConfig) (*dbRedis.Store, error) {
	if len(cfg.cacheAddrs) == 0 {
		return nil, nil
	}
	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("unisearch: create cache store: %w", err)
	}
	if err := s.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("unisearch: cache not ready: %w", err)
	}
	return s, nil
}

func wireClient(es elastic.Searcher, store *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := es
	if cfg.breaker {
		engine = elastic.NewBreaker(es, elastic.BreakerConfig{
			MaxFailures: cfg.breakerMaxFailures,
			OpenTimeout: cfg.breakerOpenTimeout,
		}, logger)
	}

	// Pass a nil interface, not a typed nil pointer, when there is no cache.
	var cachePinger healthuc.Pinger
	var searchEngine searchuc.Engine = engine
	if store != nil {
		searchEngine = refcache.New(engine, store, cfg.cacheTTL, obs.cacheCounter(), logger)
		cachePinger = store
	}

	compiler := query.New(query.Options{
		DefaultLanguage:          cfg.defaultLanguage,
		TimeZone:                 cfg.timeZone,
		ReservableResourceFilter: cfg.reservable,
	})

	return &Client{
		store:     store,
		searchSvc: searchuc.New(searchEngine, compiler),
		healthSvc: healthuc.New(engine, cachePinger),
		obs:       obs,
	}
}

// Close releases the cache connection.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Search runs a unified search. input is the JSON request body the HTTP API
// accepts on POST /v1/search; nil means an empty request.
func (c *Client) Search(ctx context.Context, input []byte) (_ *Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	var in request.Input
	if len(input) > 0 {
		if err = json.Unmarshal(input, &in); err != nil {
			return nil, &domain.ValidationError{Argument: "input", Message: "invalid request: " + err.Error()}
		}
	}
	req, err := request.New(in)
	if err != nil {
		return nil, err
	}
	conn, err := c.searchSvc.UnifiedSearch(ctx, req)
	if err != nil {
		return nil, err
	}
	return &Page{
		Edges:     conn.Edges,
		TotalHits: conn.TotalHits,
		MaxScore:  conn.MaxScore,
		PageInfo:  conn.PageInfo,
		Results:   conn.Results,
	}, nil
}

// SuggestionsQuery selects completions. Languages take the public names
// (FINNISH, SWEDISH, ENGLISH). Zero Index and Size use the defaults.
type SuggestionsQuery struct {
	Prefix    string
	Languages []string
	Index     string
	Size      int
}

// Suggestions returns completion labels for q.Prefix.
func (c *Client) Suggestions(ctx context.Context, q SuggestionsQuery) (_ []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("suggestions", start, err) }()

	idx, err := index.Parse(q.Index)
	if err != nil {
		return nil, domain.NewValidationError("index", err.Error())
	}
	if q.Size < 0 {
		return nil, domain.NewValidationError("size", "Size must be a positive number")
	}
	public := make([]language.Public, len(q.Languages))
	for i, l := range q.Languages {
		public[i] = language.Public(l)
	}
	return c.searchSvc.Suggestions(ctx, q.Prefix, language.Map(public), idx, q.Size)
}

// OntologyTree returns the ontology tree nodes under rootID, or the whole
// tree when rootID is empty.
func (c *Client) OntologyTree(ctx context.Context, rootID string, leavesOnly bool) (_ []json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ontology_tree", start, err) }()
	return c.searchSvc.OntologyTree(ctx, rootID, leavesOnly)
}

// OntologyWords returns ontology words by ID, or every word when ids is nil.
func (c *Client) OntologyWords(ctx context.Context, ids []string) (_ []json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ontology_words", start, err) }()
	return c.searchSvc.OntologyWords(ctx, ids)
}

// AdministrativeDivisions returns every administrative division, or only the
// Helsinki common ones.
func (c *Client) AdministrativeDivisions(ctx context.Context, helsinkiCommonOnly bool) (_ []json.RawMessage, err error) {
	start := time.Now()
	defer func() { c.obs.observe("administrative_divisions", start, err) }()
	return c.searchSvc.AdministrativeDivisions(ctx, helsinkiCommonOnly)
}
