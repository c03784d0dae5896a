package search

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
	"github.com/kailas-cloud/unisearch/internal/domain/search/query"
	"github.com/kailas-cloud/unisearch/internal/domain/search/request"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
	"github.com/kailas-cloud/unisearch/internal/logger"
	"github.com/kailas-cloud/unisearch/internal/metrics"
)

// Connection is one page of a unified search.
type Connection struct {
	// Results holds the raw engine reply.
	Results   []json.RawMessage
	Edges     []page.Edge[result.Node]
	TotalHits int
	MaxScore  *float64
	Arguments page.Arguments
	PageInfo  page.Info
}

// Returned is the number of hits on the page.
func (c Connection) Returned() int { return len(c.Edges) }

// Service compiles requests, runs them and shapes the replies.
type Service struct {
	engine   Engine
	compiler *query.Compiler
}

// New creates a search service.
func New(engine Engine, compiler *query.Compiler) *Service {
	return &Service{engine: engine, compiler: compiler}
}

// UnifiedSearch runs the page of req described by its connection arguments.
func (s *Service) UnifiedSearch(ctx context.Context, req request.Request) (Connection, error) {
	args := req.Arguments()
	w, err := page.ComputeWindow(args)
	if err != nil {
		return Connection{}, err
	}

	doc := s.compiler.Build(req.Params(w))
	idx := req.Index()

	resp, err := s.run(ctx, idx, doc)
	if err != nil {
		return Connection{}, err
	}

	field := idx.ResultField()
	nodes := make([]result.Node, len(resp.Hits()))
	for i, h := range resp.Hits() {
		nodes[i] = result.NodeOf(h, field)
	}
	edges := page.NewEdges(w.From, nodes)

	info, err := page.ComputeInfo(edges, resp.Total(), args)
	if err != nil {
		return Connection{}, err
	}

	metrics.SearchHitsReturned.WithLabelValues(idx.String()).Observe(float64(len(edges)))
	logger.FromContext(ctx).Debug("Unified search",
		zap.String("index", idx.String()),
		zap.Int("from", w.From),
		zap.Int("returned", len(edges)),
		zap.Int("total", resp.Total()),
	)

	return Connection{
		Results:   []json.RawMessage{resp.Raw()},
		Edges:     edges,
		TotalHits: resp.Total(),
		MaxScore:  resp.MaxScore(),
		Arguments: args,
		PageInfo:  info,
	}, nil
}

// Suggestions returns completion labels for prefix. An empty idx means the default index.
func (s *Service) Suggestions(
	ctx context.Context, prefix string, langs []language.Code, idx index.Index, size int,
) ([]string, error) {
	if idx == "" {
		idx = index.Default
	}
	resp, err := s.run(ctx, idx, query.Suggestions(prefix, langs, size))
	if err != nil {
		return nil, err
	}
	return resp.SuggestionTexts(query.SuggestionName), nil
}

// OntologyTree returns ontology tree nodes under rootID, or the whole tree when rootID is empty.
func (s *Service) OntologyTree(ctx context.Context, rootID string, leavesOnly bool) ([]json.RawMessage, error) {
	return s.sources(ctx, index.OntologyTree, query.OntologyTree(rootID, leavesOnly))
}

// OntologyWords returns ontology words by ID, or every word when ids is nil.
func (s *Service) OntologyWords(ctx context.Context, ids []string) ([]json.RawMessage, error) {
	return s.sources(ctx, index.OntologyWord, query.OntologyWords(ids))
}

// AdministrativeDivisions returns every division, or only the Helsinki common ones.
func (s *Service) AdministrativeDivisions(ctx context.Context, helsinkiCommonOnly bool) ([]json.RawMessage, error) {
	idx := index.AdministrativeDivision
	if helsinkiCommonOnly {
		idx = index.HelsinkiCommonAdministrativeDivision
	}
	return s.sources(ctx, idx, query.AdministrativeDivisions())
}

func (s *Service) sources(ctx context.Context, idx index.Index, doc any) ([]json.RawMessage, error) {
	resp, err := s.run(ctx, idx, doc)
	if err != nil {
		return nil, err
	}
	return resp.Sources(), nil
}

func (s *Service) run(ctx context.Context, idx index.Index, doc any) (*result.Response, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode search document: %w", err)
	}
	resp, err := s.engine.Search(ctx, idx.String(), body)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", idx, err)
	}
	return resp, nil
}
