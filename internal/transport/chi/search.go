package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
	"github.com/kailas-cloud/unisearch/internal/domain/search/request"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
)

// searchResponse is the connection returned by POST /v1/search.
type searchResponse struct {
	ESResults           []json.RawMessage        `json:"es_results"`
	Edges               []page.Edge[result.Node] `json:"edges"`
	Hits                int                      `json:"hits"`
	MaxScore            *float64                 `json:"max_score"`
	ConnectionArguments page.Arguments           `json:"connectionArguments"`
	PageInfo            page.Info                `json:"pageInfo"`
}

type suggestion struct {
	Label string `json:"label"`
}

type suggestionsResponse struct {
	Suggestions []suggestion `json:"suggestions"`
}

// UnifiedSearch handles POST /v1/search.
func (s *Server) UnifiedSearch(w http.ResponseWriter, r *http.Request) {
	var in request.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := request.New(in)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	conn, err := s.search.UnifiedSearch(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	s.setCacheControl(w, conn.Returned())
	writeJSON(w, http.StatusOK, searchResponse{
		ESResults:           conn.Results,
		Edges:               conn.Edges,
		Hits:                conn.TotalHits,
		MaxScore:            conn.MaxScore,
		ConnectionArguments: conn.Arguments,
		PageInfo:            conn.PageInfo,
	})
}

// Suggestions handles GET /v1/suggestions.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	var (
		prefix    string
		languages *[]string
		idxName   *string
		size      *int
	)
	if err := bindQuery(r, "prefix", true, &prefix); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := bindQuery(r, "languages", false, &languages); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := bindQuery(r, "index", false, &idxName); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	if err := bindQuery(r, "size", false, &size); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	idx, err := index.Parse(deref(idxName))
	if err != nil {
		s.handleDomainError(w, domain.NewValidationError("index", err.Error()))
		return
	}
	n := 0
	if size != nil {
		if *size < 1 {
			s.handleDomainError(w, domain.NewValidationError("size", "Size must be a positive number"))
			return
		}
		n = *size
	}

	langs := language.Map(publicLanguages(deref(languages)))
	labels, err := s.search.Suggestions(r.Context(), prefix, langs, idx, n)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]suggestion, len(labels))
	for i, l := range labels {
		items[i] = suggestion{Label: l}
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: items})
}

// bindQuery binds an exploded form query parameter into dest. Optional
// parameters bind into a pointer to a pointer.
func bindQuery(r *http.Request, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return nil
}

func publicLanguages(in []string) []language.Public {
	out := make([]language.Public, len(in))
	for i, l := range in {
		out[i] = language.Public(l)
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
