package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/metrics"
	healthuc "github.com/kailas-cloud/unisearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/unisearch/internal/usecase/search"
)

// ErrorCode is the machine-readable code of an error response.
type ErrorCode string

// Error response codes.
const (
	CodeBadRequest          ErrorCode = "bad_request"
	CodeUnauthorized        ErrorCode = "unauthorized"
	CodeValidationFailed    ErrorCode = "validation_failed"
	CodeMalformedCursor     ErrorCode = "malformed_cursor"
	CodeUnsupportedArgument ErrorCode = "unsupported_argument"
	CodeUpstreamError       ErrorCode = "upstream_error"
	CodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Release identifies the running build in readiness replies.
type Release struct {
	Name      string
	Commit    string
	BuildTime string
}

// Options configure a Server.
type Options struct {
	// CacheMaxAge is sent as Cache-Control max-age on large result pages.
	CacheMaxAge time.Duration
	// CacheHitsThreshold is the number of returned hits from which a page is cacheable.
	// Zero disables the header.
	CacheHitsThreshold int
	Release            Release
}

// Server serves the search API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	health *healthuc.Service,
	opts Options,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		opts:   opts,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, CodeValidationFailed),
		sentinelHandler(domain.ErrMalformedCursor, http.StatusBadRequest, CodeMalformedCursor),
		sentinelHandler(domain.ErrUnsupportedArgument, http.StatusBadRequest, CodeUnsupportedArgument),
		sentinelHandler(domain.ErrUpstream, http.StatusBadGateway, CodeUpstreamError),
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/healthz", s.Liveness)
	r.Get("/readiness", s.Readiness)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/search", s.UnifiedSearch)
		r.Get("/suggestions", s.Suggestions)
		r.Get("/ontology-tree", s.OntologyTree)
		r.Get("/ontology-words", s.OntologyWords)
		r.Get("/administrative-divisions", s.AdministrativeDivisions)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
}

// Liveness handles GET /healthz.
func (s *Server) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": string(healthuc.Healthy)})
}

type readinessResponse struct {
	Status    healthuc.Status                 `json:"status"`
	Checks    map[string]healthuc.CheckResult `json:"checks"`
	Release   string                          `json:"release,omitempty"`
	Commit    string                          `json:"commit,omitempty"`
	BuildTime string                          `json:"build_time,omitempty"`
}

// Readiness handles GET /readiness. A degraded cache still serves traffic.
func (s *Server) Readiness(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, readinessResponse{
		Status:    report.Status,
		Checks:    report.Checks,
		Release:   s.opts.Release.Name,
		Commit:    s.opts.Release.Commit,
		BuildTime: s.opts.Release.BuildTime,
	})
}

func (s *Server) setCacheControl(w http.ResponseWriter, returned int) {
	if s.opts.CacheHitsThreshold <= 0 || s.opts.CacheMaxAge <= 0 {
		return
	}
	if returned >= s.opts.CacheHitsThreshold {
		w.Header().Set("Cache-Control", "max-age="+strconv.Itoa(int(s.opts.CacheMaxAge.Seconds())))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Request errors are reported as is, engine and internal errors by their sentinel.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if errors.Is(err, domain.ErrMalformedCursor) || errors.Is(err, domain.ErrUnsupportedArgument) {
		return err.Error()
	}
	if errors.Is(err, domain.ErrUpstream) {
		return domain.ErrUpstream.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
