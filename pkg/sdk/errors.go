package unisearch

import "github.com/kailas-cloud/unisearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation          = domain.ErrValidation
	ErrMalformedCursor     = domain.ErrMalformedCursor
	ErrUnsupportedArgument = domain.ErrUnsupportedArgument
	ErrUpstream            = domain.ErrUpstream
)

// ValidationError names the rejected argument. Use errors.As() to extract it.
type ValidationError = domain.ValidationError
