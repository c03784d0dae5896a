package search

import (
	"context"

	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
)

// Engine runs a compiled document against an index.
type Engine interface {
	Search(ctx context.Context, index string, body []byte) (*result.Response, error)
}
