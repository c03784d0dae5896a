package page

import "github.com/kailas-cloud/unisearch/internal/domain"

// DefaultSize is the engine's page size, assumed when first is not given.
const DefaultSize = 10

// Arguments are the forward pagination arguments of a connection.
type Arguments struct {
	After *string `json:"after,omitempty"`
	First *int    `json:"first,omitempty"`
}

// Window is the engine offset and limit for a page. A nil Size leaves the
// limit to the engine.
type Window struct {
	From int
	Size *int
}

// ComputeWindow converts connection arguments into an engine window.
func ComputeWindow(args Arguments) (Window, error) {
	if args.First != nil && *args.First < 0 {
		return Window{}, domain.NewValidationError("first", "First must be a positive number")
	}
	from, err := offsetAfter(args.After)
	if err != nil {
		return Window{}, err
	}
	var size *int
	if args.First != nil {
		n := *args.First
		size = &n
	}
	return Window{From: from, Size: size}, nil
}

// Edge pairs a node with the cursor that resumes after it.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// NewEdges wraps nodes of a page starting at absolute offset from.
func NewEdges[T any](from int, nodes []T) []Edge[T] {
	edges := make([]Edge[T], len(nodes))
	for i, n := range nodes {
		edges[i] = Edge[T]{Cursor: Encode(from + i + 1), Node: n}
	}
	return edges
}

// Info describes the position of a page within the whole result set.
type Info struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// ComputeInfo derives page info from the edges of the current page. Boundary
// cursors are taken from the edges as is.
func ComputeInfo[T any](edges []Edge[T], totalHits int, args Arguments) (Info, error) {
	if len(edges) == 0 {
		return Info{}, nil
	}

	start, err := offsetAfter(args.After)
	if err != nil {
		return Info{}, err
	}
	length := DefaultSize
	if args.First != nil {
		length = *args.First
	}

	startCursor := edges[0].Cursor
	endCursor := edges[len(edges)-1].Cursor
	return Info{
		HasNextPage:     start+length < totalHits,
		HasPreviousPage: start > 0 && totalHits > 0,
		StartCursor:     &startCursor,
		EndCursor:       &endCursor,
	}, nil
}
