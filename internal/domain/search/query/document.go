package query

// Clause is a single search engine query, filter, or sort fragment.
type Clause map[string]any

// BoolQuery is the engine's bool compound query.
type BoolQuery struct {
	Should             []Clause `json:"should,omitempty"`
	Must               []Clause `json:"must,omitempty"`
	Filter             []Clause `json:"filter,omitempty"`
	MustNot            []Clause `json:"must_not,omitempty"`
	MinimumShouldMatch *int     `json:"minimum_should_match,omitempty"`
}

// Query wraps the root bool query.
type Query struct {
	Bool BoolQuery `json:"bool"`
}

// Document is a complete search request body. Nil From or Size are omitted so the
// engine applies its own defaults.
type Document struct {
	From  *int     `json:"from,omitempty"`
	Size  *int     `json:"size,omitempty"`
	Query Query    `json:"query"`
	Sort  []Clause `json:"sort,omitempty"`
}

func cloneClauses(in []Clause) []Clause {
	if in == nil {
		return nil
	}
	out := make([]Clause, len(in))
	copy(out, in)
	return out
}

// clone returns a copy whose slices can be appended to without touching q.
func (q BoolQuery) clone() BoolQuery {
	out := BoolQuery{
		Should:  cloneClauses(q.Should),
		Must:    cloneClauses(q.Must),
		Filter:  cloneClauses(q.Filter),
		MustNot: cloneClauses(q.MustNot),
	}
	if q.MinimumShouldMatch != nil {
		msm := *q.MinimumShouldMatch
		out.MinimumShouldMatch = &msm
	}
	return out
}

func term(field string, value any) Clause {
	return Clause{"term": map[string]any{field: value}}
}

func exists(field string) Clause {
	return Clause{"exists": map[string]any{"field": field}}
}

func anyOf(clauses ...Clause) Clause {
	return Clause{"bool": map[string]any{"should": clauses}}
}
