package result

import (
	"encoding/json"
	"fmt"
)

// Hit is a single search engine hit.
type Hit struct {
	ID     string          `json:"_id"`
	Index  string          `json:"_index,omitempty"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source,omitempty"`
}

// Option is one completion suggestion.
type Option struct {
	Text string `json:"text"`
}

// Suggestion holds the completions for one suggester input.
type Suggestion struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

type wireHits struct {
	Total    json.RawMessage `json:"total"`
	MaxScore *float64        `json:"max_score"`
	Hits     []Hit           `json:"hits"`
}

type wireResponse struct {
	Hits    wireHits                `json:"hits"`
	Suggest map[string][]Suggestion `json:"suggest"`
}

// Response is a parsed search engine reply. The raw body is kept as is.
type Response struct {
	total    int
	maxScore *float64
	hits     []Hit
	suggest  map[string][]Suggestion
	raw      json.RawMessage
}

// Parse decodes a search response body.
func Parse(body []byte) (*Response, error) {
	var w wireResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	total, err := parseTotal(w.Hits.Total)
	if err != nil {
		return nil, err
	}
	raw := make(json.RawMessage, len(body))
	copy(raw, body)
	return &Response{
		total:    total,
		maxScore: w.Hits.MaxScore,
		hits:     w.Hits.Hits,
		suggest:  w.Suggest,
		raw:      raw,
	}, nil
}

// parseTotal accepts both {"value":n,"relation":"eq"} and a bare integer.
func parseTotal(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var obj struct {
		Value int `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("decode hits.total: %w", err)
	}
	return n, nil
}

// Total returns hits.total.value.
func (r *Response) Total() int { return r.total }

// MaxScore returns hits.max_score, nil when the engine did not score.
func (r *Response) MaxScore() *float64 { return r.maxScore }

// Hits returns the hits of the current page in engine order.
func (r *Response) Hits() []Hit { return r.hits }

// Raw returns the response body.
func (r *Response) Raw() json.RawMessage { return r.raw }

// SuggestionTexts returns the option texts of the first entry of suggester name.
func (r *Response) SuggestionTexts(name string) []string {
	entries := r.suggest[name]
	if len(entries) == 0 {
		return []string{}
	}
	out := make([]string, len(entries[0].Options))
	for i, o := range entries[0].Options {
		out[i] = o.Text
	}
	return out
}

// Sources returns the _source of every hit.
func (r *Response) Sources() []json.RawMessage {
	out := make([]json.RawMessage, len(r.hits))
	for i, h := range r.hits {
		out[i] = h.Source
	}
	return out
}

// Node is a hit as exposed in a connection edge: the score and id next to the
// source under a per-index field name.
type Node struct {
	Score  *float64
	ID     string
	Field  string
	Source json.RawMessage
}

// NodeOf wraps h with its source under field.
func NodeOf(h Hit, field string) Node {
	return Node{Score: h.Score, ID: h.ID, Field: field, Source: h.Source}
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	src := n.Source
	if len(src) == 0 {
		src = json.RawMessage("null")
	}
	return json.Marshal(map[string]any{
		"_score": n.Score,
		"_id":    n.ID,
		n.Field:  src,
	})
}
