package request

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
	"github.com/kailas-cloud/unisearch/internal/domain/search/query"
)

// Input holds the raw unified search arguments as sent by a client.
type Input struct {
	Text                               *string                         `json:"text,omitempty"`
	Ontology                           *string                         `json:"ontology,omitempty"`
	Index                              string                          `json:"index,omitempty"`
	Languages                          []language.Public               `json:"languages,omitempty"`
	AdministrativeDivisionIDs          []string                        `json:"administrativeDivisionIds,omitempty"`
	OntologyTreeIDOrSets               [][]string                      `json:"ontologyTreeIdOrSets,omitempty"`
	OntologyWordIDOrSets               [][]string                      `json:"ontologyWordIdOrSets,omitempty"`
	ProviderTypes                      []string                        `json:"providerTypes,omitempty"`
	ServiceOwnerTypes                  []string                        `json:"serviceOwnerTypes,omitempty"`
	TargetGroups                       []string                        `json:"targetGroups,omitempty"`
	MustHaveReservableResource         *bool                           `json:"mustHaveReservableResource,omitempty"`
	OpenAt                             *string                         `json:"openAt,omitempty"`
	OrderByDistance                    Arg[query.OrderByDistance]      `json:"orderByDistance"`
	OrderByName                        Arg[query.OrderByName]          `json:"orderByName"`
	OrderByAccessibilityProfile        Arg[query.AccessibilityProfile] `json:"orderByAccessibilityProfile"`
	ShowCultureAndLeisureDivisionFirst *bool                           `json:"showCultureAndLeisureDivisionFirst,omitempty"`
	After                              *string                         `json:"after,omitempty"`
	First                              json.RawMessage                 `json:"first,omitempty"`
	Before                             json.RawMessage                 `json:"before,omitempty"`
	Last                               json.RawMessage                 `json:"last,omitempty"`
}

// Request is a validated unified search.
type Request struct {
	index     index.Index
	languages []language.Code
	text      string
	ontology  string
	filters   query.Filters
	sort      query.SortPreference
	args      page.Arguments
}

// New validates in. Nothing is sent to the search engine for a request that fails here.
func New(in Input) (Request, error) {
	if len(in.Before) > 0 {
		return Request{}, domain.NewUnsupportedArgument("before")
	}
	if len(in.Last) > 0 {
		return Request{}, domain.NewUnsupportedArgument("last")
	}

	first, err := parseFirst(in.First)
	if err != nil {
		return Request{}, err
	}

	if err := ValidateOrderBy(in.OrderByDistance, in.OrderByName, in.OrderByAccessibilityProfile); err != nil {
		return Request{}, err
	}

	idx, err := index.Parse(in.Index)
	if err != nil {
		return Request{}, domain.NewValidationError("index", err.Error())
	}

	sort := query.SortPreference{
		CultureAndLeisureFirst: deref(in.ShowCultureAndLeisureDivisionFirst),
	}
	switch {
	case in.OrderByDistance.Value != nil:
		d := *in.OrderByDistance.Value
		if err := validateDirection("orderByDistance", d.Order); err != nil {
			return Request{}, err
		}
		if d.Latitude < -90 || d.Latitude > 90 || d.Longitude < -180 || d.Longitude > 180 {
			return Request{}, domain.NewValidationError("orderByDistance", "coordinates out of range")
		}
		sort.Distance = &d
	case in.OrderByName.Value != nil:
		n := *in.OrderByName.Value
		if err := validateDirection("orderByName", n.Order); err != nil {
			return Request{}, err
		}
		sort.Name = &n
	case in.OrderByAccessibilityProfile.Value != nil:
		p := *in.OrderByAccessibilityProfile.Value
		if !p.IsValid() {
			return Request{}, domain.NewValidationError("orderByAccessibilityProfile",
				fmt.Sprintf("unknown accessibility profile: %q", p))
		}
		sort.AccessibilityProfile = &p
	}

	text := deref(in.Text)
	ontology := deref(in.Ontology)
	if text == "" && ontology == "" {
		text = query.MatchAll
	}

	return Request{
		index:     idx,
		languages: language.Map(in.Languages),
		text:      text,
		ontology:  ontology,
		filters: query.Filters{
			AdministrativeDivisionIDs:  in.AdministrativeDivisionIDs,
			OntologyTreeIDSets:         in.OntologyTreeIDOrSets,
			OntologyWordIDSets:         in.OntologyWordIDOrSets,
			ProviderTypes:              in.ProviderTypes,
			ServiceOwnerTypes:          in.ServiceOwnerTypes,
			TargetGroups:               in.TargetGroups,
			MustHaveReservableResource: deref(in.MustHaveReservableResource),
			OpenAt:                     deref(in.OpenAt),
		},
		sort: sort,
		args: page.Arguments{After: in.After, First: first},
	}, nil
}

// ValidateOrderBy rejects more than one supplied sort argument, then a sort argument
// supplied as null. An argument counts as supplied even when its value is null.
func ValidateOrderBy(
	distance Arg[query.OrderByDistance],
	name Arg[query.OrderByName],
	profile Arg[query.AccessibilityProfile],
) error {
	supplied := 0
	for _, set := range []bool{distance.Set, name.Set, profile.Set} {
		if set {
			supplied++
		}
	}
	if supplied > 1 {
		return domain.NewValidationError("orderBy", "Cannot use more than one orderBy parameter simultaneously")
	}
	switch {
	case distance.IsNull():
		return nullArgument("orderByDistance")
	case name.IsNull():
		return nullArgument("orderByName")
	case profile.IsNull():
		return nullArgument("orderByAccessibilityProfile")
	}
	return nil
}

func nullArgument(name string) error {
	return domain.NewValidationError(name, fmt.Sprintf("%q cannot be null.", name))
}

func validateDirection(arg string, d query.Direction) error {
	if !d.IsValid() {
		return domain.NewValidationError(arg, fmt.Sprintf("invalid order: %q", d))
	}
	return nil
}

// parseFirst accepts a missing or null first, or a non-negative integer.
func parseFirst(raw json.RawMessage) (*int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return nil, domain.NewValidationError("first", "First must be a positive number")
	}
	n := int(f)
	return &n, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Index returns the target index.
func (r *Request) Index() index.Index { return r.index }

// Languages returns the mapped languages in request order, undefined entries included.
func (r *Request) Languages() []language.Code { return r.languages }

// Text returns the free text, MatchAll when neither text nor ontology was given.
func (r *Request) Text() string { return r.text }

// Ontology returns the ontology term.
func (r *Request) Ontology() string { return r.ontology }

// Filters returns the structured filters.
func (r *Request) Filters() query.Filters { return r.filters }

// Sort returns the sort preference.
func (r *Request) Sort() query.SortPreference { return r.sort }

// Arguments returns the pagination arguments.
func (r *Request) Arguments() page.Arguments { return r.args }

// Params returns compiler input for the page w.
func (r *Request) Params(w page.Window) query.Params {
	from := w.From
	return query.Params{
		Index:     r.index,
		Languages: r.languages,
		Text:      r.text,
		Ontology:  r.ontology,
		Filters:   r.filters,
		Sort:      r.sort,
		From:      &from,
		Size:      w.Size,
	}
}
