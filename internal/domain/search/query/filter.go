package query

import (
	"time"
)

// Filter fields.
const (
	fieldAdministrativeDivision = "venue.location.administrativeDivisions.id.keyword"
	fieldOntologyTreeID         = "links.raw_data.ontologytree_ids_enriched.id"
	fieldOntologyWordID         = "links.raw_data.ontologyword_ids_enriched.id"
	fieldProviderType           = "venue.serviceOwner.providerType.keyword"
	fieldServiceOwnerType       = "venue.serviceOwner.type.keyword"
	fieldTargetGroup            = "venue.targetGroups.keyword"
	fieldReservable             = "venue.reservation.reservable"
	fieldExternalReservationURL = "venue.reservation.externalReservationUrl"
	fieldOpenRanges             = "venue.openingHours.openRanges"
)

// openAtFormat is the canonical serialization of an open-at instant.
const openAtFormat = "2006-01-02T15:04:05.000-07:00"

var (
	zonedLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05Z0700",
		"2006-01-02T15:04:05Z07",
		"2006-01-02T15:04Z0700",
		"2006-01-02T15:04Z07",
		"20060102T150405Z0700",
		"20060102T150405Z07:00",
		"20060102T150405Z07",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02T15",
		"2006-01-02",
		"2006-01",
		"20060102T150405",
		"20060102T1504",
		"20060102",
		"2006",
	}
)

// Filters are the structured, unscored restrictions of a search.
type Filters struct {
	AdministrativeDivisionIDs []string
	// OntologyTreeIDSets AND together; IDs inside one set OR together.
	OntologyTreeIDSets [][]string
	// OntologyWordIDSets AND together; IDs inside one set OR together.
	OntologyWordIDSets         [][]string
	ProviderTypes              []string
	ServiceOwnerTypes          []string
	TargetGroups               []string
	MustHaveReservableResource bool
	// OpenAt is an ISO-8601 instant or engine date math such as now+3h.
	OpenAt string
}

// FilterOptions control optional filter behaviour.
type FilterOptions struct {
	// TimeZone is assumed for open-at instants without an offset and used for output.
	TimeZone *time.Location
	// ReservableResource enables the reservable resource filter.
	ReservableResource bool
}

// CompileFilters converts f into filter clauses. Empty inputs contribute nothing.
func CompileFilters(f Filters, opts FilterOptions) []Clause {
	var out []Clause
	out = append(out, anyTerm(fieldAdministrativeDivision, f.AdministrativeDivisionIDs)...)
	for _, set := range f.OntologyTreeIDSets {
		out = append(out, anyTerm(fieldOntologyTreeID, set)...)
	}
	for _, set := range f.OntologyWordIDSets {
		out = append(out, anyTerm(fieldOntologyWordID, set)...)
	}
	out = append(out, anyTerm(fieldProviderType, f.ProviderTypes)...)
	out = append(out, anyTerm(fieldServiceOwnerType, f.ServiceOwnerTypes)...)
	out = append(out, anyTerm(fieldTargetGroup, f.TargetGroups)...)

	// Off until the reservation fields are available in the index.
	if opts.ReservableResource && f.MustHaveReservableResource {
		out = append(out, anyOf(term(fieldReservable, true), exists(fieldExternalReservationURL)))
	}

	if f.OpenAt != "" {
		out = append(out, term(fieldOpenRanges, NormalizeOpenAt(f.OpenAt, opts.TimeZone)))
	}
	return out
}

// AttachFilters returns q restricted by filters. With no filters q is returned unchanged.
func AttachFilters(q BoolQuery, filters []Clause) BoolQuery {
	if len(filters) == 0 {
		return q
	}
	out := q.clone()
	out.Filter = append(out.Filter, filters...)
	one := 1
	out.MinimumShouldMatch = &one
	return out
}

// anyTerm matches documents where field equals any of values.
func anyTerm(field string, values []string) []Clause {
	if len(values) == 0 {
		return nil
	}
	terms := make([]Clause, len(values))
	for i, v := range values {
		terms[i] = term(field, v)
	}
	return []Clause{anyOf(terms...)}
}

// NormalizeOpenAt re-serializes an ISO-8601 instant in loc. Input without an offset
// is read as wall time in loc. Anything else is returned unchanged.
func NormalizeOpenAt(s string, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.In(loc).Format(openAtFormat)
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.Format(openAtFormat)
		}
	}
	return s
}
