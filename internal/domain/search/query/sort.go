package query

import (
	"fmt"

	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
)

// Direction is a client-facing sort order.
type Direction string

// Sort directions.
const (
	Ascending  Direction = "ASCENDING"
	Descending Direction = "DESCENDING"
)

// IsValid checks if the direction is one of the supported values.
func (d Direction) IsValid() bool {
	return d == Ascending || d == Descending
}

func (d Direction) engineOrder() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// AccessibilityProfile identifies a set of accessibility requirements.
type AccessibilityProfile string

// Accessibility profiles.
const (
	HearingAid       AccessibilityProfile = "hearing_aid"
	ReducedMobility  AccessibilityProfile = "reduced_mobility"
	Rollator         AccessibilityProfile = "rollator"
	Stroller         AccessibilityProfile = "stroller"
	VisuallyImpaired AccessibilityProfile = "visually_impaired"
	Wheelchair       AccessibilityProfile = "wheelchair"
)

// IsValid checks if the profile is one of the supported values.
func (p AccessibilityProfile) IsValid() bool {
	switch p {
	case HearingAid, ReducedMobility, Rollator, Stroller, VisuallyImpaired, Wheelchair:
		return true
	}
	return false
}

// OrderByDistance sorts by distance from a point.
type OrderByDistance struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Order     Direction `json:"order"`
}

// OrderByName sorts by the localized name.
type OrderByName struct {
	Order Direction `json:"order"`
}

// SortPreference selects at most one primary ordering. With none set, results
// are ordered by relevance.
type SortPreference struct {
	Distance             *OrderByDistance
	Name                 *OrderByName
	AccessibilityProfile *AccessibilityProfile
	// CultureAndLeisureFirst puts culture and leisure division venues before the rest.
	CultureAndLeisureFirst bool
}

const (
	fieldGeoLocation        = "location"
	fieldShortcomings       = "venue.accessibility.shortcomings"
	fieldShortcomingCount   = "venue.accessibility.shortcomings.count"
	fieldShortcomingProfile = "venue.accessibility.shortcomings.profile"
	fieldCultureAndLeisure  = "venue.isCultureAndLeisureDivisionVenue"
	missingLast             = "_last"
)

// CompileSort returns the sort clauses for idx. Only the location index has a stable
// name field; every other index gets nil and keeps the engine's relevance order.
func CompileSort(idx index.Index, lang language.Code, pref SortPreference) []Clause {
	if idx != index.Location {
		return nil
	}

	var sort []Clause
	if pref.CultureAndLeisureFirst {
		sort = append(sort, Clause{fieldCultureAndLeisure: map[string]any{
			"order":   "desc",
			"missing": missingLast,
		}})
	}

	switch {
	case pref.Distance != nil:
		sort = append(sort, Clause{"_geo_distance": map[string]any{
			fieldGeoLocation: map[string]any{
				"lat": pref.Distance.Latitude,
				"lon": pref.Distance.Longitude,
			},
			"order":           pref.Distance.Order.engineOrder(),
			"ignore_unmapped": true,
		}})
	case pref.Name != nil:
		sort = append(sort, nameSort(lang, pref.Name.Order))
	case pref.AccessibilityProfile != nil:
		sort = append(sort,
			Clause{fieldShortcomingCount: map[string]any{
				"order": "asc",
				"nested": map[string]any{
					"path":         fieldShortcomings,
					"filter":       term(fieldShortcomingProfile, string(*pref.AccessibilityProfile)),
					"max_children": 1,
				},
				"missing": missingLast,
			}},
			nameSort(lang, Ascending),
		)
	default:
		sort = append(sort,
			Clause{"_score": map[string]any{"order": "desc"}},
			nameSort(lang, Ascending),
		)
	}
	return sort
}

func nameSort(lang language.Code, d Direction) Clause {
	return Clause{fmt.Sprintf("venue.name.%s.keyword", lang): map[string]any{
		"order":   d.engineOrder(),
		"missing": missingLast,
	}}
}
