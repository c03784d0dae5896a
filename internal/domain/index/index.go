package index

import "fmt"

// Index is a search engine index known to the service.
type Index string

// Known indices.
const (
	AdministrativeDivision               Index = "administrative_division"
	HelsinkiCommonAdministrativeDivision Index = "helsinki_common_administrative_division"
	OntologyTree                         Index = "ontology_tree"
	OntologyWord                         Index = "ontology_word"
	Event                                Index = "event"
	Location                             Index = "location"
)

// Default is searched when the caller does not name an index.
const Default = Location

// IsValid checks if the index is one of the known values.
func (i Index) IsValid() bool {
	switch i {
	case AdministrativeDivision, HelsinkiCommonAdministrativeDivision,
		OntologyTree, OntologyWord, Event, Location:
		return true
	}
	return false
}

// Parse converts s to an Index. Empty input yields Default.
func Parse(s string) (Index, error) {
	if s == "" {
		return Default, nil
	}
	i := Index(s)
	if !i.IsValid() {
		return "", fmt.Errorf("unknown index: %q", s)
	}
	return i, nil
}

// ResultField is the key under which a hit's source is exposed in a result node.
func (i Index) ResultField() string {
	switch i {
	case Event:
		return "event"
	case Location:
		return "venue"
	default:
		return "node"
	}
}

// String implements fmt.Stringer.
func (i Index) String() string { return string(i) }
