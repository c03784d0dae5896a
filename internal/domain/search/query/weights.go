package query

import (
	"fmt"

	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
)

// Field weights.
const (
	WeightNormal   = 1
	WeightHigh     = 2
	WeightVeryHigh = 3
)

// PhraseBoostMultiplier lifts exact phrase matches above prefix matches of the same field weight.
const PhraseBoostMultiplier = 2

type fieldSelector func(lang language.Code, idx index.Index) []string

type weightedFields struct {
	weight int
	fields fieldSelector
}

// searchFieldWeights is ordered; clauses are emitted in this order.
var searchFieldWeights = []weightedFields{
	{
		weight: WeightNormal,
		fields: func(lang language.Code, idx index.Index) []string {
			switch idx {
			case index.Location:
				return []string{fmt.Sprintf("venue.description.%s", lang)}
			case index.Event:
				return []string{
					fmt.Sprintf("event.name.%s", lang),
					fmt.Sprintf("event.description.%s", lang),
				}
			}
			return nil
		},
	},
	{
		weight: WeightVeryHigh,
		fields: func(lang language.Code, idx index.Index) []string {
			if idx == index.Location {
				return []string{fmt.Sprintf("venue.name.%s", lang)}
			}
			return nil
		},
	},
}

// OntologyFields returns the ontology fields searched for lang in idx. Indices
// without ontology data yield an empty, non-nil list.
func OntologyFields(lang language.Code, idx index.Index) []string {
	switch idx {
	case index.Location:
		return []string{
			fmt.Sprintf("links.raw_data.ontologyword_ids_enriched.extra_searchwords_%s", lang),
			fmt.Sprintf("links.raw_data.ontologyword_ids_enriched.ontologyword_%s", lang),
			fmt.Sprintf("links.raw_data.ontologytree_ids_enriched.name_%s", lang),
			fmt.Sprintf("links.raw_data.ontologytree_ids_enriched.extra_searchwords_%s", lang),
		}
	case index.Event:
		return []string{fmt.Sprintf("ontology.%s", lang), "ontology.alt"}
	}
	return []string{}
}
