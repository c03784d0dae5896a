package query

import "github.com/kailas-cloud/unisearch/internal/domain/language"

// ReferenceSize fetches a whole reference index in one request.
const ReferenceSize = 10000

// DefaultSuggestionSize is the number of completions returned when none is requested.
const DefaultSuggestionSize = 5

// SuggestionName is the key of the completion suggester in requests and responses.
const SuggestionName = "suggestions"

// Suggestions builds a completion suggester request for prefix restricted to langs.
// Sources are not fetched.
func Suggestions(prefix string, langs []language.Code, size int) Clause {
	if size <= 0 {
		size = DefaultSuggestionSize
	}
	contexts := make([]string, 0, len(langs))
	for _, l := range language.Defined(langs) {
		contexts = append(contexts, string(l))
	}
	return Clause{
		"_source": "",
		"suggest": map[string]any{
			SuggestionName: map[string]any{
				"prefix": prefix,
				"completion": map[string]any{
					"field":           "suggest",
					"skip_duplicates": true,
					"size":            size,
					"contexts": map[string]any{
						"language": contexts,
					},
				},
			},
		},
	}
}

// OntologyTree selects a subtree rooted at rootID, or the whole tree when rootID is
// empty. leavesOnly drops nodes that have children.
func OntologyTree(rootID string, leavesOnly bool) Clause {
	b := map[string]any{}
	if rootID != "" {
		b["filter"] = anyOf(term("ancestorIds", rootID), term("_id", rootID))
	}
	if leavesOnly {
		b["must_not"] = exists("childIds")
	}
	return Clause{
		"size":  ReferenceSize,
		"query": map[string]any{"bool": b},
	}
}

// OntologyWords selects words by ID, or all words when ids is nil.
func OntologyWords(ids []string) Clause {
	doc := Clause{"size": ReferenceSize}
	if ids != nil {
		doc["query"] = map[string]any{"terms": map[string]any{"_id": ids}}
	}
	return doc
}

// AdministrativeDivisions selects every division of the index it is sent to.
func AdministrativeDivisions() Clause {
	return Clause{"size": ReferenceSize}
}
