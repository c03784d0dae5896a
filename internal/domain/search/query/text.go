package query

import (
	"fmt"

	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
)

// MatchAll is the reserved text that matches every document.
const MatchAll = "*"

// CompileText builds the scored part of a search. Undefined languages are ignored
// and duplicates are searched once; an empty list searches every language.
func CompileText(idx index.Index, langs []language.Code, text, ontology string) BoolQuery {
	if text == MatchAll {
		return BoolQuery{
			Should: []Clause{{"query_string": map[string]any{"query": MatchAll}}},
		}
	}

	langs = uniqueLanguages(langs)
	should := make([]Clause, 0, len(langs)*(2*len(searchFieldWeights)+1))

	if ontology != "" {
		for _, lang := range langs {
			should = append(should, ontologyMatch(idx, lang, text, ontology))
		}
		return BoolQuery{Should: should}
	}

	for _, lang := range langs {
		should = append(should, prefixMatches(idx, lang, text)...)
		should = append(should, phraseMatches(idx, lang, text)...)
		should = append(should, multiMatch(text, OntologyFields(lang, idx)))
	}
	return BoolQuery{Should: should}
}

func prefixMatches(idx index.Index, lang language.Code, text string) []Clause {
	var out []Clause
	for _, wf := range searchFieldWeights {
		for _, field := range wf.fields(lang, idx) {
			out = append(out, Clause{"match_bool_prefix": map[string]any{
				field: map[string]any{
					"query":     text,
					"operator":  "or",
					"fuzziness": "AUTO",
					"boost":     wf.weight,
				},
			}})
		}
	}
	return out
}

func phraseMatches(idx index.Index, lang language.Code, text string) []Clause {
	var out []Clause
	for _, wf := range searchFieldWeights {
		for _, field := range wf.fields(lang, idx) {
			out = append(out, Clause{"match_phrase": map[string]any{
				field: map[string]any{
					"query": text,
					"boost": wf.weight * PhraseBoostMultiplier,
				},
			}})
		}
	}
	return out
}

func multiMatch(q string, fields []string) Clause {
	return Clause{"multi_match": map[string]any{
		"query":  q,
		"fields": fields,
	}}
}

// ontologyMatch requires the ontology term and, when text is given, the text itself
// against the weighted fields of lang.
func ontologyMatch(idx index.Index, lang language.Code, text, ontology string) Clause {
	must := make([]Clause, 0, 2)
	if text != "" {
		var fields []string
		for _, wf := range searchFieldWeights {
			for _, field := range wf.fields(lang, idx) {
				fields = append(fields, fmt.Sprintf("%s^%d", field, wf.weight))
			}
		}
		if len(fields) > 0 {
			must = append(must, Clause{"query_string": map[string]any{
				"query":  Escape(text),
				"fields": fields,
			}})
		}
	}
	must = append(must, multiMatch(ontology, OntologyFields(lang, idx)))
	return Clause{"bool": map[string]any{"must": must}}
}

func uniqueLanguages(langs []language.Code) []language.Code {
	defined := language.Defined(langs)
	seen := make(map[language.Code]struct{}, len(defined))
	out := make([]language.Code, 0, len(defined))
	for _, l := range defined {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
