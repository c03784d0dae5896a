package search

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/unisearch/internal/domain"
	"github.com/kailas-cloud/unisearch/internal/domain/index"
	"github.com/kailas-cloud/unisearch/internal/domain/language"
	"github.com/kailas-cloud/unisearch/internal/domain/search/page"
	"github.com/kailas-cloud/unisearch/internal/domain/search/query"
	"github.com/kailas-cloud/unisearch/internal/domain/search/request"
	"github.com/kailas-cloud/unisearch/internal/domain/search/result"
)

// --- Mocks ---

type mockEngine struct {
	reply string
	err   error

	index string
	body  []byte
	calls int
}

func (m *mockEngine) Search(_ context.Context, idx string, body []byte) (*result.Response, error) {
	m.calls++
	m.index = idx
	m.body = body
	if m.err != nil {
		return nil, m.err
	}
	return result.Parse([]byte(m.reply))
}

func (m *mockEngine) sent(t *testing.T) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(m.body, &doc))
	return doc
}

func newTestService(engine *mockEngine) *Service {
	return New(engine, query.New(query.DefaultOptions()))
}

func strPtr(s string) *string { return &s }

const twoHits = `{"hits":{"total":{"value":10},"max_score":4.5,"hits":[
	{"_id":"v6","_score":4.5,"_source":{"name":"Kamppi"}},
	{"_id":"v7","_score":3.0,"_source":{"name":"Kampinkuja"}}
]}}`

// --- UnifiedSearch ---

func TestUnifiedSearch_Page(t *testing.T) {
	engine := &mockEngine{reply: twoHits}
	svc := newTestService(engine)

	req, err := request.New(request.Input{
		Text:      strPtr("kamppi"),
		Languages: []language.Public{language.Finnish},
		After:     strPtr(page.Encode(5)),
		First:     json.RawMessage(`5`),
	})
	require.NoError(t, err)

	conn, err := svc.UnifiedSearch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "location", engine.index)
	doc := engine.sent(t)
	assert.EqualValues(t, 5, doc["from"])
	assert.EqualValues(t, 5, doc["size"])

	require.Len(t, conn.Edges, 2)
	assert.Equal(t, page.Encode(6), conn.Edges[0].Cursor)
	assert.Equal(t, page.Encode(7), conn.Edges[1].Cursor)
	assert.Equal(t, "v6", conn.Edges[0].Node.ID)
	assert.Equal(t, "venue", conn.Edges[0].Node.Field)

	assert.Equal(t, 10, conn.TotalHits)
	require.NotNil(t, conn.MaxScore)
	assert.InDelta(t, 4.5, *conn.MaxScore, 0)
	assert.Equal(t, 2, conn.Returned())

	assert.False(t, conn.PageInfo.HasNextPage)
	assert.True(t, conn.PageInfo.HasPreviousPage)
	require.NotNil(t, conn.PageInfo.StartCursor)
	assert.Equal(t, page.Encode(6), *conn.PageInfo.StartCursor)

	require.Len(t, conn.Results, 1)
	assert.JSONEq(t, twoHits, string(conn.Results[0]))
}

func TestUnifiedSearch_DefaultsToFirstPage(t *testing.T) {
	engine := &mockEngine{reply: `{"hits":{"total":{"value":0},"max_score":null,"hits":[]}}`}
	svc := newTestService(engine)

	req, err := request.New(request.Input{Index: "event"})
	require.NoError(t, err)

	conn, err := svc.UnifiedSearch(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "event", engine.index)
	doc := engine.sent(t)
	assert.EqualValues(t, 0, doc["from"])
	_, hasSize := doc["size"]
	assert.False(t, hasSize)
	assert.Empty(t, conn.Edges)
	assert.Equal(t, page.Info{}, conn.PageInfo)
	assert.Nil(t, conn.MaxScore)
}

func TestUnifiedSearch_MalformedCursor(t *testing.T) {
	engine := &mockEngine{reply: twoHits}
	svc := newTestService(engine)

	req, err := request.New(request.Input{After: strPtr("%%%")})
	require.NoError(t, err)

	_, err = svc.UnifiedSearch(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrMalformedCursor))
	assert.Equal(t, 0, engine.calls, "no query is sent for a bad cursor")
}

func TestUnifiedSearch_UpstreamError(t *testing.T) {
	engine := &mockEngine{err: domain.ErrUpstream}
	svc := newTestService(engine)

	req, err := request.New(request.Input{})
	require.NoError(t, err)

	_, err = svc.UnifiedSearch(context.Background(), req)
	assert.True(t, errors.Is(err, domain.ErrUpstream))
}

// --- Suggestions ---

func TestSuggestions(t *testing.T) {
	engine := &mockEngine{reply: `{"hits":{"total":{"value":0},"hits":[]},
		"suggest":{"suggestions":[{"text":"kam","options":[{"text":"Kamppi"},{"text":"Kampinkuja"}]}]}}`}
	svc := newTestService(engine)

	labels, err := svc.Suggestions(context.Background(), "kam", []language.Code{language.FI}, "", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"Kamppi", "Kampinkuja"}, labels)
	assert.Equal(t, string(index.Default), engine.index)
	assert.Contains(t, string(engine.body), `"size":5`)
	assert.Contains(t, string(engine.body), `"prefix":"kam"`)
}

func TestSuggestions_NoOptions(t *testing.T) {
	engine := &mockEngine{reply: `{"hits":{"total":{"value":0},"hits":[]}}`}
	svc := newTestService(engine)

	labels, err := svc.Suggestions(context.Background(), "zz", nil, index.Event, 3)
	require.NoError(t, err)
	assert.NotNil(t, labels)
	assert.Empty(t, labels)
	assert.Equal(t, "event", engine.index)
}

// --- Reference data ---

const referenceReply = `{"hits":{"total":{"value":2},"hits":[
	{"_id":"1","_source":{"id":"1"}},
	{"_id":"2","_source":{"id":"2"}}
]}}`

func TestOntologyTree(t *testing.T) {
	engine := &mockEngine{reply: referenceReply}
	svc := newTestService(engine)

	nodes, err := svc.OntologyTree(context.Background(), "551", true)
	require.NoError(t, err)

	assert.Equal(t, "ontology_tree", engine.index)
	require.Len(t, nodes, 2)
	assert.JSONEq(t, `{"id":"1"}`, string(nodes[0]))
	assert.Contains(t, string(engine.body), `"must_not"`)
}

func TestOntologyWords(t *testing.T) {
	engine := &mockEngine{reply: referenceReply}
	svc := newTestService(engine)

	_, err := svc.OntologyWords(context.Background(), []string{"1", "2"})
	require.NoError(t, err)
	assert.Equal(t, "ontology_word", engine.index)
	assert.JSONEq(t, `{"size":10000,"query":{"terms":{"_id":["1","2"]}}}`, string(engine.body))
}

func TestAdministrativeDivisions(t *testing.T) {
	tests := []struct {
		name           string
		helsinkiCommon bool
		wantIndex      string
	}{
		{"all", false, "administrative_division"},
		{"helsinki common", true, "helsinki_common_administrative_division"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			engine := &mockEngine{reply: referenceReply}
			svc := newTestService(engine)

			divisions, err := svc.AdministrativeDivisions(context.Background(), tc.helsinkiCommon)
			require.NoError(t, err)
			assert.Len(t, divisions, 2)
			assert.Equal(t, tc.wantIndex, engine.index)
		})
	}
}

func TestReference_UpstreamError(t *testing.T) {
	engine := &mockEngine{err: errors.New("boom")}
	svc := newTestService(engine)

	_, err := svc.OntologyWords(context.Background(), nil)
	assert.EqualError(t, err, "search ontology_word: boom")
}
