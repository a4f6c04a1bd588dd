package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/domain"
)

func newTestServer(t *testing.T, m *mockAnalyzer) *Server {
	t.Helper()
	s, err := NewServer(&Ports{Analyzer: m})
	require.NoError(t, err)
	return s
}

func TestServer_handleQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked statements", func(t *testing.T) {
		m := &mockAnalyzer{responses: []domain.ScoredResponse{{
			Statement: "We need governance.",
			Score:     2,
			Source:    "A",
			Context:   []string{"We need governance."},
			Topics:    []string{"governance"},
		}}}
		_, out, err := newTestServer(t, m).handleQuery(ctx, nil, QueryInput{Text: "governance framework", MaxResponses: 5})

		require.NoError(t, err)
		assert.Equal(t, 1, out.Count)
		assert.Equal(t, "We need governance.", out.Responses[0].Statement)
		assert.Equal(t, 2, out.Responses[0].Score)
		assert.Equal(t, "governance framework", m.lastQuery)
		assert.Equal(t, 5, m.lastMax)
	})

	t.Run("limits are clamped", func(t *testing.T) {
		m := &mockAnalyzer{}
		s := newTestServer(t, m)

		_, out, err := s.handleQuery(ctx, nil, QueryInput{Text: "x"})
		require.NoError(t, err)
		assert.Equal(t, defaultMaxResponses, m.lastMax)
		assert.NotNil(t, out.Responses)

		_, _, err = s.handleQuery(ctx, nil, QueryInput{Text: "x", MaxResponses: 1000})
		require.NoError(t, err)
		assert.Equal(t, maxResponsesLimit, m.lastMax)
	})

	t.Run("returns error on query failure", func(t *testing.T) {
		_, _, err := newTestServer(t, &mockAnalyzer{err: errors.New("query failed")}).handleQuery(ctx, nil, QueryInput{Text: "x"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query failed")
	})
}

func TestServer_handleTopicsAndDocuments(t *testing.T) {
	ctx := context.Background()
	m := &mockAnalyzer{
		topics: []string{"governance", "safety"},
		docs:   []domain.Document{{ID: "brief_20240309_140507", Path: "uploads/brief_20240309_140507.txt", Content: "text"}},
	}
	s := newTestServer(t, m)

	_, topics, err := s.handleTopics(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, []string{"governance", "safety"}, topics.Topics)

	_, docs, err := s.handleDocuments(ctx, nil, struct{}{})
	require.NoError(t, err)
	require.Len(t, docs.Documents, 1)
	assert.Equal(t, "policyrag://documents/brief_20240309_140507", docs.Documents[0].URI)

	_, empty, err := newTestServer(t, &mockAnalyzer{}).handleTopics(ctx, nil, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.Topics)
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t, &mockAnalyzer{docs: []domain.Document{{ID: "a", Content: "We propose a policy."}}})

	res, err := s.handleDocumentResource(ctx, makeReadResourceRequest("policyrag://documents/a"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "We propose a policy.", res.Contents[0].Text)

	_, err = s.handleDocumentResource(ctx, makeReadResourceRequest("policyrag://documents/missing"))
	assert.Error(t, err)

	_, err = s.handleDocumentResource(ctx, makeReadResourceRequest("file://documents/a"))
	assert.Error(t, err)
}

func TestServer_handleTopicsResource(t *testing.T) {
	s := newTestServer(t, &mockAnalyzer{topics: []string{"ethics"}})
	res, err := s.handleTopicsResource(context.Background(), makeReadResourceRequest("policyrag://topics"))
	require.NoError(t, err)
	assert.JSONEq(t, `["ethics"]`, res.Contents[0].Text)
}

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"policyrag://documents/doc-1", "doc-1"},
		{"policyrag://documents/a/b", ""},
		{"other://documents/doc-1", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractDocumentID(tt.uri))
		})
	}
}
