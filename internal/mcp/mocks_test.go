package mcp

import (
	"context"

	"policyrag/internal/domain"
)

type mockAnalyzer struct {
	responses []domain.ScoredResponse
	topics    []string
	docs      []domain.Document
	err       error

	lastQuery string
	lastMax   int
}

func (m *mockAnalyzer) Analyze(_ context.Context, doc domain.Document) (domain.Analysis, error) {
	return domain.Analysis{DocID: doc.ID}, m.err
}

func (m *mockAnalyzer) Query(_ context.Context, q string, n int) ([]domain.ScoredResponse, error) {
	m.lastQuery, m.lastMax = q, n
	if m.err != nil {
		return nil, m.err
	}
	return m.responses, nil
}

func (m *mockAnalyzer) Topics() []string             { return m.topics }
func (m *mockAnalyzer) Documents() []domain.Document { return m.docs }
func (m *mockAnalyzer) Refit(context.Context) error  { return m.err }
