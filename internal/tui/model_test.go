package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/domain"
)

type fakePort struct {
	responses []domain.ScoredResponse
	topics    []string
	err       error
	lastMax   int
}

func (f *fakePort) Query(_ context.Context, _ string, n int) ([]domain.ScoredResponse, error) {
	f.lastMax = n
	return f.responses, f.err
}

func (f *fakePort) Topics() []string { return f.topics }

func typeQuery(t *testing.T, m Model, q string) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(q)})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestModel_QueryShowsResults(t *testing.T) {
	port := &fakePort{responses: []domain.ScoredResponse{
		{Statement: "We need governance.", Score: 2, Source: "A", Context: []string{"AI is here.", "We need governance."}, Topics: []string{"governance"}},
		{Statement: "AI safety is critical.", Score: 1, Source: "B", Topics: []string{"safety"}},
	}}
	m := typeQuery(t, New(port, "summary", 5), "governance")

	require.Len(t, m.results, 2)
	assert.Equal(t, 5, port.lastMax)
	assert.Contains(t, m.status, "2 statements")
	out := m.renderCurrentResult()
	assert.Contains(t, out, "score=2")
	assert.Contains(t, out, "source=A")
	assert.Contains(t, out, "topics: governance")
	assert.Contains(t, out, "AI is here.")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 0, next.(Model).cursor)
}

func TestModel_QueryError(t *testing.T) {
	m := typeQuery(t, New(&fakePort{err: errors.New("boom")}, "", 0), "x")
	assert.Empty(t, m.results)
	assert.Equal(t, "Error: boom", m.status)
	assert.Equal(t, "No results yet.", m.renderCurrentResult())
}

func TestModel_NoMatches(t *testing.T) {
	m := typeQuery(t, New(&fakePort{responses: []domain.ScoredResponse{}}, "", 3), "weather")
	assert.Contains(t, m.status, "No statements match")
}

func TestModel_ListTopics(t *testing.T) {
	m := New(&fakePort{topics: []string{"ethics", "safety"}}, "", 3)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, "Topics: ethics, safety", next.(Model).status)
}

func TestModel_Quit(t *testing.T) {
	_, cmd := New(&fakePort{}, "", 3).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHighlightStatement(t *testing.T) {
	out := highlightStatement([]string{"Before.", "We propose a policy.", "After."}, "We propose a policy.")
	assert.Contains(t, out, "Before.")
	assert.Contains(t, out, "We propose a policy.")
	assert.Contains(t, out, "After.")
	assert.Contains(t, highlightStatement(nil, "Alone."), "Alone.")
}
