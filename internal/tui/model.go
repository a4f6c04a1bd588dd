package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"policyrag/internal/domain"
)

// QueryPort is the TUI-facing subset of the analyzer.
type QueryPort interface {
	Query(ctx context.Context, query string, maxResponses int) ([]domain.ScoredResponse, error)
	Topics() []string
}

// Model is the Bubble Tea model for the query console.
type Model struct {
	service      QueryPort
	maxResponses int
	input        textinput.Model
	viewport     viewport.Model
	results      []domain.ScoredResponse
	summary      string
	status       string
	cursor       int
	ready        bool
}

// New creates a new TUI model instance. summary is shown under the header.
func New(service QueryPort, summary string, maxResponses int) Model {
	if maxResponses <= 0 {
		maxResponses = 10
	}
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about a policy and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:      service,
		maxResponses: maxResponses,
		input:        ti,
		viewport:     vp,
		summary:      summary,
		status:       "Loaded. Type to search, ctrl+t lists topics.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2 // header + summary
		totalFooterLines := 1 // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentResult())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				res, err := m.service.Query(context.Background(), q, m.maxResponses)
				switch {
				case err != nil:
					m.status = "Error: " + err.Error()
					m.results = nil
				case len(res) == 0:
					m.status = fmt.Sprintf("No statements match %q", q)
					m.results = nil
				default:
					m.status = fmt.Sprintf("%d statements for %q", len(res), q)
					m.results = res
				}
				m.cursor = 0
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "ctrl+t":
			topics := m.service.Topics()
			if len(topics) == 0 {
				m.status = "No topics yet."
			} else {
				m.status = "Topics: " + strings.Join(topics, ", ")
			}
			return m, nil
		case "down":
			if len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		case "up":
			if len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.viewport.SetContent(m.renderCurrentResult())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Policy Statements")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderCurrentResult() string {
	if len(m.results) == 0 {
		return "No results yet."
	}
	r := m.results[m.cursor]
	title := fmt.Sprintf("Result %d/%d  score=%d  source=%s", m.cursor+1, len(m.results), r.Score, r.Source)
	topics := "topics: " + strings.Join(r.Topics, ", ")
	return title + "\n" + topicStyle.Render(topics) + "\n\n" + highlightStatement(r.Context, r.Statement)
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	topicStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// highlightStatement joins the context window and emphasizes the statement.
func highlightStatement(context []string, statement string) string {
	if len(context) == 0 {
		return highlightStyle.Render(statement)
	}
	parts := make([]string, len(context))
	for i, s := range context {
		if s == statement {
			parts[i] = highlightStyle.Render(s)
		} else {
			parts[i] = s
		}
	}
	return strings.Join(parts, " ")
}
