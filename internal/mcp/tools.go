package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	defaultMaxResponses = 3
	maxResponsesLimit   = 100
)

// QueryInput is the input schema for the query_statements tool.
type QueryInput struct {
	Text         string `json:"text" jsonschema:"free-text question about policy documents"`
	MaxResponses int    `json:"max_responses,omitempty" jsonschema:"maximum number of statements to return (default 3, at most 100)"`
}

// QueryOutput is the output schema for the query_statements tool.
type QueryOutput struct {
	Responses []StatementOutput `json:"responses"`
	Count     int               `json:"count"`
}

// StatementOutput is a single ranked statement.
type StatementOutput struct {
	Statement string   `json:"statement"`
	Score     int      `json:"score"`
	Source    string   `json:"source"`
	Context   []string `json:"context"`
	Topics    []string `json:"topics"`
}

// TopicsOutput is the output schema for the list_topics tool.
type TopicsOutput struct {
	Topics []string `json:"topics"`
}

// DocumentsOutput is the output schema for the list_documents tool.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
}

// DocumentOutput identifies an analyzed document.
type DocumentOutput struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	URI  string `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_statements",
		Description: "Rank indexed policy statements against a question by shared topics and words",
	}, s.handleQuery)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_topics",
		Description: "List the current topic labels",
	}, s.handleTopics)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the analyzed documents",
	}, s.handleDocuments)
}

func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	limit := input.MaxResponses
	if limit <= 0 {
		limit = defaultMaxResponses
	}
	if limit > maxResponsesLimit {
		limit = maxResponsesLimit
	}

	responses, err := s.ports.Analyzer.Query(ctx, input.Text, limit)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	out := QueryOutput{Responses: make([]StatementOutput, len(responses)), Count: len(responses)}
	for i, r := range responses {
		out.Responses[i] = StatementOutput(r)
	}
	return nil, out, nil
}

func (s *Server) handleTopics(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, TopicsOutput, error) {
	topics := s.ports.Analyzer.Topics()
	if topics == nil {
		topics = []string{}
	}
	return nil, TopicsOutput{Topics: topics}, nil
}

func (s *Server) handleDocuments(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, DocumentsOutput, error) {
	docs := s.ports.Analyzer.Documents()
	out := DocumentsOutput{Documents: make([]DocumentOutput, len(docs))}
	for i, d := range docs {
		out.Documents[i] = DocumentOutput{ID: d.ID, Path: d.Path, URI: documentURI(d.ID)}
	}
	return nil, out, nil
}
