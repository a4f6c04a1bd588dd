package mcp

import "policyrag/internal/domain"

// Ports aggregates what the MCP server needs from the application core.
type Ports struct {
	// Analyzer answers queries and lists topics and documents.
	Analyzer domain.PolicyService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	return nil
}
