// Package mcp exposes the analyzer to MCP clients as tools and resources.
package mcp

import "errors"

// ErrMissingAnalyzer is returned when the analyzer port is not provided.
var ErrMissingAnalyzer = errors.New("mcp: analyzer is required")
