// Package parser turns source files into annotated plain text for analysis.
//
// Each supported extension maps to a Parser that extracts labelled sections
// (comments, docstrings, function names, headers, ...). Flatten renders the
// sections as one text blob with uppercase labels, which the analyzer treats
// as ordinary prose.
package parser

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnsupported is returned for files whose extension has no registered parser.
var ErrUnsupported = errors.New("unsupported file type")

// Section is a labelled group of extracted items.
type Section struct {
	Label string
	Items []string
}

// Sections is an ordered list of sections.
type Sections []Section

// Parser extracts sections from file content.
type Parser interface {
	Parse(content string) (Sections, error)
}

// Func adapts a function to Parser.
type Func func(content string) (Sections, error)

func (f Func) Parse(content string) (Sections, error) { return f(content) }

// Registry maps lower-cased file extensions (with the leading dot) to parsers.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// NewRegistry returns a registry with the built-in parsers registered.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register(".py", Func(parsePython))
	r.Register(".js", Func(parseJavaScript))
	r.Register(".jsx", Func(parseJavaScript))
	r.Register(".ts", Func(parseTypeScript))
	r.Register(".tsx", Func(parseTypeScript))
	r.Register(".java", Func(parseJava))
	r.Register(".cpp", Func(parseCpp))
	r.Register(".h", Func(parseCpp))
	r.Register(".md", Func(parseMarkdown))
	r.Register(".txt", Func(parseText))
	r.Register(".html", HTML{})
	r.Register(".htm", HTML{})
	return r
}

// Register adds or replaces the parser for ext.
func (r *Registry) Register(ext string, p Parser) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[ext] = p
}

// Lookup returns the parser for the extension of filename.
func (r *Registry) Lookup(filename string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[strings.ToLower(filepath.Ext(filename))]
	return p, ok
}

// Supported reports whether filename has a registered parser.
func (r *Registry) Supported(filename string) bool {
	_, ok := r.Lookup(filename)
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// Parse runs the parser registered for filename and flattens the result.
// Plain text is returned unchanged.
func (r *Registry) Parse(filename, content string) (string, error) {
	p, ok := r.Lookup(filename)
	if !ok {
		return "", ErrUnsupported
	}
	sections, err := p.Parse(content)
	if err != nil {
		return "", err
	}
	return Flatten(sections), nil
}

// Flatten renders sections as "LABEL:" blocks separated by blank lines.
// Empty sections are skipped. A lone CONTENT section is returned verbatim.
func Flatten(sections Sections) string {
	if len(sections) == 1 && sections[0].Label == labelContent && len(sections[0].Items) == 1 {
		return sections[0].Items[0]
	}
	var b strings.Builder
	for _, s := range sections {
		items := nonEmpty(s.Items)
		if len(items) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.ToUpper(s.Label))
		b.WriteString(":\n")
		b.WriteString(strings.Join(items, "\n"))
	}
	return b.String()
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
