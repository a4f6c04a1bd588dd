package parser

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

var htmlBaseURL, _ = url.Parse("http://localhost/document")

// HTML extracts the readable article text of an HTML page.
type HTML struct{}

func (HTML) Parse(content string) (Sections, error) {
	article, err := readability.FromReader(strings.NewReader(content), htmlBaseURL)
	if err != nil {
		return nil, err
	}
	return Sections{
		{Label: labelTitle, Items: []string{article.Title}},
		{Label: labelContent, Items: []string{article.TextContent}},
	}, nil
}
