package parser

import (
	"regexp"
	"strings"
)

const (
	labelContent    = "content"
	labelDocstrings = "docstrings"
	labelComments   = "comments"
	labelFunctions  = "functions"
	labelClasses    = "classes"
	labelInterfaces = "interfaces"
	labelTypes      = "types"
	labelComponents = "components"
	labelMethods    = "methods"
	labelHeaders    = "headers"
	labelCode       = "code blocks"
	labelTitle      = "title"
)

var (
	pyDef        = regexp.MustCompile(`(?m)^[ \t]*(?:async[ \t]+)?def[ \t]+(\w+)[ \t]*\(([^)]*)\)`)
	pyClass      = regexp.MustCompile(`(?m)^[ \t]*class[ \t]+(\w+)`)
	pyDocDouble  = regexp.MustCompile(`(?s)"""(.*?)"""`)
	pyDocSingle  = regexp.MustCompile(`(?s)'''(.*?)'''`)
	pyComment    = regexp.MustCompile(`(?m)^[ \t]*#+(.*)$`)
	pyInlineNote = regexp.MustCompile(`(?m)\S[ \t]+#[ \t]+(.+)$`)

	cComment    = regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/`)
	jsComponent = regexp.MustCompile(`(?s)function\s+(\w+)\s*\(.*?\).*?\{|const\s+(\w+)\s*=\s*\(.*?\)\s*=>`)
	tsInterface = regexp.MustCompile(`interface\s+(\w+)\s*\{`)
	tsType      = regexp.MustCompile(`type\s+(\w+)\s*=`)
	classDecl   = regexp.MustCompile(`class\s+(\w+)`)
	javaMethod  = regexp.MustCompile(`(?:public|private|protected)?\s+(?:static\s+)?[\w<>\[\],\s]+\s+(\w+)\s*\([^)]*\)`)
	cppFunction = regexp.MustCompile(`(?:[\w:*&]+\s+)+(\w+)\s*\([^)]*\)`)

	mdHeader = regexp.MustCompile(`(?m)^#+\s+(.+)$`)
	mdCode   = regexp.MustCompile("(?s)```\\w*\\n(.*?)```")
)

// control-flow keywords that the method and function patterns also catch
var notCallable = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {}, "return": {},
	"new": {}, "sizeof": {}, "else": {}, "do": {}, "throw": {}, "delete": {},
}

func parseText(content string) (Sections, error) {
	return Sections{{Label: labelContent, Items: []string{content}}}, nil
}

func parsePython(content string) (Sections, error) {
	var docs, comments, funcs, classes []string
	for _, m := range pyDocDouble.FindAllStringSubmatch(content, -1) {
		docs = append(docs, m[1])
	}
	for _, m := range pyDocSingle.FindAllStringSubmatch(content, -1) {
		docs = append(docs, m[1])
	}
	for _, m := range pyComment.FindAllStringSubmatch(content, -1) {
		c := strings.TrimSpace(m[1])
		if c != "" && !strings.HasPrefix(c, "!") {
			comments = append(comments, c)
		}
	}
	for _, m := range pyInlineNote.FindAllStringSubmatch(content, -1) {
		comments = append(comments, strings.TrimSpace(m[1]))
	}
	for _, m := range pyDef.FindAllStringSubmatch(content, -1) {
		funcs = append(funcs, "def "+m[1]+"("+pyArgs(m[2])+")")
	}
	for _, m := range pyClass.FindAllStringSubmatch(content, -1) {
		classes = append(classes, "class "+m[1])
	}
	return Sections{
		{Label: labelDocstrings, Items: docs},
		{Label: labelComments, Items: comments},
		{Label: labelFunctions, Items: funcs},
		{Label: labelClasses, Items: classes},
	}, nil
}

// pyArgs reduces a parameter list to its names.
func pyArgs(params string) string {
	var names []string
	for _, p := range strings.Split(params, ",") {
		p = strings.TrimSpace(p)
		if i := strings.IndexAny(p, ":="); i >= 0 {
			p = strings.TrimSpace(p[:i])
		}
		p = strings.TrimLeft(p, "*")
		if p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, ", ")
}

func parseJavaScript(content string) (Sections, error) {
	return Sections{
		{Label: labelComponents, Items: components(content)},
		{Label: labelComments, Items: comments(content)},
	}, nil
}

func parseTypeScript(content string) (Sections, error) {
	return Sections{
		{Label: labelInterfaces, Items: firstGroups(tsInterface, content)},
		{Label: labelTypes, Items: firstGroups(tsType, content)},
		{Label: labelComponents, Items: components(content)},
		{Label: labelComments, Items: comments(content)},
	}, nil
}

func parseJava(content string) (Sections, error) {
	return Sections{
		{Label: labelClasses, Items: firstGroups(classDecl, content)},
		{Label: labelMethods, Items: callables(javaMethod, content)},
		{Label: labelComments, Items: comments(content)},
	}, nil
}

func parseCpp(content string) (Sections, error) {
	return Sections{
		{Label: labelClasses, Items: firstGroups(classDecl, content)},
		{Label: labelFunctions, Items: callables(cppFunction, content)},
		{Label: labelComments, Items: comments(content)},
	}, nil
}

func parseMarkdown(content string) (Sections, error) {
	return Sections{
		{Label: labelHeaders, Items: firstGroups(mdHeader, content)},
		{Label: labelCode, Items: firstGroups(mdCode, content)},
		{Label: labelContent, Items: []string{content}},
	}, nil
}

func components(content string) []string {
	var out []string
	for _, m := range jsComponent.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// comments returns // and /* */ comments with their markers removed.
func comments(content string) []string {
	var out []string
	for _, raw := range cComment.FindAllString(content, -1) {
		var text string
		if strings.HasPrefix(raw, "//") {
			text = strings.TrimPrefix(raw, "//")
		} else {
			body := strings.TrimSuffix(strings.TrimPrefix(raw, "/*"), "*/")
			lines := strings.Split(body, "\n")
			for i, l := range lines {
				lines[i] = strings.TrimLeft(strings.TrimSpace(l), "*")
			}
			text = strings.Join(strings.Fields(strings.Join(lines, " ")), " ")
		}
		if text = strings.TrimSpace(text); text != "" {
			out = append(out, text)
		}
	}
	return out
}

func firstGroups(re *regexp.Regexp, content string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		out = append(out, m[1])
	}
	return out
}

func callables(re *regexp.Regexp, content string) []string {
	var out []string
	for _, name := range firstGroups(re, content) {
		if _, skip := notCallable[name]; !skip {
			out = append(out, name)
		}
	}
	return out
}
