package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Supported("notes.TXT"))
	assert.True(t, r.Supported("dir/app.tsx"))
	assert.True(t, r.Supported("page.html"))
	assert.False(t, r.Supported("image.png"))
	assert.False(t, r.Supported("Makefile"))

	assert.Equal(t, []string{".cpp", ".h", ".htm", ".html", ".java", ".js", ".jsx", ".md", ".py", ".ts", ".tsx", ".txt"}, r.Extensions())
}

func TestRegistry_RegisterNormalizesExtension(t *testing.T) {
	r := NewRegistry()
	r.Register("RST", Func(parseText))
	assert.True(t, r.Supported("guide.rst"))
}

func TestRegistry_ParseUnsupported(t *testing.T) {
	_, err := NewRegistry().Parse("photo.jpg", "data")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestRegistry_PlainTextIsVerbatim(t *testing.T) {
	text := "We propose a new policy.\n\nSecond paragraph."
	got, err := NewRegistry().Parse("a.txt", text)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestFlatten(t *testing.T) {
	got := Flatten(Sections{
		{Label: "comments", Items: []string{" first ", "", "second"}},
		{Label: "functions"},
		{Label: "classes", Items: []string{"class A"}},
	})
	assert.Equal(t, "COMMENTS:\nfirst\nsecond\n\nCLASSES:\nclass A", got)
	assert.Empty(t, Flatten(nil))
}

func TestParsePython(t *testing.T) {
	src := `#!/usr/bin/env python
# Governance helpers.
class PolicyBoard:
    """Tracks the governance policy."""

    def approve(self, policy_id: int, note="x"):
        return True  # approval is final
`
	got, err := NewRegistry().Parse("board.py", src)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"DOCSTRINGS:\nTracks the governance policy.",
		"COMMENTS:\nGovernance helpers.\napproval is final",
		"FUNCTIONS:\ndef approve(self, policy_id, note)",
		"CLASSES:\nclass PolicyBoard",
	}, "\n\n"), got)
}

func TestParseTypeScript(t *testing.T) {
	src := `// Policy form component
interface Props { id: string }
type Mode = "a" | "b";
function PolicyForm(props) { return null; }
const Upload = () => null;
/* Handles the
 * upload flow */
`
	sections, err := parseTypeScript(src)
	require.NoError(t, err)
	byLabel := index(sections)
	assert.Equal(t, []string{"Props"}, byLabel[labelInterfaces])
	assert.Equal(t, []string{"Mode"}, byLabel[labelTypes])
	assert.Equal(t, []string{"PolicyForm", "Upload"}, byLabel[labelComponents])
	assert.Equal(t, []string{"Policy form component", "Handles the upload flow"}, byLabel[labelComments])
}

func TestParseJava(t *testing.T) {
	src := `public class Registry {
    // registers policies
    public static void register(String id) {
        if (id == null) { return; }
    }
}`
	sections, err := parseJava(src)
	require.NoError(t, err)
	byLabel := index(sections)
	assert.Equal(t, []string{"Registry"}, byLabel[labelClasses])
	assert.Contains(t, byLabel[labelMethods], "register")
	assert.NotContains(t, byLabel[labelMethods], "if")
	assert.Equal(t, []string{"registers policies"}, byLabel[labelComments])
}

func TestParseCpp(t *testing.T) {
	src := "class Engine {};\nint compute(int x) { return x; } // core loop\n"
	sections, err := parseCpp(src)
	require.NoError(t, err)
	byLabel := index(sections)
	assert.Equal(t, []string{"Engine"}, byLabel[labelClasses])
	assert.Contains(t, byLabel[labelFunctions], "compute")
	assert.Equal(t, []string{"core loop"}, byLabel[labelComments])
}

func TestParseMarkdown(t *testing.T) {
	src := "# Policy Guide\n\nSome text.\n\n```go\nfmt.Println()\n```\n## Scope\n"
	sections, err := parseMarkdown(src)
	require.NoError(t, err)
	byLabel := index(sections)
	assert.Equal(t, []string{"Policy Guide", "Scope"}, byLabel[labelHeaders])
	assert.Equal(t, []string{"fmt.Println()\n"}, byLabel[labelCode])
	assert.Equal(t, []string{src}, byLabel[labelContent])
}

func TestParseHTML(t *testing.T) {
	para := "The national AI governance framework establishes oversight boards for every agency. " +
		"Each board reviews deployment plans, publishes risk assessments and reports to parliament twice a year. "
	src := "<html><head><title>AI Policy Brief</title></head><body><article>" +
		"<h1>AI Policy Brief</h1><p>" + strings.Repeat(para, 4) + "</p><p>" + strings.Repeat(para, 3) + "</p>" +
		"</article></body></html>"

	sections, err := HTML{}.Parse(src)
	require.NoError(t, err)
	byLabel := index(sections)
	require.Len(t, byLabel[labelContent], 1)
	assert.Contains(t, byLabel[labelContent][0], "governance framework establishes oversight")
}

func index(sections Sections) map[string][]string {
	out := make(map[string][]string, len(sections))
	for _, s := range sections {
		out[s.Label] = s.Items
	}
	return out
}
