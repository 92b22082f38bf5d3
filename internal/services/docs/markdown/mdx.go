package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// component describes how an MDX component tag is lowered to HTML.
type component struct {
	element string
	name    string
}

// Components lists the MDX component tags the site understands.
var components = map[string]component{
	"Callout": {element: "aside", name: "callout"},
	"Cards":   {element: "div", name: "cards"},
	"Card":    {element: "div", name: "card"},
	"Steps":   {element: "div", name: "steps"},
	"Step":    {element: "div", name: "step"},
	"Tabs":    {element: "div", name: "tabs"},
	"Tab":     {element: "section", name: "tab"},
}

var (
	jsxComment   = regexp.MustCompile(`\{/\*[\s\S]*?\*/\}`)
	componentTag = regexp.MustCompile(`<(/?)([A-Z][A-Za-z0-9]*)((?:\s+[A-Za-z_:][-A-Za-z0-9_:.]*(?:=(?:"[^"]*"|'[^']*'|\{[^}]*\}))?)*)\s*(/?)>`)
	componentArg = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)(?:=("[^"]*"|'[^']*'|\{[^}]*\}))?`)
	esmStatement = regexp.MustCompile(`^(import|export)\s`)
)

// PreprocessMDX lowers an MDX body to markdown with embedded HTML. Top-level
// import and export statements and JSX comments are removed, and known
// component tags become HTML elements carrying a data-component attribute.
// Fenced code blocks pass through untouched.
func PreprocessMDX(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	out := make([]string, 0, len(lines))
	var prose []string
	fence := ""

	flush := func() {
		if len(prose) == 0 {
			return
		}
		out = append(out, strings.Split(lowerJSX(strings.Join(prose, "\n")), "\n")...)
		prose = prose[:0]
	}

	inESM := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			out = append(out, line)
			if strings.HasPrefix(trimmed, fence) && strings.Trim(trimmed, fence[:1]) == "" {
				fence = ""
			}
			continue
		}
		if marker := fenceMarker(trimmed); marker != "" {
			flush()
			fence = marker
			out = append(out, line)
			continue
		}
		if inESM {
			if trimmed == "" {
				inESM = false
				prose = append(prose, line)
			}
			continue
		}
		if line == trimmed && esmStatement.MatchString(line) {
			inESM = !esmComplete(trimmed)
			continue
		}
		prose = append(prose, line)
	}
	flush()
	return []byte(strings.Join(out, "\n"))
}

// fenceMarker returns the opening fence of a code block, or "".
func fenceMarker(line string) string {
	for _, ch := range []string{"`", "~"} {
		if strings.HasPrefix(line, strings.Repeat(ch, 3)) {
			n := len(line) - len(strings.TrimLeft(line, ch))
			return strings.Repeat(ch, n)
		}
	}
	return ""
}

// esmComplete reports whether a single import/export line ends the statement.
func esmComplete(line string) bool {
	if strings.HasSuffix(line, ";") {
		return true
	}
	if strings.Count(line, "{") > strings.Count(line, "}") {
		return false
	}
	if strings.HasPrefix(line, "import") {
		return strings.Contains(line, " from ") || strings.Count(line, `"`) >= 2 || strings.Count(line, "'") >= 2
	}
	return true
}

func lowerJSX(text string) string {
	text, spans := maskCodeSpans(text)
	text = jsxComment.ReplaceAllString(text, "")
	text = componentTag.ReplaceAllStringFunc(text, func(tag string) string {
		m := componentTag.FindStringSubmatch(tag)
		closing, name, args, selfClosing := m[1] == "/", m[2], m[3], m[4] == "/"
		c, ok := components[name]
		if !ok {
			return tag
		}
		if closing {
			return "</" + c.element + ">"
		}
		var b strings.Builder
		var href, title string
		b.WriteString("<" + c.element + ` data-component="` + c.name + `"`)
		for _, arg := range componentArg.FindAllStringSubmatch(args, -1) {
			b.WriteString(lowerAttr(arg[1], arg[2]))
			switch arg[1] {
			case "href":
				href = stringProp(arg[2])
			case "title":
				title = stringProp(arg[2])
			}
		}
		b.WriteString(">")
		// Linked cards carry their title as the link text.
		if c.name == "card" && href != "" {
			if title == "" {
				title = href
			}
			b.WriteString(`<a href="` + escapeAttr(href) + `">` + escapeAttr(title) + "</a>")
		}
		if selfClosing {
			b.WriteString("</" + c.element + ">")
		}
		return b.String()
	})
	return unmaskCodeSpans(text, spans)
}

// maskCodeSpans swaps inline code spans for NUL-delimited placeholders so the
// JSX rewrites leave them alone. A span opens with a run of backticks and
// closes with a run of the same length inside the same paragraph.
func maskCodeSpans(text string) (string, []string) {
	if !strings.Contains(text, "`") {
		return text, nil
	}
	var b strings.Builder
	var spans []string
	for i := 0; i < len(text); {
		if text[i] != '`' {
			b.WriteByte(text[i])
			i++
			continue
		}
		n := backtickRun(text, i)
		end := closingRun(text, i+n, n)
		if end < 0 {
			b.WriteString(text[i : i+n])
			i += n
			continue
		}
		b.WriteString("\x00" + strconv.Itoa(len(spans)) + "\x00")
		spans = append(spans, text[i:end])
		i = end
	}
	return b.String(), spans
}

func unmaskCodeSpans(text string, spans []string) string {
	for i, span := range spans {
		text = strings.Replace(text, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return text
}

func backtickRun(text string, at int) int {
	n := 0
	for at+n < len(text) && text[at+n] == '`' {
		n++
	}
	return n
}

// closingRun returns the index just past the backtick run of length n that
// closes a span opened before from, or -1.
func closingRun(text string, from int, n int) int {
	limit := len(text)
	if blank := strings.Index(text[from:], "\n\n"); blank >= 0 {
		limit = from + blank
	}
	for i := from; i < limit; {
		if text[i] != '`' {
			i++
			continue
		}
		run := backtickRun(text, i)
		if run == n {
			return i + run
		}
		i += run
	}
	return -1
}

// lowerAttr renders one component prop as a data attribute. String literals
// keep their value, bare props become "true", and expression values that are
// not plain literals are dropped.
func lowerAttr(name string, value string) string {
	attr := " data-" + strings.ToLower(name)
	switch {
	case value == "":
		return attr + `="true"`
	case strings.HasPrefix(value, "{"):
		inner := strings.TrimSpace(strings.Trim(value, "{}"))
		if inner == "true" || inner == "false" || isNumber(inner) {
			return attr + `="` + inner + `"`
		}
		if len(inner) >= 2 && (inner[0] == '"' || inner[0] == '\'') && inner[len(inner)-1] == inner[0] {
			return attr + `="` + escapeAttr(inner[1:len(inner)-1]) + `"`
		}
		return ""
	default:
		return attr + `="` + escapeAttr(value[1:len(value)-1]) + `"`
	}
}

// stringProp returns the value of a quoted prop, or "" for expressions.
func stringProp(value string) string {
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') {
		return value[1 : len(value)-1]
	}
	return ""
}

func isNumber(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		if r == '-' && i == 0 {
			continue
		}
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

func escapeAttr(value string) string {
	return strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;").Replace(value)
}
