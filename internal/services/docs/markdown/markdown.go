// Package markdown renders docs page bodies to HTML and extracts the table of
// contents and search text from them.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one table of contents entry.
type Heading struct {
	Depth int    `json:"depth"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Document is a rendered page body.
type Document struct {
	HTML []byte
	TOC  []Heading
	Text string
}

// Renderer converts markdown and MDX to HTML.
type Renderer struct {
	md       goldmark.Markdown
	tocDepth int
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTOCDepth sets the deepest heading level listed in the table of contents.
func WithTOCDepth(depth int) Option {
	return func(r *Renderer) {
		if depth >= 2 && depth <= 6 {
			r.tocDepth = depth
		}
	}
}

// New builds a Renderer with GFM, automatic heading ids and raw HTML enabled.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
		),
		tocDepth: 3,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render converts src to a Document. MDX sources are lowered first.
func (r *Renderer) Render(src []byte, mdx bool) (Document, error) {
	if mdx {
		src = PreprocessMDX(src)
	}
	root := r.md.Parser().Parse(text.NewReader(src))

	var toc []Heading
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level >= 2 && heading.Level <= r.tocDepth {
			toc = append(toc, Heading{
				Depth: heading.Level,
				Text:  nodeText(heading, src),
				ID:    headingID(heading),
			})
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return Document{}, fmt.Errorf("collect headings: %w", err)
	}

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, src, root); err != nil {
		return Document{}, fmt.Errorf("render markdown: %w", err)
	}
	plain, err := PlainText(buf.Bytes())
	if err != nil {
		return Document{}, err
	}
	return Document{HTML: buf.Bytes(), TOC: toc, Text: plain}, nil
}

func headingID(heading *ast.Heading) string {
	value, ok := heading.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := value.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	var walk func(ast.Node)
	walk = func(node ast.Node) {
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch c := child.(type) {
			case *ast.Text:
				b.Write(c.Segment.Value(src))
				if c.SoftLineBreak() || c.HardLineBreak() {
					b.WriteByte(' ')
				}
			case *ast.String:
				b.Write(c.Value)
			default:
				walk(child)
			}
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}
