package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// goldmarkEngine renders CommonMark with the GitHub extensions, footnotes,
// definition lists and smart punctuation.
type goldmarkEngine struct {
	md goldmark.Markdown
}

// NewGoldmark returns an Engine backed by goldmark.
func NewGoldmark() Engine {
	return &goldmarkEngine{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.DefinitionList,
				extension.Typographer,
				headingAnchors{},
			),
			goldmark.WithParserOptions(
				parser.WithHeadingAttribute(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Name returns "goldmark".
func (e *goldmarkEngine) Name() string {
	return Goldmark
}

// Render converts src to HTML.
func (e *goldmarkEngine) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.md.Convert(src, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CountWords counts whitespace separated words in the text nodes of src.
// Inline runs are joined first: the typographer splits "don't" into several
// nodes.
func (e *goldmarkEngine) CountWords(src []byte) int {
	doc := e.md.Parser().Parse(text.NewReader(src))
	var b strings.Builder
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := node.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			if node.Type() == ast.TypeBlock {
				b.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return len(strings.Fields(b.String()))
}

// kindAnchorHeading is the node kind of anchorHeading.
var kindAnchorHeading = ast.NewNodeKind("AnchorHeading")

// anchorHeading replaces a level one heading. Its children are kept for
// word counting but are not rendered.
type anchorHeading struct {
	ast.BaseBlock
	text string
}

// Kind implements ast.Node.
func (n *anchorHeading) Kind() ast.NodeKind {
	return kindAnchorHeading
}

// Dump implements ast.Node.
func (n *anchorHeading) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Text": n.text}, nil)
}

// headingAnchors is a goldmark extension that turns every level one heading
// into an anchor linking to itself.
type headingAnchors struct{}

// Extend implements goldmark.Extender.
func (headingAnchors) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(anchorTransformer{}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(anchorRenderer{}, 100),
	))
}

// anchorTransformer swaps level one headings for anchorHeading nodes.
type anchorTransformer struct{}

// Transform implements parser.ASTTransformer.
func (anchorTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			headings = append(headings, h)
		}
		return ast.WalkContinue, nil
	})
	for _, h := range headings {
		a := &anchorHeading{text: headingText(h, source)}
		for c := h.FirstChild(); c != nil; {
			next := c.NextSibling()
			a.AppendChild(a, c)
			c = next
		}
		h.Parent().ReplaceChild(h.Parent(), h, a)
	}
}

// headingText concatenates the literal text inside a heading, skipping code spans.
func headingText(h ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(h, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.CodeSpan:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			v := t.Segment.Value(source)
			v = util.UnescapePunctuations(v)
			v = util.ResolveNumericReferences(v)
			v = util.ResolveEntityNames(v)
			b.Write(v)
		case *ast.String:
			b.WriteString(html.UnescapeString(string(t.Value)))
		case *ast.AutoLink:
			b.Write(t.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// anchorRenderer renders anchorHeading nodes.
type anchorRenderer struct{}

// RegisterFuncs implements renderer.NodeRenderer.
func (anchorRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindAnchorHeading, renderAnchorHeading)
}

func renderAnchorHeading(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		writeAnchorHeading(w, node.(*anchorHeading).text)
	}
	return ast.WalkSkipChildren, nil
}
