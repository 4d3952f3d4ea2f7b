package markdown

import (
	"bytes"
	"html"
	"io"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// blackfridayExtensions are the Markdown extensions used by the blackfriday engine.
const blackfridayExtensions = blackfriday.CommonExtensions | blackfriday.Footnotes

// blackfridayEngine renders Markdown with blackfriday.
type blackfridayEngine struct{}

// NewBlackfriday returns an Engine backed by blackfriday.
func NewBlackfriday() Engine {
	return blackfridayEngine{}
}

// Name returns "blackfriday".
func (blackfridayEngine) Name() string {
	return Blackfriday
}

// Render converts src to HTML.
func (blackfridayEngine) Render(src []byte) ([]byte, error) {
	r := &anchorHTMLRenderer{
		HTMLRenderer: blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
			Flags: blackfriday.CommonHTMLFlags | blackfriday.FootnoteReturnLinks,
		}),
	}
	return blackfriday.Run(src, blackfriday.WithExtensions(blackfridayExtensions), blackfriday.WithRenderer(r)), nil
}

// CountWords counts whitespace separated words in the text nodes of src.
func (blackfridayEngine) CountWords(src []byte) int {
	doc := blackfriday.New(blackfriday.WithExtensions(blackfridayExtensions)).Parse(src)
	n := 0
	doc.Walk(func(node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && node.Type == blackfriday.Text {
			n += len(strings.Fields(string(node.Literal)))
		}
		return blackfriday.GoToNext
	})
	return n
}

// anchorHTMLRenderer is the standard HTML renderer with level one headings
// rewritten into self-linking anchors.
type anchorHTMLRenderer struct {
	*blackfriday.HTMLRenderer
}

// RenderNode implements blackfriday.Renderer.
func (r *anchorHTMLRenderer) RenderNode(w io.Writer, node *blackfriday.Node, entering bool) blackfriday.WalkStatus {
	if node.Type == blackfriday.Heading && node.Level == 1 && entering {
		writeAnchorHeading(w, blackfridayText(node))
		return blackfriday.SkipChildren
	}
	return r.HTMLRenderer.RenderNode(w, node, entering)
}

// blackfridayText concatenates the literal text below node, skipping inline code.
func blackfridayText(node *blackfriday.Node) string {
	var buf bytes.Buffer
	node.Walk(func(n *blackfriday.Node, entering bool) blackfriday.WalkStatus {
		if entering && n.Type == blackfriday.Text {
			buf.WriteString(html.UnescapeString(string(n.Literal)))
		}
		return blackfriday.GoToNext
	})
	return buf.String()
}
