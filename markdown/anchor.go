package markdown

import (
	"fmt"
	"io"
	"strings"
)

// AnchorID converts heading text into an element id: lower case, only ASCII
// letters, digits and spaces kept, spaces turned into hyphens.
func AnchorID(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// writeAnchorHeading writes a level one heading that links to itself.
// The text is written as is.
func writeAnchorHeading(w io.Writer, text string) {
	id := AnchorID(text)
	fmt.Fprintf(w, "<h1 id=\"%s\"><a href=\"#%s\">%s</a></h1>\n", id, id, text)
}
