package markdown

import "strings"

// Callout markers.
const (
	CalloutBegin = "{{{"
	CalloutEnd   = "}}}"
)

// calloutState is the state of the callout scanner.
type calloutState int

const (
	outside calloutState = iota
	inside
)

// ExpandCallouts replaces every "{{{type\ncontent}}}" in s with a callout
// block. The type is the rest of the line after the begin marker, the
// content runs up to the next end marker; both are trimmed and inserted
// without escaping. Callouts do not nest. A callout without an end marker
// is left as it is, together with everything after it.
func ExpandCallouts(s string) string {
	var (
		out   strings.Builder
		state = outside
		pos   int // scan position
		begin int // offset of the open begin marker
		kind  string
	)
	out.Grow(len(s))
	for {
		switch state {
		case outside:
			i := strings.Index(s[pos:], CalloutBegin)
			if i < 0 {
				out.WriteString(s[pos:])
				return out.String()
			}
			out.WriteString(s[pos : pos+i])
			begin = pos + i
			pos = begin + len(CalloutBegin)
			eol := strings.IndexByte(s[pos:], '\n')
			if eol < 0 {
				eol = len(s) - pos
			}
			kind = strings.TrimSpace(s[pos : pos+eol])
			pos += eol
			state = inside
		case inside:
			i := strings.Index(s[pos:], CalloutEnd)
			if i < 0 {
				out.WriteString(s[begin:])
				return out.String()
			}
			writeCallout(&out, kind, strings.TrimSpace(s[pos:pos+i]))
			pos += i + len(CalloutEnd)
			state = outside
		}
	}
}

func writeCallout(b *strings.Builder, kind, content string) {
	b.WriteString(`<div class="callout `)
	b.WriteString(kind)
	b.WriteString(`-callout"><span class="callout-icon `)
	b.WriteString(kind)
	b.WriteString(`-callout-icon"></span><span>`)
	b.WriteString(content)
	b.WriteString("</span></div>\n")
}
