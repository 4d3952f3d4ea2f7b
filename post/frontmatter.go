package post

import (
	"bufio"
	"bytes"
	"strings"
)

// delimiter opens and closes the front matter block.
const delimiter = "+++"

// SplitFrontMatter splits a post file into its front matter block and body.
// ok is false when the first line is not exactly "+++". When the closing
// delimiter is missing, everything after the opening line is treated as
// front matter and the body is empty.
func SplitFrontMatter(content []byte) (meta, body string, ok bool) {
	s := bufio.NewScanner(bytes.NewReader(content))
	s.Buffer(make([]byte, 0, 4096), len(content)+1)

	if !s.Scan() || s.Text() != delimiter {
		return "", "", false
	}

	var fm strings.Builder
	for s.Scan() {
		line := s.Text()
		if line == delimiter {
			var lines []string
			for s.Scan() {
				lines = append(lines, s.Text())
			}
			return fm.String(), strings.Join(lines, "\n"), true
		}
		fm.WriteString(line)
		fm.WriteByte('\n')
	}
	return fm.String(), "", true
}
