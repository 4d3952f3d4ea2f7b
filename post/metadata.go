package post

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// DateLayout is the layout of the "date" front matter field.
const DateLayout = "2006-01-02"

// Epoch is the date given to posts without a usable date.
var Epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// Metadata holds the typed front matter of a post.
type Metadata struct {
	Title  string
	Date   time.Time
	Hidden bool
}

// ResolveMetadata decodes a TOML front matter block. Missing or mistyped
// fields fall back to their defaults; only a block that is not valid TOML
// is an error.
func ResolveMetadata(block, filename string) (Metadata, error) {
	var table map[string]any
	if err := toml.Unmarshal([]byte(block), &table); err != nil {
		return Metadata{}, errors.Mark(errors.Wrapf(err, "front matter of %q", filename), ErrBadFrontMatter)
	}

	meta := Metadata{
		Title: filename,
		Date:  Epoch,
	}
	if s, ok := table["title"].(string); ok {
		meta.Title = s
	}
	if d, ok := parseDate(table["date"]); ok {
		meta.Date = d
	}
	if b, ok := table["hidden"].(bool); ok {
		meta.Hidden = b
	}
	return meta, nil
}

// parseDate accepts a YYYY-MM-DD string or a TOML local date.
func parseDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case string:
		t, err := time.Parse(DateLayout, d)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case toml.LocalDate:
		return d.AsTime(time.UTC), true
	}
	return time.Time{}, false
}
