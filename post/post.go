/*
Package post turns a flat directory of Markdown files into rendered blog posts.

A post file starts with TOML front matter delimited by "+++" lines:

	+++
	title = "My glorious post"
	date = "2024-03-01"
	hidden = false
	+++
	# This is my Heading
	This is my [Markdown](https://en.wikipedia.org/wiki/Markdown).

Files that do not begin with a "+++" line are not posts and are skipped. Front matter may include:

	Name     Type      Description
	-------  --------  -----------------------------------------------
	title    string    Title of the post (defaults to the file name)
	date     string    Publish date as YYYY-MM-DD (defaults to 1970-01-01)
	hidden   bool      Keep the post out of listings and the feed

The slug of a post is its file name with underscores turned into hyphens and
the ".md" extension dropped, so "my_post.md" is served at /my-post rather than
/my-post.md. Other extensions are kept.

The body is rendered by a Renderer, which is normally a *markdown.Converter.
*/
package post

import (
	"strings"
	"time"
)

// FriendlyDateLayout is the display layout for post dates.
const FriendlyDateLayout = "January 02, 2006"

// Post is one rendered article.
type Post struct {
	Slug         string    `json:"slug" yaml:"slug"`
	Title        string    `json:"title" yaml:"title"`
	Date         time.Time `json:"date" yaml:"date"`
	FriendlyDate string    `json:"friendly_date" yaml:"friendly_date"`
	Body         string    `json:"-" yaml:"-"`
	ReadTime     int       `json:"read_time" yaml:"read_time"`
	Hidden       bool      `json:"hidden" yaml:"hidden"`
}

// Slug converts a file name into the URL path element for a post.
func Slug(filename string) string {
	return strings.ReplaceAll(strings.TrimSuffix(filename, ".md"), "_", "-")
}

// Renderer converts a Markdown body into the final HTML stored on a Post.
type Renderer interface {
	ToHTML(src []byte) (string, error)
	ReadTime(src []byte) int
}

// Parse builds a Post from the raw content of the file called filename.
// It returns an error matching ErrNotPost or ErrBadFrontMatter when the
// file cannot become a post.
func Parse(filename string, content []byte, r Renderer) (Post, error) {
	block, body, ok := SplitFrontMatter(content)
	if !ok {
		return Post{}, ErrNotPost
	}
	meta, err := ResolveMetadata(block, filename)
	if err != nil {
		return Post{}, err
	}
	html, err := r.ToHTML([]byte(body))
	if err != nil {
		return Post{}, err
	}
	return Post{
		Slug:         Slug(filename),
		Title:        meta.Title,
		Date:         meta.Date,
		FriendlyDate: meta.Date.Format(FriendlyDateLayout),
		Body:         html,
		ReadTime:     r.ReadTime([]byte(body)),
		Hidden:       meta.Hidden,
	}, nil
}
