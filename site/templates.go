package site

import (
	"embed"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/ancientlore/inkwell/post"
)

// PostTemplate is the template every page is rendered with.
const PostTemplate = "post.html"

//go:embed templates/*.html
var defaultTemplates embed.FS

// Info describes the site in page templates.
type Info struct {
	Title       string
	Description string
	Language    string
	URL         string
}

// Page is the data passed to PostTemplate.
type Page struct {
	Site       Info
	Post       post.Post
	Body       template.HTML
	Posts      []post.Post // visible posts, newest first
	LiveReload bool
	Version    string
}

// DefaultTemplates returns the built-in templates.
func DefaultTemplates() *template.Template {
	sub, err := fs.Sub(defaultTemplates, "templates")
	if err != nil {
		panic(err)
	}
	return template.Must(template.ParseFS(sub, "*.html"))
}

// LoadTemplates parses the *.html files of dir. An empty dir, or one without
// a post.html, yields the built-in templates.
func LoadTemplates(dir string) (*template.Template, error) {
	if dir == "" {
		return DefaultTemplates(), nil
	}
	if _, err := os.Stat(filepath.Join(dir, PostTemplate)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultTemplates(), nil
		}
		return nil, errors.Wrapf(err, "templates directory %q", dir)
	}
	t, err := template.ParseFS(os.DirFS(dir), "*.html")
	if err != nil {
		return nil, errors.Wrapf(err, "parsing templates in %q", dir)
	}
	return t, nil
}
