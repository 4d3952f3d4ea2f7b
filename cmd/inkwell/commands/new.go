package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ancientlore/inkwell/post"
)

var (
	newTitle  string
	newDate   string
	newHidden bool
)

func init() {
	newCmd.Flags().StringVar(&newTitle, "title", "", "post title (default: derived from the slug)")
	newCmd.Flags().StringVar(&newDate, "date", "", "publish date as YYYY-MM-DD (default: today)")
	newCmd.Flags().BoolVar(&newHidden, "hidden", false, "keep the post out of listings and the feed")
	rootCmd.AddCommand(newCmd)
}

var newCmd = &cobra.Command{
	Use:   "new <slug>",
	Short: "Create a post file with front matter",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		date := newDate
		if date == "" {
			date = time.Now().Format(post.DateLayout)
		}
		path, err := createPost(appConfig.PostsDir, args[0], newTitle, date, newHidden)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.OutOrStdout(), path)
		return nil
	},
}

type frontMatter struct {
	Title  string `toml:"title"`
	Date   string `toml:"date"`
	Hidden bool   `toml:"hidden"`
}

// titleFromSlug turns "my-first_post" into "My First Post".
func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// newPostContent renders the front matter and a starter body.
func newPostContent(title, date string, hidden bool) ([]byte, error) {
	meta, err := toml.Marshal(frontMatter{Title: title, Date: date, Hidden: hidden})
	if err != nil {
		return nil, errors.Wrap(err, "encoding front matter")
	}
	var b strings.Builder
	b.WriteString("+++\n")
	b.Write(meta)
	b.WriteString("+++\n")
	fmt.Fprintf(&b, "# %s\n\n", title)
	return []byte(b.String()), nil
}

// createPost writes a new post into dir and returns its path. Existing files
// are never overwritten.
func createPost(dir, slug, title, date string, hidden bool) (string, error) {
	slug = strings.TrimSuffix(slug, ".md")
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.HasPrefix(slug, ".") {
		return "", errors.Newf("invalid slug %q", slug)
	}
	if _, err := time.Parse(post.DateLayout, date); err != nil {
		return "", errors.Newf("invalid date %q, want YYYY-MM-DD", date)
	}
	if title == "" {
		title = titleFromSlug(slug)
	}
	content, err := newPostContent(title, date, hidden)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %q", dir)
	}
	path := filepath.Join(dir, slug+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "creating post")
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return "", errors.Wrapf(err, "writing %q", path)
	}
	if err := f.Close(); err != nil {
		return "", errors.Wrapf(err, "writing %q", path)
	}
	return path, nil
}
