package post

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"slices"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"
)

// Result records what happened to one file of the posts directory.
type Result struct {
	Name string // file name within the directory
	Post Post   // valid only when Err is nil
	Err  error  // reason the file was skipped
}

// Loader reads every post in a single directory of a file system.
type Loader struct {
	FS       fs.FS        // file system holding the posts
	Dir      string       // directory within FS, "." for the root
	Renderer Renderer     // Markdown to HTML conversion
	Logger   *slog.Logger // defaults to slog.Default()
	Workers  int          // parallel parses, defaults to GOMAXPROCS
}

// Scan parses each directory entry independently and returns one Result per
// entry, in directory order. A failure to read the directory itself or a
// context that ends before every file was parsed is returned as an error.
func (l *Loader) Scan(ctx context.Context) ([]Result, error) {
	dir := l.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(l.FS, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading posts directory %q", dir)
	}

	results := make([]Result, len(entries))
	var g errgroup.Group
	workers := l.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)
	for i, entry := range entries {
		results[i].Name = entry.Name()
		if entry.IsDir() {
			results[i].Err = ErrNotPost
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Post, results[i].Err = l.parseFile(path.Join(dir, entry.Name()), entry.Name())
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "scanning posts directory %q", dir)
	}
	return results, nil
}

// Load scans the directory and returns the successfully parsed posts, newest
// first. Skipped files are logged at debug level.
func (l *Loader) Load(ctx context.Context) ([]Post, error) {
	results, err := l.Scan(ctx)
	if err != nil {
		return nil, err
	}
	logger := l.logger()
	posts := make([]Post, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			logger.Debug("skipping file", "file", r.Name, "reason", r.Err)
			continue
		}
		posts = append(posts, r.Post)
	}
	Sort(posts)
	for _, slug := range Duplicates(posts) {
		logger.Warn("duplicate slug, the newest post wins", "slug", slug)
	}
	logger.Debug("loaded posts", "dir", l.Dir, "files", len(results), "posts", len(posts))
	return posts, nil
}

func (l *Loader) parseFile(name, filename string) (Post, error) {
	b, err := fs.ReadFile(l.FS, name)
	if err != nil {
		return Post{}, errors.Mark(errors.Wrapf(err, "reading %q", name), ErrUnreadable)
	}
	return Parse(filename, b, l.Renderer)
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

// Sort orders posts by date, newest first. Posts with the same date keep
// their relative order.
func Sort(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.Date.Compare(a.Date)
	})
}

// Duplicates returns the slugs used by more than one post.
func Duplicates(posts []Post) []string {
	seen := make(map[string]int, len(posts))
	var dups []string
	for _, p := range posts {
		seen[p.Slug]++
		if seen[p.Slug] == 2 {
			dups = append(dups, p.Slug)
		}
	}
	return dups
}
