// Package store keeps the in-memory post collection that the site serves
// and rebuilds it on demand.
package store

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/ancientlore/inkwell/post"
)

// Loader produces a fresh, sorted post collection.
type Loader interface {
	Load(ctx context.Context) ([]post.Post, error)
}

// Snapshot is a copy of the collection at one generation.
type Snapshot struct {
	Posts      []post.Post
	Generation uint64
}

// Store is safe for concurrent use. Readers always receive copies.
type Store struct {
	mu         sync.RWMutex
	posts      []post.Post
	generation uint64

	loader Loader
	logger *slog.Logger
}

// New creates an empty Store that rebuilds itself from loader.
func New(loader Loader, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{loader: loader, logger: logger}
}

// Load rebuilds the collection. The write lock is held for the whole
// rebuild, so readers never see a partial collection. On failure the
// previous collection is kept.
func (s *Store) Load(ctx context.Context) error {
	if s.loader == nil {
		return errors.New("store has no loader")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts, err := s.loader.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "loading posts")
	}
	s.replace(posts)
	s.logger.Info("posts loaded", "posts", len(posts), "generation", s.generation)
	return nil
}

// Replace swaps in posts, which must already be sorted newest first.
func (s *Store) Replace(posts []post.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(posts)
}

func (s *Store) replace(posts []post.Post) {
	s.posts = slices.Clone(posts)
	s.generation++
}

// Snapshot returns a copy of every post, hidden ones included.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Posts: slices.Clone(s.posts), Generation: s.generation}
}

// Generation is bumped by every successful Load or Replace.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Len returns the number of posts, hidden ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// Lookup returns the first post with the given slug. Since posts are sorted
// newest first, the newest of several posts sharing a slug wins.
func (s *Store) Lookup(slug string) (post.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == slug {
			return p, true
		}
	}
	return post.Post{}, false
}

// Latest returns the newest visible post, or the newest post when all are
// hidden. ok is false when the store is empty.
func (s *Store) Latest() (p post.Post, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if !p.Hidden {
			return p, true
		}
	}
	if len(s.posts) > 0 {
		return s.posts[0], true
	}
	return post.Post{}, false
}

// Visible returns the posts that are not hidden, newest first.
func (s *Store) Visible() []post.Post {
	return Visible(s.Snapshot().Posts)
}

// Visible filters hidden posts out of posts.
func Visible(posts []post.Post) []post.Post {
	r := make([]post.Post, 0, len(posts))
	for _, p := range posts {
		if !p.Hidden {
			r = append(r, p)
		}
	}
	return r
}
