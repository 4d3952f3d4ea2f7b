package post

import "github.com/cockroachdb/errors"

// Reasons a file in the posts directory does not become a post.
var (
	// ErrNotPost means the file does not start with a "+++" line.
	ErrNotPost = errors.New("not a post")

	// ErrBadFrontMatter means the front matter is not valid TOML.
	ErrBadFrontMatter = errors.New("bad front matter")

	// ErrUnreadable means the file could not be read.
	ErrUnreadable = errors.New("unreadable file")
)
