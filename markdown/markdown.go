// Package markdown renders post bodies to HTML.
//
// Rendering runs in three steps: an Engine converts Markdown to HTML and
// rewrites level one headings into self-linking anchors, an optional
// bluemonday policy sanitizes the result, and callout markers of the form
//
//	{{{note
//	Some text.
//	}}}
//
// are expanded into styled blocks.
package markdown

import (
	"github.com/cockroachdb/errors"
	"github.com/microcosm-cc/bluemonday"
)

// Engine names.
const (
	Goldmark    = "goldmark"
	Blackfriday = "blackfriday"
)

// ErrUnknownEngine is returned by NewEngine for unsupported engine names.
var ErrUnknownEngine = errors.New("unknown markdown engine")

// Engine converts Markdown to HTML.
type Engine interface {
	// Name returns the engine name.
	Name() string
	// Render converts src to HTML with anchored level one headings.
	Render(src []byte) ([]byte, error)
	// CountWords counts the words in the literal text of src.
	CountWords(src []byte) int
}

// NewEngine returns the engine with the given name.
func NewEngine(name string) (Engine, error) {
	switch name {
	case Goldmark, "":
		return NewGoldmark(), nil
	case Blackfriday:
		return NewBlackfriday(), nil
	}
	return nil, errors.Wrapf(ErrUnknownEngine, "%q", name)
}

// Converter runs the full rendering pipeline.
type Converter struct {
	engine Engine
	policy *bluemonday.Policy
}

// Option configures a Converter.
type Option func(*Converter)

// WithEngine selects the Markdown engine. The default is goldmark.
func WithEngine(e Engine) Option {
	return func(c *Converter) {
		c.engine = e
	}
}

// WithSanitizer enables HTML sanitizing before callouts are expanded.
func WithSanitizer(p *bluemonday.Policy) Option {
	return func(c *Converter) {
		c.policy = p
	}
}

// New returns a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = NewGoldmark()
	}
	return c
}

// Engine returns the engine in use.
func (c *Converter) Engine() Engine {
	return c.engine
}

// ToHTML renders a Markdown post body to its final HTML.
func (c *Converter) ToHTML(src []byte) (string, error) {
	b, err := c.engine.Render(src)
	if err != nil {
		return "", errors.Wrapf(err, "rendering markdown with %s", c.engine.Name())
	}
	if c.policy != nil {
		b = c.policy.SanitizeBytes(b)
	}
	return ExpandCallouts(string(b)), nil
}

// ReadTime estimates the reading time of a Markdown body in minutes.
func (c *Converter) ReadTime(src []byte) int {
	return ReadTime(c.engine.CountWords(src))
}
