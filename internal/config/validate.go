package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ancientlore/inkwell/markdown"
)

// ErrInvalidConfig marks every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate reports all problems with c in one error matching
// ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Addr == "" {
		add("addr must not be empty")
	}
	if c.PostsDir == "" {
		add("posts_dir must not be empty")
	}
	if strings.ContainsRune(c.PostsDir+c.StaticDir+c.TemplatesDir, '\x00') {
		add("directory names must not contain NUL")
	}
	if _, err := markdown.NewEngine(c.Markdown.Engine); err != nil {
		add("markdown.engine: unknown engine %q", c.Markdown.Engine)
	}
	if u, err := url.Parse(c.Site.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("site.url must be an absolute http or https URL, got %q", c.Site.URL)
	}
	if c.Reload.Throttle < 0 {
		add("reload.throttle must not be negative")
	}
	if c.Feed.Items < 1 {
		add("feed.items must be at least 1")
	}
	if c.Cache.SizeBytes <= 0 {
		add("cache.size_bytes must be positive")
	}
	if c.Cache.Expires < 0 || c.Cache.StaticExpires < 0 {
		add("cache expiry must not be negative")
	}

	if len(problems) == 0 {
		return nil
	}
	return errors.Mark(errors.Newf("%s", strings.Join(problems, "; ")), ErrInvalidConfig)
}

// SiteURL returns the site URL without a trailing slash.
func (c *Config) SiteURL() string {
	return strings.TrimRight(c.Site.URL, "/")
}
