package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inkwell.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestInit(t *testing.T) {
	v := viper.New()
	Init(v)

	assert.Equal(t, ":8080", v.GetString("addr"))
	assert.Equal(t, 10*time.Second, v.GetDuration("reload.throttle"))
	assert.Equal(t, 10, v.GetInt("feed.items"))
	assert.Equal(t, "goldmark", v.GetString("markdown.engine"))
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	d := Defaults()
	assert.Equal(t, d.Addr, cfg.Addr)
	assert.Equal(t, d.PostsDir, cfg.PostsDir)
	assert.Equal(t, d.Reload.Throttle, cfg.Reload.Throttle)
	assert.Equal(t, d.Server.WriteTimeout, cfg.Server.WriteTimeout)
	assert.Equal(t, "max-age=31536000; includeSubDomains", cfg.Headers["strict-transport-security"])
}

func TestLoad_WithConfigFile(t *testing.T) {
	path := writeConfig(t, `
addr = ":9000"
posts_dir = "articles"

[site]
title = "Notes"
url = "https://notes.example.com/"

[markdown]
engine = "blackfriday"
sanitize = true

[reload]
throttle = "3s"
watch = true

[feed]
items = 20

[headers]
"X-Frame-Options" = "DENY"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "articles", cfg.PostsDir)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, "Notes", cfg.Site.Title)
	assert.Equal(t, "https://notes.example.com", cfg.SiteURL())
	assert.Equal(t, "blackfriday", cfg.Markdown.Engine)
	assert.True(t, cfg.Markdown.Sanitize)
	assert.Equal(t, 3*time.Second, cfg.Reload.Throttle)
	assert.True(t, cfg.Reload.Watch)
	assert.False(t, cfg.Reload.Live)
	assert.Equal(t, 20, cfg.Feed.Items)
	assert.Equal(t, "DENY", cfg.Headers["x-frame-options"])
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfig(t, "[feed]\nitems = 20\n")
	t.Setenv("INKWELL_FEED_ITEMS", "5")
	t.Setenv("INKWELL_RELOAD_THROTTLE", "1m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Feed.Items)
	assert.Equal(t, time.Minute, cfg.Reload.Throttle)
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "addr = \n"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "[feed]\nitems = 0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
	assert.Contains(t, err.Error(), "feed.items")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"empty posts dir", func(c *Config) { c.PostsDir = "" }, "posts_dir"},
		{"unknown engine", func(c *Config) { c.Markdown.Engine = "pandoc" }, "markdown.engine"},
		{"relative site url", func(c *Config) { c.Site.URL = "/blog" }, "site.url"},
		{"ftp site url", func(c *Config) { c.Site.URL = "ftp://example.com" }, "site.url"},
		{"negative throttle", func(c *Config) { c.Reload.Throttle = -time.Second }, "reload.throttle"},
		{"zero throttle allowed", func(c *Config) { c.Reload.Throttle = 0 }, ""},
		{"no feed items", func(c *Config) { c.Feed.Items = 0 }, "feed.items"},
		{"no cache", func(c *Config) { c.Cache.SizeBytes = 0 }, "cache.size_bytes"},
		{"negative expiry", func(c *Config) { c.Cache.StaticExpires = -1 }, "expiry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
