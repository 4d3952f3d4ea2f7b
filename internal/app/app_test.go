package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancientlore/inkwell/internal/config"
	"github.com/ancientlore/inkwell/internal/logging"
	"github.com/ancientlore/inkwell/markdown"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Defaults()
	cfg.PostsDir = filepath.Join(root, "posts")
	cfg.StaticDir = filepath.Join(root, "static")
	cfg.Site.Title = "App Test"

	writeFile(t, filepath.Join(cfg.PostsDir, "hello_world.md"),
		"+++\ntitle = \"Hello World\"\ndate = \"2024-03-01\"\n+++\n# Greetings\n\n{{{note\nWelcome.\n}}}\n")
	writeFile(t, filepath.Join(cfg.PostsDir, "older.md"),
		"+++\ntitle = \"Older\"\ndate = \"2023-01-01\"\n+++\nOld news.\n")
	writeFile(t, filepath.Join(cfg.PostsDir, "README.txt"), "not a post")
	writeFile(t, filepath.Join(cfg.StaticDir, "style.css"), "body{}")
	return &cfg
}

func TestNewConverter(t *testing.T) {
	c, err := NewConverter(config.Markdown{Engine: "blackfriday"})
	require.NoError(t, err)
	assert.Equal(t, markdown.Blackfriday, c.Engine().Name())

	_, err = NewConverter(config.Markdown{Engine: "nope"})
	assert.Error(t, err)
}

func TestNewAndLoad(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg, "test", logging.ForTest(t))
	require.NoError(t, err)
	assert.Nil(t, a.Hub)

	a.Load(context.Background())
	snap := a.Store.Snapshot()
	require.Len(t, snap.Posts, 2)
	assert.Equal(t, "hello-world", snap.Posts[0].Slug)
	assert.Contains(t, snap.Posts[0].Body, `<div class="callout note-callout">`)
}

func TestLoadMissingPostsDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.PostsDir = filepath.Join(t.TempDir(), "missing")
	a, err := New(cfg, "test", logging.ForTest(t))
	require.NoError(t, err)
	a.Load(context.Background())
	assert.Equal(t, 0, a.Store.Len())
}

func TestLiveReloadWiring(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reload.Live = true
	a, err := New(cfg, "test", logging.ForTest(t))
	require.NoError(t, err)
	require.NotNil(t, a.Hub)
	require.NotNil(t, a.Reloader.OnReload)
}

func TestServe(t *testing.T) {
	cfg := testConfig(t)
	cfg.Reload.Watch = true
	a, err := New(cfg, "9.9.9", logging.ForTest(t))
	require.NoError(t, err)
	a.Load(context.Background())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, ln) }()

	get := func(path string) (*http.Response, string) {
		t.Helper()
		resp, err := http.Get(base + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, string(b)
	}

	resp, body := get("/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/hello-world", resp.Request.URL.Path)
	assert.Contains(t, body, `<h1 id="greetings"><a href="#greetings">Greetings</a></h1>`)
	assert.Equal(t, "max-age=31536000; includeSubDomains", resp.Header.Get("Strict-Transport-Security"))

	resp, body = get("/static/style.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "body{}", body)

	_, body = get("/version")
	assert.JSONEq(t, `{"version":"9.9.9"}`, body)

	_, body = get("/rss")
	assert.Contains(t, body, "<title>Hello World</title>")

	_, body = get("/reload")
	assert.Equal(t, "Posts reloaded.", body)
	_, body = get("/reload")
	assert.Equal(t, "Reload throttled.", body)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
