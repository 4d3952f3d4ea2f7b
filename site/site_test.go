package site

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancientlore/inkwell/feed"
	"github.com/ancientlore/inkwell/internal/logging"
	"github.com/ancientlore/inkwell/post"
	"github.com/ancientlore/inkwell/store"
)

type stubLoader struct {
	posts []post.Post
	err   error
}

func (l *stubLoader) Load(ctx context.Context) ([]post.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return l.posts, l.err
}

func testPosts() []post.Post {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }
	mk := func(slug, title string, d int, hidden bool) post.Post {
		return post.Post{
			Slug:         slug,
			Title:        title,
			Date:         day(d),
			FriendlyDate: day(d).Format(post.FriendlyDateLayout),
			Body:         `<h1 id="` + slug + `"><a href="#` + slug + `">` + title + `</a></h1>`,
			ReadTime:     2,
			Hidden:       hidden,
		}
	}
	return []post.Post{
		mk("secret-plans", "Secret Plans", 3, true),
		mk("hello-world", "Hello World", 2, false),
		mk("first-post", "First Post", 1, false),
	}
}

type fixture struct {
	store    *store.Store
	loader   *stubLoader
	reloader *store.Reloader
	now      time.Time
	server   *Server
}

func newFixture(t *testing.T, posts []post.Post, mutate ...func(*Options)) *fixture {
	t.Helper()
	f := &fixture{loader: &stubLoader{posts: posts}, now: time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)}
	f.store = store.New(f.loader, logging.ForTest(t))
	require.NoError(t, f.store.Load(context.Background()))
	f.reloader = store.NewReloader(f.store, store.WithClock(func() time.Time { return f.now }))
	opts := Options{
		Store:    f.store,
		Reloader: f.reloader,
		Feed: feed.NewCache("", 1<<20, feed.Channel{
			Title: "Test Blog",
			Link:  "https://blog.example.com",
		}, f.store),
		Static: fstest.MapFS{
			"style.css":       {Data: []byte("body { color: black; }")},
			"docs/index.html": {Data: []byte("<p>docs</p>")},
			"images/cat.txt":  {Data: []byte("meow")},
		},
		Info:    Info{Title: "Test Blog", Language: "en-us"},
		Version: "1.2.3",
		Headers: map[string]string{"Strict-Transport-Security": "max-age=31536000; includeSubDomains"},
		Logger:  logging.ForTest(t),
	}
	for _, m := range mutate {
		m(&opts)
	}
	f.server = New(opts)
	return f
}

func (f *fixture) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHomeRedirectsToLatestVisible(t *testing.T) {
	f := newFixture(t, testPosts())
	rec := f.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/hello-world", rec.Header().Get("Location"))
}

func TestHomeAllHidden(t *testing.T) {
	posts := testPosts()
	for i := range posts {
		posts[i].Hidden = true
	}
	f := newFixture(t, posts)
	rec := f.get(t, "/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/secret-plans", rec.Header().Get("Location"))
}

func TestHomeEmptyStore(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No posts yet")
}

func TestPostPage(t *testing.T) {
	f := newFixture(t, testPosts())
	rec := f.get(t, "/hello-world")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()

	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "max-age=31536000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Contains(t, body, "<title>Hello World | Test Blog</title>")
	assert.Contains(t, body, `<h1 id="hello-world"><a href="#hello-world">Hello World</a></h1>`)
	assert.Contains(t, body, "March 02, 2024")
	assert.Contains(t, body, "2 min read")
	assert.Contains(t, body, `<a href="/first-post">First Post</a>`)
	assert.NotContains(t, body, `<a href="/secret-plans">`, "hidden posts are not listed")
	assert.NotContains(t, body, "new WebSocket")
}

func TestHiddenPostAddressable(t *testing.T) {
	f := newFixture(t, testPosts())
	rec := f.get(t, "/secret-plans")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Secret Plans")
}

func TestUnknownPaths(t *testing.T) {
	f := newFixture(t, testPosts())
	for _, path := range []string{"/nope", "/a/b/c", "/static/missing.css", "/static/images/"} {
		t.Run(path, func(t *testing.T) {
			rec := f.get(t, path)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "The requested post does not exist.")
			assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}

func TestStatic(t *testing.T) {
	f := newFixture(t, testPosts(), func(o *Options) {
		o.StaticExpires = time.Hour
	})
	rec := f.get(t, "/static/style.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body { color: black; }", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	assert.NotEmpty(t, rec.Header().Get("Expires"))

	rec = f.get(t, "/static/docs/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<p>docs</p>", rec.Body.String())
}

func TestVersion(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.get(t, "/version")
	require.Equal(t, http.StatusOK, rec.Code)
	var v struct{ Version string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "1.2.3", v.Version)
}

func TestRSS(t *testing.T) {
	f := newFixture(t, testPosts())
	rec := f.get(t, "/rss")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, feed.ContentType, rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<link>https://blog.example.com/hello-world</link>")
	assert.NotContains(t, body, "secret-plans")
}

func TestReload(t *testing.T) {
	f := newFixture(t, testPosts())

	rec := f.get(t, "/reload")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ReloadedText, rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	f.loader.posts = testPosts()[:1]
	rec = f.get(t, "/reload")
	assert.Equal(t, ThrottledText, rec.Body.String())
	assert.Equal(t, 3, f.store.Len())

	f.now = f.now.Add(store.DefaultThrottle)
	rec = f.get(t, "/reload")
	assert.Equal(t, ReloadedText, rec.Body.String())
	assert.Equal(t, 1, f.store.Len())
}

func TestReloadFailure(t *testing.T) {
	f := newFixture(t, testPosts())
	f.loader.err = errors.New("posts directory vanished")

	rec := f.get(t, "/reload")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, FailedText, rec.Body.String())
	assert.Equal(t, 3, f.store.Len())
}

func TestReloadOutlivesClient(t *testing.T) {
	f := newFixture(t, testPosts())
	f.loader.posts = testPosts()[:2]

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reload", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ReloadedText, rec.Body.String())
	assert.Equal(t, 2, f.store.Len())
}

func TestLiveReloadScript(t *testing.T) {
	f := newFixture(t, testPosts(), func(o *Options) {
		o.Hub = NewHub(logging.ForTest(t))
	})
	rec := f.get(t, "/hello-world")
	assert.Contains(t, rec.Body.String(), "new WebSocket")
}

func TestOtherMethodsNotFound(t *testing.T) {
	f := newFixture(t, testPosts())
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reload", strings.NewReader("")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 3, f.store.Len())
}

func TestGzip(t *testing.T) {
	posts := testPosts()
	posts[1].Body = "<p>" + strings.Repeat("compress me ", 500) + "</p>"
	f := newFixture(t, posts)

	req := httptest.NewRequest(http.MethodGet, "/hello-world", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}
