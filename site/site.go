// Package site serves a blog over HTTP: post pages, the home redirect,
// static assets, the RSS feed and the reload endpoint.
package site

import (
	"bytes"
	"context"
	"encoding/json"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/NYTimes/gziphandler"

	"github.com/ancientlore/inkwell/feed"
	"github.com/ancientlore/inkwell/post"
	"github.com/ancientlore/inkwell/store"
	"github.com/ancientlore/inkwell/web"
)

// Response bodies of the reload endpoint.
const (
	ReloadedText  = "Posts reloaded."
	ThrottledText = "Reload throttled."
	FailedText    = "Reload failed."
)

var (
	notFoundPost = post.Post{
		Slug:         "404",
		Title:        "Not Found",
		Date:         post.Epoch,
		FriendlyDate: "404",
		Body:         "<p>The requested post does not exist.</p>",
		Hidden:       true,
	}
	noPostsPost = post.Post{
		Slug:         "404",
		Title:        "No posts yet",
		Date:         post.Epoch,
		FriendlyDate: "404",
		Body:         "<p>There is nothing to read here yet.</p>",
		Hidden:       true,
	}
)

// Options holds the parts a Server is built from. Store and Reloader are
// required.
type Options struct {
	Store     *store.Store
	Reloader  *store.Reloader
	Feed      *feed.Cache        // nil disables /rss
	Static    fs.FS              // nil disables /static/
	Templates *template.Template // nil uses DefaultTemplates
	Hub       *Hub               // nil disables /ws
	Info      Info
	Version   string

	Headers       map[string]string
	Expires       time.Duration
	StaticExpires time.Duration

	Logger *slog.Logger
}

// Server holds the HTTP handlers of the site.
type Server struct {
	opts    Options
	tmpl    *template.Template
	logger  *slog.Logger
	handler http.Handler
}

// New builds the handler graph.
func New(opts Options) *Server {
	s := &Server{
		opts:   opts,
		tmpl:   opts.Templates,
		logger: opts.Logger,
	}
	if s.tmpl == nil {
		s.tmpl = DefaultTemplates()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.home)
	mux.HandleFunc("GET /{slug}", s.postPage)
	mux.HandleFunc("GET /version", s.version)
	mux.HandleFunc("GET /reload", s.reload)
	if opts.Feed != nil {
		mux.HandleFunc("GET /rss", s.rss)
	}
	if opts.Static != nil {
		mux.Handle("GET "+web.StaticPrefix, http.StripPrefix("/static", http.FileServer(http.FS(indexFS{opts.Static}))))
	}
	mux.HandleFunc("/", s.notFound)

	handler := web.HeaderHandler(
		web.ExpiresHandler(
			gziphandler.GzipHandler(
				web.ErrorHandler(mux, s),
			),
			opts.Expires,
			opts.StaticExpires,
		),
		opts.Headers)

	if opts.Hub != nil {
		// Websocket upgrades need the raw connection, which the gzip
		// writer cannot hand out.
		outer := http.NewServeMux()
		outer.Handle("GET /ws", opts.Hub)
		outer.Handle("/", handler)
		handler = outer
	}
	s.handler = handler
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ErrorPage renders the not-found page for 404 responses produced by
// handlers that do not write HTML, such as the static file server.
func (s *Server) ErrorPage(r *http.Request, status int) ([]byte, bool) {
	if status != http.StatusNotFound {
		return nil, false
	}
	b, err := s.renderPage(notFoundPost)
	if err != nil {
		s.logger.Error("rendering not found page", "err", err)
		return nil, false
	}
	return b, true
}

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	p, ok := s.opts.Store.Latest()
	if !ok {
		s.writePage(w, http.StatusNotFound, noPostsPost)
		return
	}
	http.Redirect(w, r, "/"+url.PathEscape(p.Slug), http.StatusSeeOther)
}

func (s *Server) postPage(w http.ResponseWriter, r *http.Request) {
	p, ok := s.opts.Store.Lookup(r.PathValue("slug"))
	if !ok {
		s.notFound(w, r)
		return
	}
	s.writePage(w, http.StatusOK, p)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("not found", "path", r.URL.Path)
	s.writePage(w, http.StatusNotFound, notFoundPost)
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Version string `json:"version"`
	}{s.opts.Version})
}

func (s *Server) rss(w http.ResponseWriter, r *http.Request) {
	b, err := s.opts.Feed.Get(r.Context())
	if err != nil {
		s.logger.Error("building feed", "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", feed.ContentType)
	_, _ = w.Write(b)
}

func (s *Server) reload(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	outcome, err := s.opts.Reloader.Reload(context.WithoutCancel(r.Context()))
	switch {
	case err != nil:
		s.logger.Error("reload failed", "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(FailedText))
	case outcome == store.Throttled:
		s.logger.Debug("reload throttled", "next", s.opts.Reloader.Next())
		_, _ = w.Write([]byte(ThrottledText))
	default:
		_, _ = w.Write([]byte(ReloadedText))
	}
}

func (s *Server) writePage(w http.ResponseWriter, status int, p post.Post) {
	b, err := s.renderPage(p)
	if err != nil {
		s.logger.Error("rendering page", "slug", p.Slug, "err", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (s *Server) renderPage(p post.Post) ([]byte, error) {
	page := Page{
		Site:       s.opts.Info,
		Post:       p,
		Body:       template.HTML(p.Body),
		Posts:      s.opts.Store.Visible(),
		LiveReload: s.opts.Hub != nil,
		Version:    s.opts.Version,
	}
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, PostTemplate, page); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
