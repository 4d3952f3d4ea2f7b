// Package app assembles a runnable blog server from configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	cfs "github.com/ancientlore/cachefs"
	"github.com/cockroachdb/errors"
	"github.com/golang/groupcache"
	"golang.org/x/sync/errgroup"

	"github.com/ancientlore/inkwell/feed"
	"github.com/ancientlore/inkwell/internal/config"
	"github.com/ancientlore/inkwell/markdown"
	"github.com/ancientlore/inkwell/post"
	"github.com/ancientlore/inkwell/site"
	"github.com/ancientlore/inkwell/store"
)

// staticCacheDuration quantizes expiry of cached static files.
const staticCacheDuration = 10 * time.Second

var (
	peersOnce sync.Once
	groupSeq  atomic.Int64
)

// registerPeers sets up groupcache for a single process. groupcache only
// allows this once per process.
func registerPeers() {
	peersOnce.Do(func() {
		groupcache.RegisterPeerPicker(func() groupcache.PeerPicker { return groupcache.NoPeers{} })
	})
}

func groupName(kind string) string {
	return fmt.Sprintf("inkwell-%s-%d", kind, groupSeq.Add(1))
}

// App holds every component of a running blog.
type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Converter *markdown.Converter
	Loader    *post.Loader
	Store     *store.Store
	Reloader  *store.Reloader
	Feed      *feed.Cache
	Hub       *site.Hub // nil unless live reload is enabled
	Site      *site.Server
}

// NewConverter builds the Markdown converter the configuration asks for.
func NewConverter(m config.Markdown) (*markdown.Converter, error) {
	engine, err := markdown.NewEngine(m.Engine)
	if err != nil {
		return nil, err
	}
	opts := []markdown.Option{markdown.WithEngine(engine)}
	if m.Sanitize {
		opts = append(opts, markdown.WithSanitizer(markdown.SanitizePolicy()))
	}
	return markdown.New(opts...), nil
}

// NewLoader returns a post loader reading cfg.PostsDir.
func NewLoader(cfg *config.Config, logger *slog.Logger) (*post.Loader, error) {
	conv, err := NewConverter(cfg.Markdown)
	if err != nil {
		return nil, err
	}
	return newLoader(cfg, conv, logger), nil
}

func newLoader(cfg *config.Config, conv *markdown.Converter, logger *slog.Logger) *post.Loader {
	return &post.Loader{
		FS:       os.DirFS(cfg.PostsDir),
		Dir:      ".",
		Renderer: conv,
		Logger:   logger,
	}
}

// New wires the components. Posts are not loaded until Load is called.
func New(cfg *config.Config, version string, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	registerPeers()

	conv, err := NewConverter(cfg.Markdown)
	if err != nil {
		return nil, err
	}
	loader := newLoader(cfg, conv, logger)
	tmpl, err := site.LoadTemplates(cfg.TemplatesDir)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		Converter: conv,
		Loader:    loader,
	}
	a.Store = store.New(loader, logger)
	a.Reloader = store.NewReloader(a.Store, store.WithWindow(cfg.Reload.Throttle))
	a.Feed = feed.NewCache(groupName("feed"), cfg.Cache.SizeBytes, feed.Channel{
		Title:       cfg.Site.Title,
		Link:        cfg.SiteURL(),
		Description: cfg.Site.Description,
		Language:    cfg.Site.Language,
		Items:       cfg.Feed.Items,
	}, a.Store)

	if cfg.Reload.Live {
		a.Hub = site.NewHub(logger)
		a.Reloader.OnReload = func(store.Snapshot) {
			a.Hub.Broadcast(site.ReloadMessage)
		}
	}

	opts := site.Options{
		Store:     a.Store,
		Reloader:  a.Reloader,
		Feed:      a.Feed,
		Templates: tmpl,
		Hub:       a.Hub,
		Info: site.Info{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			Language:    cfg.Site.Language,
			URL:         cfg.SiteURL(),
		},
		Version:       version,
		Headers:       cfg.Headers,
		Expires:       cfg.Cache.Expires,
		StaticExpires: cfg.Cache.StaticExpires,
		Logger:        logger,
	}
	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		opts.Static = cfs.New(os.DirFS(cfg.StaticDir), &cfs.Config{
			GroupName:   groupName("static"),
			SizeInBytes: cfg.Cache.SizeBytes,
			Duration:    staticCacheDuration,
		})
	} else {
		logger.Warn("static directory not available, /static/ disabled", "dir", cfg.StaticDir)
	}
	a.Site = site.New(opts)
	return a, nil
}

// Load performs the initial load. A failure leaves the store empty and is
// logged rather than returned, so the site still answers requests.
func (a *App) Load(ctx context.Context) {
	if err := a.Store.Load(ctx); err != nil {
		a.Logger.Error("initial load failed, serving no posts", "err", err)
	}
}

// HTTPServer returns an http.Server for the site with the configured
// timeouts.
func (a *App) HTTPServer() *http.Server {
	s := a.Config.Server
	return &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Site,
		ReadTimeout:       s.ReadTimeout,
		ReadHeaderTimeout: s.ReadHeaderTimeout,
		WriteTimeout:      s.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(a.Logger.Handler(), slog.LevelWarn),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", a.Config.Addr)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. The
// directory watcher runs alongside when enabled.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := a.HTTPServer()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.Info("listening for requests", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if a.Hub != nil {
			a.Hub.Close()
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "http server shutdown")
		}
		return nil
	})
	if a.Config.Reload.Watch {
		w := &site.Watcher{
			Dirs:     []string{a.Config.PostsDir},
			Reloader: a.Reloader,
			Logger:   a.Logger,
		}
		g.Go(func() error {
			if err := w.Run(gctx); err != nil {
				a.Logger.Warn("file watcher stopped", "err", err)
			}
			return nil
		})
	}

	err := g.Wait()
	a.Logger.Info("goodbye")
	return err
}
