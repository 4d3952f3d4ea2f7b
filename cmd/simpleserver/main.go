// Command simpleserver serves a posts folder with flags and environment
// variables only. Use the inkwell command for config files and tooling.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/facebookgo/flagenv"

	"github.com/ancientlore/inkwell/cmd"
	"github.com/ancientlore/inkwell/internal/app"
	"github.com/ancientlore/inkwell/internal/config"
	"github.com/ancientlore/inkwell/internal/logging"
)

func main() {
	cfg := config.Defaults()

	flag.StringVar(&cfg.PostsDir, "folder", cfg.PostsDir, "Folder holding the posts.")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Folder holding static files.")
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "Server address.")
	flag.StringVar(&cfg.Site.Title, "title", cfg.Site.Title, "Site title.")
	flag.StringVar(&cfg.Site.URL, "url", cfg.Site.URL, "Public site URL used in the RSS feed.")
	flag.DurationVar(&cfg.Reload.Throttle, "throttle", cfg.Reload.Throttle, "Minimum time between reloads.")
	flag.BoolVar(&cfg.Reload.Watch, "watch", cfg.Reload.Watch, "Reload when the posts folder changes.")
	flag.DurationVar(&cfg.Server.ReadTimeout, "readtimeout", cfg.Server.ReadTimeout, "HTTP server read timeout.")
	flag.DurationVar(&cfg.Server.ReadHeaderTimeout, "readheadertimeout", cfg.Server.ReadHeaderTimeout, "HTTP server read header timeout.")
	flag.DurationVar(&cfg.Server.WriteTimeout, "writetimeout", cfg.Server.WriteTimeout, "HTTP server write timeout.")
	verbose := flag.Bool("verbose", false, "Log debug messages.")

	flag.Parse()
	flagenv.Prefix = config.EnvPrefix + "_"
	flagenv.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(logging.Config{Level: level, Output: os.Stderr})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(2)
	}

	a, err := app.New(&cfg, cmd.Version, logger)
	if err != nil {
		logger.Error("cannot create server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Load(ctx)
	if err := a.Run(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
