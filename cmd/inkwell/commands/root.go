// Package commands implements the inkwell CLI.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ancientlore/inkwell/cmd"
	"github.com/ancientlore/inkwell/internal/config"
	"github.com/ancientlore/inkwell/internal/logging"
)

var (
	// configFile holds the value of the --config flag.
	configFile string
	// verbosity holds the count of -v flags.
	verbosity int
	quiet     bool
	logFormat string
	logFile   string

	// settings collects defaults, the config file, the environment and
	// bound flags.
	settings = viper.New()
	// appConfig is loaded before any subcommand runs.
	appConfig *config.Config
	logger    = logging.NewDiscard()
)

func init() {
	config.Init(settings)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: ./inkwell.toml or $XDG_CONFIG_HOME/inkwell/inkwell.toml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"only log errors")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to file in JSON format")
	rootCmd.PersistentFlags().String("posts-dir", "", "directory holding the posts")
	_ = settings.BindPFlag("posts_dir", rootCmd.PersistentFlags().Lookup("posts-dir"))

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("inkwell version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "A minimal Markdown blog server",
	Long: `inkwell serves a flat directory of Markdown posts with TOML front matter
as a blog, with an RSS feed, static assets and a throttled reload endpoint.`,
	Example: `  # Serve ./posts on :8080
  inkwell serve

  # Create a new post
  inkwell new my-first-post --title "My First Post"

  # List posts, hidden ones included
  inkwell posts list --all`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		cfg, err := config.LoadFrom(settings, configFile)
		if err != nil {
			return err
		}
		appConfig = cfg
		if used := settings.ConfigFileUsed(); used != "" {
			logger.Debug("loaded config file", "file", used)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupLogging configures the default logger from the verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.New("cannot use --quiet and --verbose together")
	}
	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.Newf("unknown log format %q", logFormat)
	}

	level := logging.LevelFromVerbosity(verbosity)
	if quiet {
		level = slog.LevelError
	}

	handlers := []slog.Handler{
		logging.NewFormatHandler(logging.Config{Level: level, Format: format, Output: cmd.ErrOrStderr()}),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.Wrap(err, "opening log file")
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
	}

	var handler slog.Handler = handlers[0]
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	}
	logger = slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}
