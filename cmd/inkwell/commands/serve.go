package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ancientlore/inkwell/cmd"
	"github.com/ancientlore/inkwell/internal/app"
)

func init() {
	f := serveCmd.Flags()
	f.String("addr", "", "address to listen on (default :8080)")
	f.String("static-dir", "", "directory of static assets")
	f.String("templates-dir", "", "directory with a post.html template override")
	f.Bool("watch", false, "reload posts when files change")
	f.Bool("live", false, "refresh open pages after a reload")
	for flag, key := range map[string]string{
		"addr":          "addr",
		"static-dir":    "static_dir",
		"templates-dir": "templates_dir",
		"watch":         "reload.watch",
		"live":          "reload.live",
	} {
		_ = settings.BindPFlag(key, f.Lookup(flag))
	}
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the blog over HTTP",
	Long: `Load every post from the posts directory and serve the blog until
interrupted. SIGINT and SIGTERM shut the server down gracefully.`,
	Args: cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(appConfig, cmd.Version, logger)
		if err != nil {
			return err
		}
		a.Load(ctx)
		return a.Run(ctx)
	},
}
