package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/ancientlore/inkwell/internal/app"
	"github.com/ancientlore/inkwell/post"
	"github.com/ancientlore/inkwell/store"
)

var (
	listAll    bool
	listFormat string
)

func init() {
	postsListCmd.Flags().BoolVar(&listAll, "all", false, "include hidden posts")
	postsListCmd.Flags().StringVarP(&listFormat, "format", "o", FormatTable, "output format: table, json, yaml")
	postsCmd.AddCommand(postsListCmd, postsPickCmd)
	rootCmd.AddCommand(postsCmd)
}

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Inspect the posts directory",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		posts, err := loadPosts(c)
		if err != nil {
			return err
		}
		if !listAll {
			posts = store.Visible(posts)
		}
		return writePosts(c.OutOrStdout(), posts, listFormat)
	},
}

var postsPickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Fuzzy-find a post and print its URL",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		posts, err := loadPosts(c)
		if err != nil {
			return err
		}
		if len(posts) == 0 {
			fmt.Fprintln(c.OutOrStdout(), "No posts found.")
			return nil
		}
		idx, err := fuzzyfinder.Find(
			posts,
			func(i int) string {
				return fmt.Sprintf("%s  %s", posts[i].Date.Format(post.DateLayout), posts[i].Title)
			},
			fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
				if i == -1 {
					return ""
				}
				return describePost(posts[i])
			}),
		)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil
			}
			return errors.Wrap(err, "picking post")
		}
		fmt.Fprintf(c.OutOrStdout(), "%s/%s\n", appConfig.SiteURL(), posts[idx].Slug)
		return nil
	},
}

func loadPosts(c *cobra.Command) ([]post.Post, error) {
	loader, err := app.NewLoader(appConfig, logger)
	if err != nil {
		return nil, err
	}
	return loader.Load(c.Context())
}
