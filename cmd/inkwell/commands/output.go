package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/ancientlore/inkwell/post"
)

// Output formats of posts list.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

func writePosts(w io.Writer, posts []post.Post, format string) error {
	switch format {
	case FormatTable, "":
		if len(posts) == 0 {
			fmt.Fprintln(w, "No posts found.")
			return nil
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "DATE\tSLUG\tTITLE\tREAD\tHIDDEN")
		for _, p := range posts {
			hidden := ""
			if p.Hidden {
				hidden = "yes"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d min\t%s\n",
				p.Date.Format(post.DateLayout), p.Slug, p.Title, p.ReadTime, hidden)
		}
		return tw.Flush()
	case FormatJSON:
		data, err := json.MarshalIndent(posts, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding posts")
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(posts); err != nil {
			return errors.Wrap(err, "encoding posts")
		}
		return enc.Close()
	}
	return errors.Newf("unknown format %q (want table, json or yaml)", format)
}

func describePost(p post.Post) string {
	hidden := "no"
	if p.Hidden {
		hidden = "yes"
	}
	return fmt.Sprintf("Title:  %s\nSlug:   %s\nDate:   %s\nRead:   %d min\nHidden: %s",
		p.Title, p.Slug, p.FriendlyDate, p.ReadTime, hidden)
}
