// Package feed renders the RSS 2.0 feed of a blog.
package feed

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ancientlore/inkwell/post"
)

// DefaultItems is the number of posts in a feed.
const DefaultItems = 10

// PubDateLayout formats item dates. Post dates carry no time of day.
const PubDateLayout = "Mon, 02 Jan 2006 00:00:00 GMT"

// ContentType is served with the feed.
const ContentType = "application/rss+xml; charset=utf-8"

// Channel describes the site publishing the feed.
type Channel struct {
	Title       string
	Link        string // site URL, no trailing slash needed
	Description string
	Language    string
	Items       int // posts per feed, DefaultItems when zero
}

func (c Channel) base() string {
	return strings.TrimRight(c.Link, "/")
}

type rss struct {
	XMLName   xml.Name   `xml:"rss"`
	Version   string     `xml:"version,attr"`
	ContentNS string     `xml:"xmlns:content,attr"`
	AtomNS    string     `xml:"xmlns:atom,attr"`
	Channel   rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language,omitempty"`
	AtomLink    atomLink  `xml:"atom:link"`
	Items       []rssItem `xml:"item"`
}

type atomLink struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
	Content     cdata  `xml:"content:encoded"`
}

type cdata struct {
	Text string `xml:",cdata"`
}

// Render writes the feed for the newest visible posts. posts must be sorted
// newest first; hidden posts are skipped before the item limit applies.
func Render(ch Channel, posts []post.Post) ([]byte, error) {
	limit := ch.Items
	if limit <= 0 {
		limit = DefaultItems
	}
	base := ch.base()
	doc := rss{
		Version:   "2.0",
		ContentNS: "http://purl.org/rss/1.0/modules/content/",
		AtomNS:    "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:       ch.Title,
			Link:        base + "/",
			Description: ch.Description,
			Language:    ch.Language,
			AtomLink: atomLink{
				Rel:  "self",
				Href: base + "/rss",
				Type: "application/rss+xml",
			},
		},
	}
	if doc.Channel.Description == "" {
		doc.Channel.Description = ch.Title
	}
	for _, p := range posts {
		if len(doc.Channel.Items) == limit {
			break
		}
		if p.Hidden {
			continue
		}
		link := base + "/" + p.Slug
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        link,
			Description: p.Title,
			PubDate:     p.Date.UTC().Format(PubDateLayout),
			GUID:        link,
			Content:     cdata{Text: p.Body},
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encoding feed")
	}
	return buf.Bytes(), nil
}
