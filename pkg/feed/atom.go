package feed

import (
	"strings"
	"time"

	"github.com/mmcdole/gofeed/atom"
)

// atomDialect overrides link, date, image and description rules of rss2Dialect
// and delegates dc:subject and media lookups to it
type atomDialect struct {
	rss2 rss2Dialect
}

func (d atomDialect) items(feed *atom.Feed) []*atom.Entry { return feed.Entries }

func (d atomDialect) feedTitle(feed *atom.Feed) (string, error) {
	if strings.TrimSpace(feed.Title) == "" {
		return "", &ParseError{Msg: "required feed title not found"}
	}
	return feed.Title, nil
}

func (d atomDialect) feedDesc(feed *atom.Feed) string { return feed.Subtitle }

// feedLink picks alternate link, otherwise the first one
func (d atomDialect) feedLink(feed *atom.Feed) string {
	for _, l := range feed.Links {
		if l != nil && (l.Rel == "" || l.Rel == "alternate") && l.Href != "" {
			return l.Href
		}
	}
	return d.firstHref(feed.Links)
}

func (d atomDialect) feedDocs(*atom.Feed) string { return "" }

func (d atomDialect) feedImage(feed *atom.Feed) string {
	if feed.Logo != "" {
		return feed.Logo
	}
	return d.rss2.mediaImage(feed.Extensions)
}

func (d atomDialect) itemTitle(entry *atom.Entry) (string, error) {
	if strings.TrimSpace(entry.Title) == "" {
		return "", &ParseError{Msg: "required item title not found"}
	}
	return entry.Title, nil
}

func (d atomDialect) itemDesc(entry *atom.Entry) string { return entry.Summary }

func (d atomDialect) itemLink(entry *atom.Entry) string { return d.firstHref(entry.Links) }

// itemPublished has no default, entries without published date stay undated
func (d atomDialect) itemPublished(entry *atom.Entry) *time.Time {
	if entry.PublishedParsed == nil {
		return nil
	}
	ts := *entry.PublishedParsed
	return &ts
}

func (d atomDialect) itemCategory(entry *atom.Entry) []string {
	return d.rss2.subjects(entry.Extensions)
}

// itemImage takes media:thumbnail first, then typed media or enclosure links
func (d atomDialect) itemImage(entry *atom.Entry) string {
	for _, th := range entry.Extensions["media"]["thumbnail"] {
		if th.Attrs["url"] != "" {
			return th.Attrs["url"]
		}
	}
	if img := d.rss2.mediaImage(entry.Extensions); img != "" {
		return img
	}
	for _, l := range entry.Links {
		if l != nil && l.Rel == "enclosure" && strings.HasPrefix(l.Type, "image") {
			return l.Href
		}
	}
	return ""
}

func (d atomDialect) itemMedia(entry *atom.Entry) string { return d.rss2.mediaURL(entry.Extensions) }

func (d atomDialect) itemContent(entry *atom.Entry) string {
	if entry.Content != nil {
		return entry.Content.Value
	}
	return ""
}

func (d atomDialect) firstHref(links []*atom.Link) string {
	for _, l := range links {
		if l != nil && l.Href != "" {
			return l.Href
		}
	}
	return ""
}
