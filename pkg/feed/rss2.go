package feed

import (
	"strings"
	"time"

	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/mmcdole/gofeed/rss"
)

// rss2Dialect maps rss 2.0 channel and items
type rss2Dialect struct {
	now func() time.Time
}

func (d rss2Dialect) items(feed *rss.Feed) []*rss.Item { return feed.Items }

func (d rss2Dialect) feedTitle(feed *rss.Feed) (string, error) {
	if strings.TrimSpace(feed.Title) == "" {
		return "", &ParseError{Msg: "required feed title not found"}
	}
	return feed.Title, nil
}

func (d rss2Dialect) feedDesc(feed *rss.Feed) string { return feed.Description }

func (d rss2Dialect) feedLink(feed *rss.Feed) string { return feed.Link }

func (d rss2Dialect) feedDocs(feed *rss.Feed) string { return feed.Docs }

// feedImage prefers image url, then image link, then itunes:image
func (d rss2Dialect) feedImage(feed *rss.Feed) string {
	if feed.Image != nil {
		if feed.Image.URL != "" {
			return feed.Image.URL
		}
		if feed.Image.Link != "" {
			return feed.Image.Link
		}
	}
	if feed.ITunesExt != nil && feed.ITunesExt.Image != "" {
		return feed.ITunesExt.Image
	}
	return ""
}

func (d rss2Dialect) itemTitle(item *rss.Item) (string, error) {
	if strings.TrimSpace(item.Title) == "" {
		return "", &ParseError{Msg: "required item title not found"}
	}
	return item.Title, nil
}

func (d rss2Dialect) itemDesc(item *rss.Item) string { return item.Description }

func (d rss2Dialect) itemLink(item *rss.Item) string { return item.Link }

// itemPublished falls back to current time for missing or unparsable pubDate
func (d rss2Dialect) itemPublished(item *rss.Item) *time.Time {
	if item.PubDateParsed != nil {
		ts := *item.PubDateParsed
		return &ts
	}
	ts := d.now()
	return &ts
}

func (d rss2Dialect) itemCategory(item *rss.Item) []string {
	if len(item.Categories) > 0 {
		res := make([]string, 0, len(item.Categories))
		for _, c := range item.Categories {
			if c != nil && c.Value != "" {
				res = append(res, c.Value)
			}
		}
		if len(res) > 0 {
			return res
		}
	}
	return d.subjects(item.Extensions)
}

func (d rss2Dialect) itemImage(item *rss.Item) string {
	if item.Enclosure != nil && strings.HasPrefix(item.Enclosure.Type, "image") {
		return item.Enclosure.URL
	}
	return d.mediaImage(item.Extensions)
}

func (d rss2Dialect) itemMedia(item *rss.Item) string { return d.mediaURL(item.Extensions) }

func (d rss2Dialect) itemContent(item *rss.Item) string {
	if item.Content != "" {
		return item.Content
	}
	if enc := item.Extensions["content"]["encoded"]; len(enc) > 0 {
		return enc[0].Value
	}
	return ""
}

// subjects splits dc:subject value into categories
func (d rss2Dialect) subjects(exts ext.Extensions) []string {
	vals := exts["dc"]["subject"]
	if len(vals) == 0 || vals[0].Value == "" {
		return nil
	}
	return subjectSplitRe.Split(vals[0].Value, -1)
}

// mediaImage returns url of media:group/media:content or media:content with image mime type
func (d rss2Dialect) mediaImage(exts ext.Extensions) string {
	var candidates []ext.Extension
	if groups := exts["media"]["group"]; len(groups) > 0 {
		candidates = append(candidates, groups[0].Children["content"]...)
	}
	candidates = append(candidates, exts["media"]["content"]...)
	for _, c := range candidates {
		if strings.HasPrefix(c.Attrs["type"], "image") && c.Attrs["url"] != "" {
			return c.Attrs["url"]
		}
	}
	return ""
}

// mediaURL returns url of the first media:content element
func (d rss2Dialect) mediaURL(exts ext.Extensions) string {
	for _, c := range exts["media"]["content"] {
		if c.Attrs["url"] != "" {
			return c.Attrs["url"]
		}
	}
	return ""
}
