package feed

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	"github.com/mmcdole/gofeed/rss"
)

// ErrUnsupported returned for xml documents which are neither rss 2.0 nor atom
var ErrUnsupported = errors.New("unsupported rss")

// ParseError reports a structural problem with the document
type ParseError struct {
	Msg string
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrUnsupported) {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// subjectSplitRe splits dc:subject on ascii and fullwidth commas
var subjectSplitRe = regexp.MustCompile(`[，,]`)

// dialect maps one xml feed flavor into RSSFeed fields. F is the feed type, I is the item type.
type dialect[F, I any] interface {
	items(feed F) []I
	feedTitle(feed F) (string, error)
	feedDesc(feed F) string
	feedLink(feed F) string
	feedDocs(feed F) string
	feedImage(feed F) string
	itemTitle(item I) (string, error)
	itemDesc(item I) string
	itemLink(item I) string
	itemPublished(item I) *time.Time
	itemCategory(item I) []string
	itemImage(item I) string
	itemMedia(item I) string
	itemContent(item I) string
}

// Parse detects feed dialect and converts raw xml into RSSFeed
func Parse(raw []byte) (*RSSFeed, error) {
	switch gofeed.DetectFeedType(bytes.NewReader(raw)) {
	case gofeed.FeedTypeRSS:
		doc, err := (&rss.Parser{}).Parse(bytes.NewReader(raw))
		if err != nil {
			return nil, &ParseError{Msg: "malformed rss", Err: err}
		}
		if strings.TrimSpace(doc.Version) != "2.0" {
			return nil, &ParseError{Msg: "unsupported rss", Err: ErrUnsupported}
		}
		return build[*rss.Feed, *rss.Item](rss2Dialect{now: time.Now}, doc)
	case gofeed.FeedTypeAtom:
		doc, err := (&atom.Parser{}).Parse(bytes.NewReader(raw))
		if err != nil {
			return nil, &ParseError{Msg: "malformed atom", Err: err}
		}
		return build[*atom.Feed, *atom.Entry](atomDialect{rss2: rss2Dialect{now: time.Now}}, doc)
	default:
		return nil, &ParseError{Msg: "unsupported rss", Err: ErrUnsupported}
	}
}

// build walks the feed in fixed order: feed fields first, then every item
func build[F, I any](d dialect[F, I], doc F) (*RSSFeed, error) {
	title, err := d.feedTitle(doc)
	if err != nil {
		return nil, err
	}

	res := &RSSFeed{
		Title:       title,
		Description: d.feedDesc(doc),
		Link:        d.feedLink(doc),
		Docs:        d.feedDocs(doc),
		Image:       d.feedImage(doc),
	}

	items := d.items(doc)
	res.Items = make([]RSSItem, 0, len(items))
	for _, it := range items {
		itemTitle, err := d.itemTitle(it)
		if err != nil {
			return nil, err
		}
		res.Items = append(res.Items, RSSItem{
			Title:       itemTitle,
			Description: d.itemDesc(it),
			Link:        d.itemLink(it),
			Published:   d.itemPublished(it),
			Category:    d.itemCategory(it),
			Image:       d.itemImage(it),
			Media:       d.itemMedia(it),
			Content:     d.itemContent(it),
		})
	}
	return res, nil
}
