package source

import (
	"net/url"
	"strings"
	"time"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/feed"
	"github.com/umputun/pulsefeed/pkg/sanitize"
)

// Decoder converts raw publisher response into feed
type Decoder func(raw []byte, category domain.Category, url string) (*domain.Feed, error)

// Publisher is a static publisher description plus conversion strategy. It implements Adapter and RequestShaper.
type Publisher struct {
	Key     string // short stable name, used in config allow-lists
	Source  domain.Source
	Base    string
	Paths   map[domain.Category][]string
	Header  map[string]string // overrides of default request headers
	Params  url.Values
	Decoder Decoder
}

// BaseURL returns publisher base url
func (p Publisher) BaseURL() string { return p.Base }

// CategoryPaths returns category to path mapping
func (p Publisher) CategoryPaths() map[domain.Category][]string { return p.Paths }

// BuildSource returns static source
func (p Publisher) BuildSource() domain.Source { return p.Source }

// BuildFeed delegates to publisher decoder
func (p Publisher) BuildFeed(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
	return p.Decoder(raw, category, url)
}

// Headers returns request header overrides
func (p Publisher) Headers() map[string]string { return p.Header }

// Query returns extra query parameters
func (p Publisher) Query() url.Values { return p.Params }

// RSSHooks customize rss conversion, nil hooks use defaults
type RSSHooks struct {
	FeedLink  func(f *feed.RSSFeed, url string) string // default: link, then docs
	ItemImage func(item feed.RSSItem) string           // default: item image
	PlainText bool                                     // strip html markup from descriptions
}

// LinkFromDocs uses channel docs as feed link
func LinkFromDocs(f *feed.RSSFeed, _ string) string { return f.Docs }

// LinkFromURL uses request url as feed link
func LinkFromURL(_ *feed.RSSFeed, url string) string { return url }

// RSSDecoder makes Decoder for rss 2.0 and atom publishers
func RSSDecoder(hooks RSSHooks) Decoder {
	feedLink := hooks.FeedLink
	if feedLink == nil {
		feedLink = func(f *feed.RSSFeed, _ string) string {
			if f.Link != "" {
				return f.Link
			}
			return f.Docs
		}
	}
	itemImage := hooks.ItemImage
	if itemImage == nil {
		itemImage = func(item feed.RSSItem) string { return item.Image }
	}

	return func(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
		rf, err := feed.Parse(raw)
		if err != nil {
			return nil, err
		}

		res := &domain.Feed{
			Title:       rf.Title,
			Description: rf.Description,
			Link:        feedLink(rf, url),
			Articles:    make([]domain.Article, 0, len(rf.Items)),
		}
		for _, item := range rf.Items {
			published := item.Published
			if published == nil {
				now := time.Now()
				published = &now
			}
			desc := item.Description
			if hooks.PlainText {
				desc = sanitize.StripTags(desc)
			}
			res.Articles = append(res.Articles, domain.Article{
				Title:       item.Title,
				Link:        item.Link,
				Category:    category,
				Description: strings.ReplaceAll(desc, "\n\n", "\n"),
				Image:       itemImage(item),
				PublishedAt: published,
				Keywords:    item.Category,
			})
		}
		return res, nil
	}
}
