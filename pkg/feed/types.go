package feed

import "time"

// RSSFeed is a dialect-independent view of a parsed xml feed
type RSSFeed struct {
	Title       string
	Description string
	Link        string
	Docs        string
	Image       string
	Items       []RSSItem
}

// RSSItem is a single parsed item or entry. Published is nil only for atom entries without a date.
type RSSItem struct {
	Title       string
	Description string
	Link        string
	Published   *time.Time
	Category    []string
	Image       string // enclosure or media element with image mime type
	Media       string // first media:content url, regardless of type
	Content     string
}
