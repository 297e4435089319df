// Package source implements publisher adapters turning raw publisher responses into normalized feeds.
package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/feed"
	"github.com/umputun/pulsefeed/pkg/sanitize"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Adapter is a single publisher
type Adapter interface {
	BaseURL() string
	CategoryPaths() map[domain.Category][]string
	BuildSource() domain.Source
	BuildFeed(raw []byte, category domain.Category, url string) (*domain.Feed, error)
}

// RequestShaper is implemented by adapters customizing request headers or query
type RequestShaper interface {
	Headers() map[string]string
	Query() url.Values
}

// Fetcher performs http requests
type Fetcher interface {
	Fetch(ctx context.Context, r feed.Request) (feed.Response, error)
}

// Client wraps an adapter with identity, dedup and sanitizing rules shared by all publishers
type Client struct {
	adapter Adapter
	fetcher Fetcher
}

// Task is a single (category, path) fetch of a publisher
type Task struct {
	Category domain.Category
	URL      string
	client   *Client
}

// Result of a task, exactly one of Feed and Err is set
type Result struct {
	URL  string
	Feed *domain.Feed
	Err  error
}

// NewClient makes Client for adapter
func NewClient(adapter Adapter, fetcher Fetcher) *Client {
	return &Client{adapter: adapter, fetcher: fetcher}
}

// GetSource returns publisher source with id set from its link
func (c *Client) GetSource() domain.Source {
	src := c.adapter.BuildSource()
	if src.ID == "" {
		src.ID = hashID(src.Link)
	}
	if len(src.Languages) == 0 {
		src.Languages = []domain.Language{domain.LanguageZhHK}
	}
	return src
}

// GetFeed converts raw response into feed, stamps source, assigns ids, removes duplicates
// by id and then by title, and sanitizes text and links
func (c *Client) GetFeed(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
	f, err := c.adapter.BuildFeed(raw, category, url)
	if err != nil {
		return nil, err
	}

	src := c.GetSource()
	f.SourceID = src.ID
	f.Category = category
	for i := range f.Articles {
		f.Articles[i].SourceID = src.ID
		f.Articles[i].Languages = append([]domain.Language(nil), src.Languages...)
	}

	if f.ID == "" {
		f.ID = hashID(f.Link)
	}
	for i := range f.Articles {
		if f.Articles[i].ID == "" {
			f.Articles[i].ID = hashID(f.Articles[i].Link)
		}
	}

	f.Articles = uniqBy(f.Articles, func(a domain.Article) string { return a.ID })
	f.Articles = uniqBy(f.Articles, func(a domain.Article) string { return a.Title })

	f.Title = sanitize.Content(f.Title)
	f.Description = sanitize.Content(f.Description)
	f.Link = sanitize.URL(f.Link)
	for i := range f.Articles {
		a := &f.Articles[i]
		a.Title = sanitize.Content(a.Title)
		a.Description = sanitize.Content(a.Description)
		a.Link = sanitize.URL(a.Link)
		a.Image = sanitize.URL(a.Image)
	}
	return f, nil
}

// FetchTasks makes one task per declared (category, path) pair, in stable category order
func (c *Client) FetchTasks() []Task {
	paths := c.adapter.CategoryPaths()
	res := make([]Task, 0, len(paths))
	for _, cat := range domain.Categories {
		for _, p := range paths[cat] {
			res = append(res, Task{Category: cat, URL: c.adapter.BaseURL() + p, client: c})
		}
	}
	return res
}

// Run fetches and converts the task. Errors are captured in Result and never panic past the caller.
func (t Task) Run(ctx context.Context) (res Result) {
	res.URL = t.URL
	defer func() {
		if r := recover(); r != nil {
			res.Feed, res.Err = nil, fmt.Errorf("convert %s: panic: %v", t.URL, r)
		}
	}()

	req := feed.Request{URL: t.URL}
	if shaper, ok := t.client.adapter.(RequestShaper); ok {
		req.Headers, req.Query = shaper.Headers(), shaper.Query()
	}

	log.Printf("[DEBUG] start fetch news from %s", t.URL)
	resp, err := t.client.fetcher.Fetch(ctx, req)
	if err != nil {
		log.Printf("[WARN] failed to retrieve feed from %s: %v", t.URL, err)
		return Result{URL: t.URL, Err: fmt.Errorf("retrieve %s: %w", t.URL, err)}
	}

	f, err := t.client.GetFeed(resp.Body, t.Category, t.URL)
	if err != nil {
		log.Printf("[WARN] failed to parse feed %s: %v", t.URL, err)
		return Result{URL: t.URL, Err: fmt.Errorf("convert %s: %w", t.URL, err)}
	}
	log.Printf("[DEBUG] converted %d articles from %s", len(f.Articles), t.URL)
	return Result{URL: t.URL, Feed: f}
}

// hashID is sha256 hex of the key, random key is used when it is empty
func hashID(key string) string {
	if strings.TrimSpace(key) == "" {
		key = uuid.NewString()
	}
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// uniqBy keeps the first element for each key
func uniqBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	res := make([]T, 0, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, it)
	}
	return res
}
