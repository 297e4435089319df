package domain

import "time"

// Source is a news publisher. Everything but Enabled is static per publisher.
type Source struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Image     string     `json:"image,omitempty"`
	Languages []Language `json:"languages,omitempty"`
	Enabled   bool       `json:"enabled"`
}

// Feed is one fetched document for a (source, category, path) tuple
type Feed struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Link        string    `json:"link,omitempty"`
	SourceID    string    `json:"sourceId"`
	Category    Category  `json:"category,omitempty"`
	Articles    []Article `json:"-"`
}

// Article is a single normalized news item
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Link        string     `json:"link,omitempty"`
	Image       string     `json:"image,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	Category    Category   `json:"category"`
	Keywords    []string   `json:"keywords,omitempty"`
	Languages   []Language `json:"languages"`
	SourceID    string     `json:"sourceId"`
	IsPublished bool       `json:"isPublished"`
}
