package domain

import "time"

// TrendingKeyword is a scored keyword within a language and category
type TrendingKeyword struct {
	Keyword     string    `json:"keyword"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// ArticleKeywords is keyword generation result for one article
type ArticleKeywords struct {
	ArticleID string   `json:"articleId"`
	Keywords  []string `json:"keywords"`
}
