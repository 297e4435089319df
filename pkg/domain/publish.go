package domain

import "time"

// PublishStatus is a state of PublishTask
type PublishStatus string

// publish task states, PublishArticles -> PublishKeywords? -> Succeed | Failed
const (
	PublishArticles PublishStatus = "PUBLISH_ARTICLES"
	PublishKeywords PublishStatus = "PUBLISH_KEYWORDS"
	PublishSucceed  PublishStatus = "SUCCEED"
	PublishFailed   PublishStatus = "FAILED"
)

// PublishTask tracks handling of a single publish-feed message
type PublishTask struct {
	ID                string        `json:"id"`
	FeedID            string        `json:"feedId"`
	Status            PublishStatus `json:"status"`
	StartedAt         time.Time     `json:"startedAt"`
	FinishedAt        *time.Time    `json:"finishedAt,omitempty"`
	PublishedArticles int           `json:"publishedArticles"`
}

// PublishFeedRequest is the publish-feed queue payload
type PublishFeedRequest struct {
	Feed     Feed      `json:"feed"`
	Articles []Article `json:"articles"`
}

// PublishKeywordsRequest is the publish-keywords queue payload
type PublishKeywordsRequest struct {
	ArticleID string `json:"articleId"`
	Title     string `json:"title"`
}
