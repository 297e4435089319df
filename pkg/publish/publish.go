// Package publish handles publish-feed and publish-keywords messages. Handlers are queue agnostic,
// they return an Outcome and the queue adapter performs the acknowledgment.
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/llm"
	"github.com/umputun/pulsefeed/pkg/repository"
)

//go:generate moq -out mocks/article_store.go -pkg mocks -skip-ensure -fmt goimports . ArticleStore
//go:generate moq -out mocks/task_store.go -pkg mocks -skip-ensure -fmt goimports . TaskStore
//go:generate moq -out mocks/generator.go -pkg mocks -skip-ensure -fmt goimports . KeywordGenerator
//go:generate moq -out mocks/trending.go -pkg mocks -skip-ensure -fmt goimports . Trending
//go:generate moq -out mocks/keywords_publisher.go -pkg mocks -skip-ensure -fmt goimports . KeywordsPublisher

// Outcome tells the queue adapter how to acknowledge a message
type Outcome int

// message outcomes
const (
	Ack Outcome = iota
	NackRequeue
	NackDrop
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case NackRequeue:
		return "nack-requeue"
	case NackDrop:
		return "nack-drop"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// ArticleStore persists feeds and articles
type ArticleStore interface {
	Publish(ctx context.Context, f domain.Feed, articles []domain.Article) ([]string, error)
	MarkPublished(ctx context.Context, ids []string) error
	Unpublished(ctx context.Context, ids []string) ([]string, error)
	UpdateKeywords(ctx context.Context, id string, keywords []string) error
	Get(ctx context.Context, id string) (domain.Article, error)
}

// TaskStore tracks publish task lifecycle
type TaskStore interface {
	Create(ctx context.Context, feedID string) (domain.PublishTask, error)
	SetStatus(ctx context.Context, id string, status domain.PublishStatus) error
	Finish(ctx context.Context, id string, status domain.PublishStatus, published int) error
}

// KeywordGenerator extracts keywords from article titles
type KeywordGenerator interface {
	Generate(ctx context.Context, article domain.Article) (domain.ArticleKeywords, error)
	GenerateBatch(ctx context.Context, articles []domain.Article) ([]domain.ArticleKeywords, error)
}

// Trending counts keyword occurrences
type Trending interface {
	Increment(ctx context.Context, keyword string, lang domain.Language, cat domain.Category) error
}

// KeywordsPublisher emits publish-keywords messages
type KeywordsPublisher interface {
	PublishKeywords(ctx context.Context, req domain.PublishKeywordsRequest) error
}

// ErrMalformed is returned for payloads which can't be processed on any attempt
var ErrMalformed = errors.New("malformed payload")

// retryable reports whether err is worth one more delivery
func retryable(err error) bool {
	return repository.IsDeadlock(err) || llm.IsRateLimit(err)
}

// keywordsOf returns article keywords updated for the article id, or nil
func keywordsOf(results []domain.ArticleKeywords, id string) []string {
	for _, r := range results {
		if r.ArticleID == id {
			return r.Keywords
		}
	}
	return nil
}

// applyKeywords stores keywords of the article and increments trending score for every language
func applyKeywords(ctx context.Context, store ArticleStore, trending Trending, article domain.Article, keywords []string) error {
	if err := store.UpdateKeywords(ctx, article.ID, keywords); err != nil {
		return fmt.Errorf("update keywords: %w", err)
	}
	if trending == nil {
		return nil
	}
	for _, lang := range article.Languages {
		for _, kw := range keywords {
			if err := trending.Increment(ctx, kw, lang, article.Category); err != nil {
				return fmt.Errorf("increment trending %q: %w", kw, err)
			}
		}
	}
	return nil
}

func decode(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func logOutcome(kind, id string, o Outcome, err error) {
	switch o {
	case Ack:
		log.Printf("[DEBUG] %s %s handled", kind, id)
	case NackRequeue:
		log.Printf("[WARN] %s %s requeued: %v", kind, id, err)
	default:
		log.Printf("[ERROR] %s %s dropped: %v", kind, id, err)
	}
}
