package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/llm"
	"github.com/umputun/pulsefeed/pkg/repository"
)

// KeywordsHandler processes publish-keywords messages, one article per message
type KeywordsHandler struct {
	Articles  ArticleStore
	Generator KeywordGenerator
	Trending  Trending
}

// Handle generates and stores keywords of the article. Missing article is dropped, llm rate limit
// is requeued on first delivery, interrupted handling is requeued, any other failure drops the message.
func (h *KeywordsHandler) Handle(ctx context.Context, body []byte, redelivered bool) Outcome {
	var req domain.PublishKeywordsRequest
	if err := decode(body, &req); err != nil {
		logOutcome("keywords", "?", NackDrop, err)
		return NackDrop
	}

	outcome, err := h.handle(ctx, req, redelivered)
	logOutcome("keywords", req.ArticleID, outcome, err)
	return outcome
}

func (h *KeywordsHandler) handle(ctx context.Context, req domain.PublishKeywordsRequest, redelivered bool) (Outcome, error) {
	article, err := h.Articles.Get(ctx, req.ArticleID)
	if err != nil {
		if ctx.Err() != nil {
			return NackRequeue, err
		}
		if errors.Is(err, repository.ErrNotFound) {
			return NackDrop, err
		}
		return NackDrop, fmt.Errorf("get article: %w", err)
	}
	if article.Title == "" {
		article.Title = req.Title
	}

	res, err := h.Generator.Generate(ctx, article)
	if err != nil {
		if ctx.Err() != nil || (llm.IsRateLimit(err) && !redelivered) {
			return NackRequeue, err
		}
		return NackDrop, fmt.Errorf("generate keywords: %w", err)
	}

	if err := applyKeywords(ctx, h.Articles, h.Trending, article, res.Keywords); err != nil {
		if ctx.Err() != nil {
			return NackRequeue, err
		}
		return NackDrop, err
	}
	return Ack, nil
}
