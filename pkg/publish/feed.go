package publish

import (
	"context"
	"fmt"
	"log"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// FeedOptions controls keyword generation of FeedHandler
type FeedOptions struct {
	LLMKeywords    bool // generate keywords for articles not published yet
	KeywordsFanout bool // emit publish-keywords messages instead of generating inline
	BatchSize      int  // titles per generation request, inline mode only
}

// FeedHandler processes publish-feed messages: one PublishTask per message, transactional store of
// the feed, optional keyword generation for unpublished articles, then articles are marked published.
type FeedHandler struct {
	Articles  ArticleStore
	Tasks     TaskStore
	Generator KeywordGenerator
	Trending  Trending
	Fanout    KeywordsPublisher
	FeedOptions
}

// Handle processes raw publish-feed message. Malformed payload is dropped, failed task creation and
// interrupted processing are requeued, deadlocks and llm rate limits are requeued once, everything else
// fails the task and drops.
func (h *FeedHandler) Handle(ctx context.Context, body []byte, redelivered bool) Outcome {
	var req domain.PublishFeedRequest
	if err := decode(body, &req); err != nil {
		logOutcome("feed", "?", NackDrop, err)
		return NackDrop
	}
	if req.Feed.ID == "" {
		logOutcome("feed", "?", NackDrop, fmt.Errorf("%w: feed id is empty", ErrMalformed))
		return NackDrop
	}

	task, err := h.Tasks.Create(ctx, req.Feed.ID)
	if err != nil {
		logOutcome("feed", req.Feed.ID, NackRequeue, err)
		return NackRequeue
	}

	published, err := h.process(ctx, task, req)
	if err != nil {
		// task is finished on every path, redelivery opens a new one
		h.finish(ctx, task, domain.PublishFailed, 0)
		if ctx.Err() != nil || (retryable(err) && !redelivered) {
			logOutcome("feed", req.Feed.ID, NackRequeue, err)
			return NackRequeue
		}
		logOutcome("feed", req.Feed.ID, NackDrop, err)
		return NackDrop
	}

	h.finish(ctx, task, domain.PublishSucceed, published)
	logOutcome("feed", req.Feed.ID, Ack, nil)
	return Ack
}

// Publish runs the same flow as Handle for an in-process request, used when the queue is disabled.
// Returns number of articles published by this call.
func (h *FeedHandler) Publish(ctx context.Context, req domain.PublishFeedRequest) (int, error) {
	task, err := h.Tasks.Create(ctx, req.Feed.ID)
	if err != nil {
		return 0, fmt.Errorf("create publish task: %w", err)
	}
	published, err := h.process(ctx, task, req)
	if err != nil {
		h.finish(ctx, task, domain.PublishFailed, 0)
		return 0, err
	}
	h.finish(ctx, task, domain.PublishSucceed, published)
	return published, nil
}

// process stores the feed and generates keywords for its articles not published yet
func (h *FeedHandler) process(ctx context.Context, task domain.PublishTask, req domain.PublishFeedRequest) (int, error) {
	inserted, err := h.Articles.Publish(ctx, req.Feed, req.Articles)
	if err != nil {
		return 0, fmt.Errorf("store feed %s: %w", req.Feed.ID, err)
	}

	ids := make([]string, len(req.Articles))
	for i, a := range req.Articles {
		ids[i] = a.ID
	}
	pending, err := h.Articles.Unpublished(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("find unpublished articles: %w", err)
	}
	log.Printf("[DEBUG] feed %s stored, %d of %d articles are new, %d to publish", req.Feed.ID, len(inserted),
		len(req.Articles), len(pending))

	if h.LLMKeywords && len(pending) > 0 {
		if err := h.Tasks.SetStatus(ctx, task.ID, domain.PublishKeywords); err != nil {
			return 0, fmt.Errorf("set task status: %w", err)
		}
		if err := h.keywords(ctx, selectArticles(req.Articles, pending)); err != nil {
			return 0, err
		}
	}

	if err := h.Articles.MarkPublished(ctx, ids); err != nil {
		return 0, fmt.Errorf("mark published: %w", err)
	}
	return len(pending), nil
}

func (h *FeedHandler) keywords(ctx context.Context, articles []domain.Article) error {
	if h.KeywordsFanout && h.Fanout != nil {
		for _, a := range articles {
			if err := h.Fanout.PublishKeywords(ctx, domain.PublishKeywordsRequest{ArticleID: a.ID, Title: a.Title}); err != nil {
				return fmt.Errorf("publish keywords of %s: %w", a.ID, err)
			}
		}
		return nil
	}

	size := h.BatchSize
	if size <= 0 {
		size = len(articles)
	}
	for start := 0; start < len(articles); start += size {
		chunk := articles[start:min(start+size, len(articles))]
		results, err := h.Generator.GenerateBatch(ctx, chunk)
		if err != nil {
			return fmt.Errorf("generate keywords: %w", err)
		}
		for _, a := range chunk {
			if err := applyKeywords(ctx, h.Articles, h.Trending, a, keywordsOf(results, a.ID)); err != nil {
				return fmt.Errorf("article %s: %w", a.ID, err)
			}
		}
	}
	return nil
}

// finish records terminal task status, even when ctx is already canceled
func (h *FeedHandler) finish(ctx context.Context, task domain.PublishTask, status domain.PublishStatus, published int) {
	if err := h.Tasks.Finish(context.WithoutCancel(ctx), task.ID, status, published); err != nil {
		log.Printf("[WARN] failed to finish publish task %s as %s: %v", task.ID, status, err)
	}
}

// selectArticles keeps articles with given ids, in request order and without duplicates
func selectArticles(articles []domain.Article, ids []string) []domain.Article {
	fresh := make(map[string]bool, len(ids))
	for _, id := range ids {
		fresh[id] = true
	}
	res := make([]domain.Article, 0, len(ids))
	for _, a := range articles {
		if fresh[a.ID] {
			res = append(res, a)
			delete(fresh, a.ID)
		}
	}
	return res
}
