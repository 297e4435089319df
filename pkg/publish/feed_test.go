package publish

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/publish/mocks"
)

type feedMocks struct {
	articles  *mocks.ArticleStoreMock
	tasks     *mocks.TaskStoreMock
	generator *mocks.KeywordGeneratorMock
	trending  *mocks.TrendingMock
	fanout    *mocks.KeywordsPublisherMock
}

func newFeedHandler(opts FeedOptions) (*FeedHandler, *feedMocks) {
	m := &feedMocks{
		articles: &mocks.ArticleStoreMock{
			PublishFunc: func(ctx context.Context, f domain.Feed, articles []domain.Article) ([]string, error) {
				ids := make([]string, 0, len(articles))
				for _, a := range articles {
					ids = append(ids, a.ID)
				}
				return ids, nil
			},
			UnpublishedFunc:    func(ctx context.Context, ids []string) ([]string, error) { return ids, nil },
			MarkPublishedFunc:  func(ctx context.Context, ids []string) error { return nil },
			UpdateKeywordsFunc: func(ctx context.Context, id string, keywords []string) error { return nil },
		},
		tasks: &mocks.TaskStoreMock{
			CreateFunc: func(ctx context.Context, feedID string) (domain.PublishTask, error) {
				return domain.PublishTask{ID: "task-1", FeedID: feedID, Status: domain.PublishArticles}, nil
			},
			SetStatusFunc: func(ctx context.Context, id string, status domain.PublishStatus) error { return nil },
			FinishFunc:    func(ctx context.Context, id string, status domain.PublishStatus, published int) error { return nil },
		},
		generator: &mocks.KeywordGeneratorMock{
			GenerateBatchFunc: func(ctx context.Context, articles []domain.Article) ([]domain.ArticleKeywords, error) {
				res := make([]domain.ArticleKeywords, len(articles))
				for i, a := range articles {
					res[i] = domain.ArticleKeywords{ArticleID: a.ID, Keywords: []string{"kw-" + a.ID, "common"}}
				}
				return res, nil
			},
		},
		trending: &mocks.TrendingMock{
			IncrementFunc: func(ctx context.Context, keyword string, lang domain.Language, cat domain.Category) error { return nil },
		},
		fanout: &mocks.KeywordsPublisherMock{
			PublishKeywordsFunc: func(ctx context.Context, req domain.PublishKeywordsRequest) error { return nil },
		},
	}
	h := &FeedHandler{Articles: m.articles, Tasks: m.tasks, Generator: m.generator, Trending: m.trending,
		Fanout: m.fanout, FeedOptions: opts}
	return h, m
}

func feedMessage(t *testing.T, n int) []byte {
	t.Helper()
	req := domain.PublishFeedRequest{Feed: domain.Feed{ID: "feed-1", Title: "Feed", SourceID: "src"}}
	for i := 0; i < n; i++ {
		req.Articles = append(req.Articles, domain.Article{
			ID: string(rune('a' + i)), Title: "title", Category: domain.CategoryLocal,
			Languages: []domain.Language{domain.LanguageZhHK}, SourceID: "src",
		})
	}
	b, err := json.Marshal(req)
	require.NoError(t, err)
	return b
}

func TestFeedHandler_Handle(t *testing.T) {
	t.Run("plain publish", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{})
		assert.Equal(t, Ack, h.Handle(context.Background(), feedMessage(t, 3), false))

		require.Len(t, m.articles.PublishCalls(), 1)
		assert.Equal(t, "feed-1", m.articles.PublishCalls()[0].F.ID)
		require.Len(t, m.articles.MarkPublishedCalls(), 1)
		assert.Equal(t, []string{"a", "b", "c"}, m.articles.MarkPublishedCalls()[0].Ids)
		assert.Empty(t, m.generator.GenerateBatchCalls())
		assert.Empty(t, m.tasks.SetStatusCalls())
		require.Len(t, m.tasks.FinishCalls(), 1)
		assert.Equal(t, domain.PublishSucceed, m.tasks.FinishCalls()[0].Status)
		assert.Equal(t, 3, m.tasks.FinishCalls()[0].Published)
	})

	t.Run("replay publishes nothing new", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{LLMKeywords: true})
		m.articles.PublishFunc = func(ctx context.Context, f domain.Feed, articles []domain.Article) ([]string, error) {
			return []string{}, nil
		}
		m.articles.UnpublishedFunc = func(ctx context.Context, ids []string) ([]string, error) { return nil, nil }
		assert.Equal(t, Ack, h.Handle(context.Background(), feedMessage(t, 2), false))
		assert.Empty(t, m.generator.GenerateBatchCalls(), "no keywords for known articles")
		assert.Empty(t, m.tasks.SetStatusCalls())
		assert.Len(t, m.articles.MarkPublishedCalls(), 1)
		assert.Equal(t, 0, m.tasks.FinishCalls()[0].Published)
	})

	t.Run("inline keywords in batches", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{LLMKeywords: true, BatchSize: 2})
		m.articles.UnpublishedFunc = func(ctx context.Context, ids []string) ([]string, error) {
			return []string{"e", "c", "a"}, nil // b and d are published
		}
		assert.Equal(t, Ack, h.Handle(context.Background(), feedMessage(t, 5), false))

		require.Len(t, m.tasks.SetStatusCalls(), 1)
		assert.Equal(t, domain.PublishKeywords, m.tasks.SetStatusCalls()[0].Status)
		require.Len(t, m.generator.GenerateBatchCalls(), 2)
		assert.Len(t, m.generator.GenerateBatchCalls()[0].Articles, 2)
		assert.Len(t, m.generator.GenerateBatchCalls()[1].Articles, 1)
		assert.Equal(t, "e", m.generator.GenerateBatchCalls()[1].Articles[0].ID)

		require.Len(t, m.articles.UpdateKeywordsCalls(), 3)
		assert.Equal(t, "a", m.articles.UpdateKeywordsCalls()[0].ID)
		assert.Equal(t, []string{"kw-a", "common"}, m.articles.UpdateKeywordsCalls()[0].Keywords)
		assert.Len(t, m.trending.IncrementCalls(), 6, "two keywords for each of three articles")
		inc := m.trending.IncrementCalls()[0]
		assert.Equal(t, "kw-a", inc.Keyword)
		assert.Equal(t, domain.LanguageZhHK, inc.Lang)
		assert.Equal(t, domain.CategoryLocal, inc.Cat)

		assert.Len(t, m.articles.MarkPublishedCalls()[0].Ids, 5)
		assert.Equal(t, domain.PublishSucceed, m.tasks.FinishCalls()[0].Status)
		assert.Equal(t, 3, m.tasks.FinishCalls()[0].Published)
	})

	t.Run("keywords fanout", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{LLMKeywords: true, KeywordsFanout: true})
		assert.Equal(t, Ack, h.Handle(context.Background(), feedMessage(t, 2), false))
		require.Len(t, m.fanout.PublishKeywordsCalls(), 2)
		assert.Equal(t, domain.PublishKeywordsRequest{ArticleID: "a", Title: "title"}, m.fanout.PublishKeywordsCalls()[0].Req)
		assert.Empty(t, m.generator.GenerateBatchCalls())
		assert.Empty(t, m.trending.IncrementCalls())
	})

	t.Run("malformed payload dropped", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{})
		assert.Equal(t, NackDrop, h.Handle(context.Background(), []byte("{bad json"), false))
		assert.Equal(t, NackDrop, h.Handle(context.Background(), []byte(`{"feed":{}}`), false))
		assert.Empty(t, m.tasks.CreateCalls())
	})

	t.Run("task creation failure requeued", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{})
		m.tasks.CreateFunc = func(ctx context.Context, feedID string) (domain.PublishTask, error) {
			return domain.PublishTask{}, errors.New("db down")
		}
		assert.Equal(t, NackRequeue, h.Handle(context.Background(), feedMessage(t, 1), true))
		assert.Empty(t, m.articles.PublishCalls())
	})

	t.Run("stored but unpublished articles picked up", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{LLMKeywords: true})
		m.articles.PublishFunc = func(ctx context.Context, f domain.Feed, articles []domain.Article) ([]string, error) {
			return nil, nil // committed by previous delivery
		}
		assert.Equal(t, Ack, h.Handle(context.Background(), feedMessage(t, 2), true))
		require.Len(t, m.generator.GenerateBatchCalls(), 1)
		assert.Len(t, m.generator.GenerateBatchCalls()[0].Articles, 2)
		assert.Len(t, m.articles.UpdateKeywordsCalls(), 2)
		assert.Equal(t, 2, m.tasks.FinishCalls()[0].Published)
	})

	t.Run("unpublished lookup failure", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{LLMKeywords: true})
		m.articles.UnpublishedFunc = func(ctx context.Context, ids []string) ([]string, error) {
			return nil, errors.New("no such table")
		}
		assert.Equal(t, NackDrop, h.Handle(context.Background(), feedMessage(t, 2), false))
		assert.Empty(t, m.generator.GenerateBatchCalls())
		assert.Empty(t, m.articles.MarkPublishedCalls())
		assert.Equal(t, domain.PublishFailed, m.tasks.FinishCalls()[0].Status)
	})

	t.Run("canceled context requeued", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{LLMKeywords: true})
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		m.generator.GenerateBatchFunc = func(ctx context.Context, articles []domain.Article) ([]domain.ArticleKeywords, error) {
			cancel()
			return nil, ctx.Err()
		}
		m.tasks.FinishFunc = func(ctx context.Context, id string, status domain.PublishStatus, published int) error {
			return ctx.Err()
		}
		assert.Equal(t, NackRequeue, h.Handle(ctx, feedMessage(t, 2), true), "shutdown is not a message failure")
		require.Len(t, m.tasks.FinishCalls(), 1)
		assert.Equal(t, domain.PublishFailed, m.tasks.FinishCalls()[0].Status)
		assert.NoError(t, m.tasks.FinishCalls()[0].Ctx.Err(), "task finished with live context")
		assert.Empty(t, m.articles.MarkPublishedCalls())
	})
}

func TestFeedHandler_HandleRetries(t *testing.T) {
	deadlock := &pq.Error{Code: "40P01", Message: "deadlock detected"}
	rateLimit := &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}

	tbl := []struct {
		name        string
		storeErr    error
		genErr      error
		redelivered bool
		want        Outcome
	}{
		{name: "deadlock first delivery", storeErr: deadlock, want: NackRequeue},
		{name: "deadlock redelivered", storeErr: deadlock, redelivered: true, want: NackDrop},
		{name: "sqlite busy first delivery", storeErr: errors.New("database is locked (5) (SQLITE_BUSY)"), want: NackRequeue},
		{name: "other store error", storeErr: errors.New("constraint failed"), want: NackDrop},
		{name: "rate limit first delivery", genErr: rateLimit, want: NackRequeue},
		{name: "rate limit redelivered", genErr: rateLimit, redelivered: true, want: NackDrop},
		{name: "llm garbage", genErr: errors.New("failed to parse json"), want: NackDrop},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newFeedHandler(FeedOptions{LLMKeywords: true})
			if tt.storeErr != nil {
				m.articles.PublishFunc = func(ctx context.Context, f domain.Feed, articles []domain.Article) ([]string, error) {
					return nil, tt.storeErr
				}
			}
			if tt.genErr != nil {
				m.generator.GenerateBatchFunc = func(ctx context.Context, articles []domain.Article) ([]domain.ArticleKeywords, error) {
					return nil, tt.genErr
				}
			}

			assert.Equal(t, tt.want, h.Handle(context.Background(), feedMessage(t, 2), tt.redelivered))
			assert.Empty(t, m.articles.MarkPublishedCalls())
			require.Len(t, m.tasks.FinishCalls(), 1)
			assert.Equal(t, domain.PublishFailed, m.tasks.FinishCalls()[0].Status)
			assert.Equal(t, 0, m.tasks.FinishCalls()[0].Published)
		})
	}
}

func TestFeedHandler_Publish(t *testing.T) {
	req := domain.PublishFeedRequest{Feed: domain.Feed{ID: "feed-1"},
		Articles: []domain.Article{{ID: "a", Title: "t1"}, {ID: "b", Title: "t2"}}}

	t.Run("ok", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{})
		n, err := h.Publish(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, domain.PublishSucceed, m.tasks.FinishCalls()[0].Status)
	})

	t.Run("store failure", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{})
		m.articles.MarkPublishedFunc = func(ctx context.Context, ids []string) error { return errors.New("oops") }
		_, err := h.Publish(context.Background(), req)
		require.EqualError(t, err, "mark published: oops")
		assert.Equal(t, domain.PublishFailed, m.tasks.FinishCalls()[0].Status)
	})

	t.Run("task failure", func(t *testing.T) {
		h, m := newFeedHandler(FeedOptions{})
		m.tasks.CreateFunc = func(ctx context.Context, feedID string) (domain.PublishTask, error) {
			return domain.PublishTask{}, errors.New("no db")
		}
		_, err := h.Publish(context.Background(), req)
		require.EqualError(t, err, "create publish task: no db")
		assert.Empty(t, m.articles.PublishCalls())
	})
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ack", Ack.String())
	assert.Equal(t, "nack-requeue", NackRequeue.String())
	assert.Equal(t, "nack-drop", NackDrop.String())
	assert.Equal(t, "outcome(7)", Outcome(7).String())
}

func TestSelectArticles(t *testing.T) {
	articles := []domain.Article{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "a"}}
	res := selectArticles(articles, []string{"c", "a"})
	require.Len(t, res, 2)
	assert.Equal(t, "a", res[0].ID)
	assert.Equal(t, "c", res[1].ID)
	assert.Empty(t, selectArticles(articles, nil))
}
