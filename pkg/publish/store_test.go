package publish

import (
	"context"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/publish/mocks"
	"github.com/umputun/pulsefeed/pkg/repository"
)

func TestFeedHandler_RedeliveryWithStore(t *testing.T) {
	ctx := context.Background()
	repos, err := repository.NewRepositories(ctx, repository.Config{DSN: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1,
		ConnMaxLifetime: time.Minute})
	require.NoError(t, err)
	defer func() { assert.NoError(t, repos.Close()) }()

	calls := 0
	gen := &mocks.KeywordGeneratorMock{
		GenerateBatchFunc: func(ctx context.Context, articles []domain.Article) ([]domain.ArticleKeywords, error) {
			calls++
			if calls == 1 {
				return nil, &openai.APIError{HTTPStatusCode: 429, Message: "rate limit reached"}
			}
			res := make([]domain.ArticleKeywords, len(articles))
			for i, a := range articles {
				res[i] = domain.ArticleKeywords{ArticleID: a.ID, Keywords: []string{"香港", "天氣"}}
			}
			return res, nil
		},
	}
	trending := &mocks.TrendingMock{
		IncrementFunc: func(ctx context.Context, keyword string, lang domain.Language, cat domain.Category) error { return nil },
	}
	h := &FeedHandler{Articles: repos.Article, Tasks: repos.Task, Generator: gen, Trending: trending,
		FeedOptions: FeedOptions{LLMKeywords: true, BatchSize: 10}}

	body := feedMessage(t, 2)
	assert.Equal(t, NackRequeue, h.Handle(ctx, body, false))
	a, err := repos.Article.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, a.IsPublished, "failed attempt leaves article unpublished")

	assert.Equal(t, Ack, h.Handle(ctx, body, true))
	assert.Equal(t, 2, calls, "redelivery generates keywords again")
	for _, id := range []string{"a", "b"} {
		a, err := repos.Article.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, a.IsPublished)
		assert.Equal(t, []string{"香港", "天氣"}, a.Keywords)
	}

	var tasks []struct {
		Status    string `db:"status"`
		Finished  bool   `db:"finished"`
		Published int    `db:"published_articles"`
	}
	err = repos.DB.SelectContext(ctx, &tasks,
		"SELECT status, finished_at IS NOT NULL AS finished, published_articles FROM publish_tasks ORDER BY started_at")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, string(domain.PublishFailed), tasks[0].Status)
	assert.True(t, tasks[0].Finished, "requeued attempt is finished")
	assert.Equal(t, string(domain.PublishSucceed), tasks[1].Status)
	assert.True(t, tasks[1].Finished)
	assert.Equal(t, 2, tasks[1].Published)

	// replay of the published feed generates nothing
	assert.Equal(t, Ack, h.Handle(ctx, body, false))
	assert.Equal(t, 2, calls)
}
