package aggregate

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/pulsefeed/pkg/aggregate/mocks"
	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/feed"
	"github.com/umputun/pulsefeed/pkg/source"
	srcmocks "github.com/umputun/pulsefeed/pkg/source/mocks"
)

func testPublisher(key string) source.Publisher {
	return source.Publisher{
		Key:    key,
		Source: domain.Source{Title: key, Link: "https://" + key + ".example.com/"},
		Base:   "https://" + key + ".example.com",
		Paths: map[domain.Category][]string{
			domain.CategoryWorld: {"/world"},
			domain.CategoryLocal: {"/local"},
		},
		Decoder: func(raw []byte, category domain.Category, url string) (*domain.Feed, error) {
			if string(raw) == "garbage" {
				return nil, errors.New("bad payload")
			}
			return &domain.Feed{Title: url, Link: url, Articles: []domain.Article{
				{Title: url + " 1", Link: url + "/1", Category: category},
				{Title: url + " 2", Link: url + "/2", Category: category},
			}}, nil
		},
	}
}

func sourceOf(p source.Publisher) domain.Source {
	return source.NewClient(p, nil).GetSource()
}

type testEnv struct {
	svc      *Service
	sources  *mocks.SourceStoreMock
	jobs     *mocks.JobStoreMock
	sink     *mocks.SinkMock
	notifier *mocks.NotifierMock
	fetcher  *srcmocks.FetcherMock
}

func newTestEnv(allow ...string) *testEnv {
	pubs := []source.Publisher{testPublisher("alpha"), testPublisher("beta")}
	env := &testEnv{
		sources: &mocks.SourceStoreMock{
			ListFunc: func(ctx context.Context, enabledOnly bool) ([]domain.Source, error) {
				return []domain.Source{sourceOf(pubs[0]), sourceOf(pubs[1])}, nil
			},
			UpsertFunc: func(ctx context.Context, src domain.Source) error { return nil },
		},
		jobs: &mocks.JobStoreMock{
			CreateFunc: func(ctx context.Context) (domain.Job, error) {
				return domain.Job{ID: 7, Status: domain.JobPending, StartedAt: time.Now().UTC()}, nil
			},
			FinishFunc: func(ctx context.Context, job domain.Job) error { return nil },
		},
		sink:     &mocks.SinkMock{SendFunc: func(ctx context.Context, req domain.PublishFeedRequest) error { return nil }},
		notifier: &mocks.NotifierMock{JobFailedFunc: func(ctx context.Context, job domain.Job) error { return nil }},
		fetcher: &srcmocks.FetcherMock{FetchFunc: func(ctx context.Context, r feed.Request) (feed.Response, error) {
			return feed.Response{Body: []byte("ok")}, nil
		}},
	}
	env.svc = NewService(Params{Publishers: pubs, Fetcher: env.fetcher, Allow: allow, Sources: env.sources,
		Jobs: env.jobs, Sink: env.sink, Notifier: env.notifier})
	return env
}

func sentFeeds(sink *mocks.SinkMock) []string {
	var res []string
	for _, c := range sink.SendCalls() {
		res = append(res, c.Req.Feed.Link)
	}
	return res
}

func TestService_Run(t *testing.T) {
	t.Run("all feeds sent", func(t *testing.T) {
		env := newTestEnv()
		job, err := env.svc.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(7), job.ID)
		assert.Equal(t, domain.JobSuccess, job.Status)
		assert.Equal(t, 4, job.FeedsCount)
		assert.Equal(t, 8, job.ItemsCount)
		assert.Empty(t, job.Reason)
		require.NotNil(t, job.FinishedAt)

		assert.Len(t, env.fetcher.FetchCalls(), 4)
		assert.ElementsMatch(t, []string{"https://alpha.example.com/world", "https://alpha.example.com/local",
			"https://beta.example.com/world", "https://beta.example.com/local"}, sentFeeds(env.sink))
		for _, c := range env.sink.SendCalls() {
			assert.Len(t, c.Req.Articles, 2)
			assert.Equal(t, c.Req.Feed.SourceID, c.Req.Articles[0].SourceID)
		}

		require.Len(t, env.jobs.FinishCalls(), 1)
		assert.Equal(t, domain.JobSuccess, env.jobs.FinishCalls()[0].Job.Status)
		assert.True(t, env.sources.ListCalls()[0].EnabledOnly)
		assert.Empty(t, env.notifier.JobFailedCalls())
		assert.False(t, env.svc.Running())
	})

	t.Run("partial failure", func(t *testing.T) {
		env := newTestEnv()
		env.fetcher.FetchFunc = func(ctx context.Context, r feed.Request) (feed.Response, error) {
			switch r.URL {
			case "https://alpha.example.com/local":
				return feed.Response{}, errors.New("timeout")
			case "https://beta.example.com/local":
				return feed.Response{Body: []byte("garbage")}, nil
			}
			return feed.Response{Body: []byte("ok")}, nil
		}
		env.sink.SendFunc = func(ctx context.Context, req domain.PublishFeedRequest) error {
			if req.Feed.Link == "https://beta.example.com/world" {
				return errors.New("db is down")
			}
			return nil
		}

		job, err := env.svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.JobFailure, job.Status)
		assert.Equal(t, 1, job.FeedsCount)
		assert.Equal(t, 2, job.ItemsCount)

		parts := strings.Split(job.Reason, "\n\n")
		require.Len(t, parts, 3, job.Reason)
		assert.Contains(t, job.Reason, "retrieve https://alpha.example.com/local: timeout")
		assert.Contains(t, job.Reason, "convert https://beta.example.com/local: bad payload")
		assert.Contains(t, job.Reason, "send feed https://beta.example.com/world: db is down")

		assert.Equal(t, domain.JobFailure, env.jobs.FinishCalls()[0].Job.Status)
		require.Len(t, env.notifier.JobFailedCalls(), 1)
		assert.Equal(t, job.Reason, env.notifier.JobFailedCalls()[0].Job.Reason)
	})

	t.Run("disabled source skipped", func(t *testing.T) {
		env := newTestEnv()
		env.sources.ListFunc = func(ctx context.Context, enabledOnly bool) ([]domain.Source, error) {
			return []domain.Source{sourceOf(testPublisher("beta")), {ID: "unknown"}}, nil
		}
		job, err := env.svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.JobSuccess, job.Status)
		assert.ElementsMatch(t, []string{"https://beta.example.com/world", "https://beta.example.com/local"}, sentFeeds(env.sink))
	})

	t.Run("allow list", func(t *testing.T) {
		env := newTestEnv("ALPHA")
		_, err := env.svc.Run(context.Background())
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"https://alpha.example.com/world", "https://alpha.example.com/local"}, sentFeeds(env.sink))
	})

	t.Run("no enabled sources", func(t *testing.T) {
		env := newTestEnv()
		env.sources.ListFunc = func(ctx context.Context, enabledOnly bool) ([]domain.Source, error) { return nil, nil }
		job, err := env.svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.JobSuccess, job.Status)
		assert.Zero(t, job.FeedsCount)
		assert.Empty(t, env.sink.SendCalls())
	})

	t.Run("sources list failure", func(t *testing.T) {
		env := newTestEnv()
		env.sources.ListFunc = func(ctx context.Context, enabledOnly bool) ([]domain.Source, error) {
			return nil, errors.New("no db")
		}
		job, err := env.svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.JobFailure, job.Status)
		assert.Equal(t, "list enabled sources: no db", job.Reason)
		assert.Len(t, env.notifier.JobFailedCalls(), 1)
	})

	t.Run("job create failure", func(t *testing.T) {
		env := newTestEnv()
		env.jobs.CreateFunc = func(ctx context.Context) (domain.Job, error) { return domain.Job{}, errors.New("no db") }
		_, err := env.svc.Run(context.Background())
		require.EqualError(t, err, "create job: no db")
		assert.Empty(t, env.fetcher.FetchCalls())
		assert.Empty(t, env.jobs.FinishCalls())
	})

	t.Run("job finish failure", func(t *testing.T) {
		env := newTestEnv()
		env.jobs.FinishFunc = func(ctx context.Context, job domain.Job) error { return errors.New("locked") }
		_, err := env.svc.Run(context.Background())
		require.EqualError(t, err, "finish job: locked")
	})

	t.Run("notifier failure ignored", func(t *testing.T) {
		env := newTestEnv()
		env.sources.ListFunc = func(ctx context.Context, enabledOnly bool) ([]domain.Source, error) {
			return nil, errors.New("no db")
		}
		env.notifier.JobFailedFunc = func(ctx context.Context, job domain.Job) error { return errors.New("telegram down") }
		job, err := env.svc.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, domain.JobFailure, job.Status)
	})
}

func TestService_RunExclusive(t *testing.T) {
	env := newTestEnv()
	started, release := make(chan struct{}), make(chan struct{})
	var once sync.Once
	env.fetcher.FetchFunc = func(ctx context.Context, r feed.Request) (feed.Response, error) {
		once.Do(func() { close(started) })
		<-release
		return feed.Response{Body: []byte("ok")}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := env.svc.Run(context.Background())
		done <- err
	}()

	<-started
	assert.True(t, env.svc.Running())
	_, err := env.svc.Run(context.Background())
	require.ErrorIs(t, err, ErrRunning)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, env.svc.Running())
	assert.Len(t, env.jobs.CreateCalls(), 1)
}

func TestService_Bootstrap(t *testing.T) {
	env := newTestEnv()
	require.NoError(t, env.svc.Bootstrap(context.Background()))
	require.Len(t, env.sources.UpsertCalls(), 2)
	var titles []string
	for _, c := range env.sources.UpsertCalls() {
		titles = append(titles, c.Src.Title)
		assert.NotEmpty(t, c.Src.ID)
	}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, titles)

	env.sources.UpsertFunc = func(ctx context.Context, src domain.Source) error { return errors.New("read only") }
	err := env.svc.Bootstrap(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read only")
}

func TestSinks(t *testing.T) {
	req := domain.PublishFeedRequest{Feed: domain.Feed{ID: "f1"}, Articles: []domain.Article{{ID: "a"}}}

	t.Run("store", func(t *testing.T) {
		var got domain.PublishFeedRequest
		s := StoreSink{Publisher: publisherFunc(func(ctx context.Context, r domain.PublishFeedRequest) (int, error) {
			got = r
			return 1, nil
		})}
		require.NoError(t, s.Send(context.Background(), req))
		assert.Equal(t, req, got)

		s = StoreSink{Publisher: publisherFunc(func(ctx context.Context, r domain.PublishFeedRequest) (int, error) {
			return 0, errors.New("deadlock")
		})}
		assert.EqualError(t, s.Send(context.Background(), req), "deadlock")
	})

	t.Run("queue", func(t *testing.T) {
		var got []domain.PublishFeedRequest
		s := QueueSink{Queue: queueFunc(func(ctx context.Context, r domain.PublishFeedRequest) error {
			got = append(got, r)
			return nil
		})}
		require.NoError(t, s.Send(context.Background(), req))
		assert.Equal(t, []domain.PublishFeedRequest{req}, got)
	})
}

type publisherFunc func(ctx context.Context, req domain.PublishFeedRequest) (int, error)

func (f publisherFunc) Publish(ctx context.Context, req domain.PublishFeedRequest) (int, error) {
	return f(ctx, req)
}

type queueFunc func(ctx context.Context, req domain.PublishFeedRequest) error

func (f queueFunc) PublishFeed(ctx context.Context, req domain.PublishFeedRequest) error {
	return f(ctx, req)
}

func TestJoinErrors(t *testing.T) {
	assert.Equal(t, "a\n\nb", joinErrors([]error{errors.New("a"), errors.New("b")}))
	assert.Empty(t, joinErrors(nil))
}
