// Package aggregate runs aggregation jobs: concurrent fetch of every enabled publisher, then
// sequential hand-off of fetched feeds to a sink and job bookkeeping.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/umputun/pulsefeed/pkg/domain"
	"github.com/umputun/pulsefeed/pkg/source"
)

//go:generate moq -out mocks/source_store.go -pkg mocks -skip-ensure -fmt goimports . SourceStore
//go:generate moq -out mocks/job_store.go -pkg mocks -skip-ensure -fmt goimports . JobStore
//go:generate moq -out mocks/sink.go -pkg mocks -skip-ensure -fmt goimports . Sink
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier

// SourceStore keeps publishers and their enabled flag
type SourceStore interface {
	Upsert(ctx context.Context, src domain.Source) error
	List(ctx context.Context, enabledOnly bool) ([]domain.Source, error)
}

// JobStore records aggregation jobs
type JobStore interface {
	Create(ctx context.Context) (domain.Job, error)
	Finish(ctx context.Context, job domain.Job) error
}

// Sink accepts fetched feeds, either storing them or queueing for publishing
type Sink interface {
	Send(ctx context.Context, req domain.PublishFeedRequest) error
}

// Notifier is told about failed jobs
type Notifier interface {
	JobFailed(ctx context.Context, job domain.Job) error
}

// ErrRunning is returned when a job is already in progress
var ErrRunning = errors.New("aggregation is already running")

// Params of the aggregation service
type Params struct {
	Publishers []source.Publisher
	Fetcher    source.Fetcher
	Allow      []string // publisher keys to aggregate, all if empty
	Sources    SourceStore
	Jobs       JobStore
	Sink       Sink
	Notifier   Notifier // optional
}

// Service runs aggregation jobs, at most one at a time
type Service struct {
	Params
	clients map[string]*source.Client // by source id
	running atomic.Bool
	now     func() time.Time
}

// NewService makes aggregation service for allowed publishers
func NewService(p Params) *Service {
	allow := make(map[string]bool, len(p.Allow))
	for _, k := range p.Allow {
		allow[strings.ToLower(strings.TrimSpace(k))] = true
	}
	clients := make(map[string]*source.Client, len(p.Publishers))
	for _, pub := range p.Publishers {
		if len(allow) > 0 && !allow[strings.ToLower(pub.Key)] {
			log.Printf("[DEBUG] publisher %s is not allowed, skipped", pub.Key)
			continue
		}
		c := source.NewClient(pub, p.Fetcher)
		clients[c.GetSource().ID] = c
	}
	return &Service{Params: p, clients: clients, now: time.Now}
}

// Bootstrap upserts static sources of all known publishers, enabled flag of existing sources is kept
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, c := range s.clients {
		src := c.GetSource()
		if err := s.Sources.Upsert(ctx, src); err != nil {
			return fmt.Errorf("upsert source %s: %w", src.Title, err)
		}
	}
	log.Printf("[INFO] bootstrapped %d sources", len(s.clients))
	return nil
}

// Running reports whether a job is in progress
func (s *Service) Running() bool { return s.running.Load() }

// Run performs one aggregation job. Fetch and sink failures don't abort the run, they are collected
// into the job reason. Error is returned only if the job can't be created or finished.
func (s *Service) Run(ctx context.Context) (domain.Job, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.Job{}, ErrRunning
	}
	defer s.running.Store(false)

	job, err := s.Jobs.Create(ctx)
	if err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}
	log.Printf("[INFO] aggregation job #%d started", job.ID)

	errs := new(multierror.Error)
	errs.ErrorFormat = joinErrors

	tasks, err := s.tasks(ctx)
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	for res := range fetch(ctx, tasks) {
		if res.Err != nil {
			errs = multierror.Append(errs, res.Err)
			continue
		}
		// sequential on purpose, single writer against the store
		req := domain.PublishFeedRequest{Feed: *res.Feed, Articles: res.Feed.Articles}
		if err := s.Sink.Send(ctx, req); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("send feed %s: %w", res.URL, err))
			continue
		}
		job.FeedsCount++
		job.ItemsCount += len(req.Articles)
	}

	return s.finish(ctx, job, errs.ErrorOrNil())
}

// tasks makes fetch tasks of enabled and allowed sources in random source order
func (s *Service) tasks(ctx context.Context) ([]source.Task, error) {
	enabled, err := s.Sources.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list enabled sources: %w", err)
	}
	rand.Shuffle(len(enabled), func(i, j int) { enabled[i], enabled[j] = enabled[j], enabled[i] })

	var res []source.Task
	for _, src := range enabled {
		c, ok := s.clients[src.ID]
		if !ok {
			continue
		}
		res = append(res, c.FetchTasks()...)
	}
	log.Printf("[DEBUG] %d fetch tasks for %d enabled sources", len(res), len(enabled))
	return res, nil
}

// fetch runs all tasks concurrently, the returned channel is closed after the last result
func fetch(ctx context.Context, tasks []source.Task) <-chan source.Result {
	results := make(chan source.Result, len(tasks))
	if len(tasks) == 0 {
		close(results)
		return results
	}
	var pending atomic.Int64
	pending.Store(int64(len(tasks)))
	for _, t := range tasks {
		go func() {
			results <- t.Run(ctx)
			if pending.Add(-1) == 0 {
				close(results)
			}
		}()
	}
	return results
}

func (s *Service) finish(ctx context.Context, job domain.Job, err error) (domain.Job, error) {
	finished := s.now().UTC()
	job.FinishedAt = &finished
	job.Status = domain.JobSuccess
	if err != nil {
		job.Status = domain.JobFailure
		job.Reason = err.Error()
	}
	if ferr := s.Jobs.Finish(ctx, job); ferr != nil {
		return job, fmt.Errorf("finish job: %w", ferr)
	}

	log.Printf("[INFO] aggregation job #%d finished with %s in %s, feeds: %d, articles: %d",
		job.ID, job.Status, domain.FormatElapsed(job.Elapsed()), job.FeedsCount, job.ItemsCount)
	if job.Status == domain.JobFailure {
		log.Printf("[WARN] aggregation job #%d errors:\n%s", job.ID, job.Reason)
		if s.Notifier != nil {
			if nerr := s.Notifier.JobFailed(ctx, job); nerr != nil {
				log.Printf("[WARN] failed to notify about job #%d: %v", job.ID, nerr)
			}
		}
	}
	return job, nil
}

// joinErrors separates errors with a blank line
func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n\n")
}
