// Package scheduler triggers aggregation jobs by cron specs and purges expired cache entries.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/umputun/pulsefeed/pkg/domain"
)

//go:generate moq -out mocks/aggregator.go -pkg mocks -skip-ensure -fmt goimports . Aggregator
//go:generate moq -out mocks/purger.go -pkg mocks -skip-ensure -fmt goimports . Purger

// DefaultPurgeSchedule removes expired cache entries hourly
const DefaultPurgeSchedule = "@every 1h"

// Aggregator runs a single aggregation job
type Aggregator interface {
	Run(ctx context.Context) (domain.Job, error)
}

// Purger removes expired cache entries
type Purger interface {
	Purge(ctx context.Context) (int64, error)
}

// Params of the scheduler
type Params struct {
	Aggregator    Aggregator
	Purger        Purger // optional
	Schedules     []string
	PurgeSchedule string // DefaultPurgeSchedule if empty
	RunOnStart    bool
}

// Scheduler manages cron triggered aggregation
type Scheduler struct {
	Params
	cron   *cron.Cron
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewScheduler creates a new scheduler instance, fails on invalid cron specs
func NewScheduler(p Params) (*Scheduler, error) {
	if p.PurgeSchedule == "" {
		p.PurgeSchedule = DefaultPurgeSchedule
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for _, spec := range append([]string{p.PurgeSchedule}, p.Schedules...) {
		if _, err := parser.Parse(spec); err != nil {
			return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
		}
	}
	return &Scheduler{Params: p, cron: cron.New(cron.WithParser(parser), cron.WithLogger(cron.PrintfLogger(log.Default())))}, nil
}

// Start registers jobs and starts cron, runs aggregation right away if RunOnStart is set
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	for _, spec := range s.Schedules {
		_, _ = s.cron.AddFunc(spec, func() { s.aggregate(ctx) }) // specs are validated by NewScheduler
		log.Printf("[INFO] aggregation scheduled at %q", spec)
	}
	if s.Purger != nil {
		_, _ = s.cron.AddFunc(s.PurgeSchedule, func() { s.purge(ctx) })
	}
	s.cron.Start()

	if s.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.aggregate(ctx)
		}()
	}
	log.Printf("[INFO] scheduler started with %d schedules, run on start %t", len(s.Schedules), s.RunOnStart)
}

// Stop gracefully stops the scheduler, waits for running jobs
func (s *Scheduler) Stop() {
	log.Printf("[INFO] stopping scheduler...")
	<-s.cron.Stop().Done()
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	log.Printf("[INFO] scheduler stopped")
}

func (s *Scheduler) aggregate(ctx context.Context) {
	job, err := s.Aggregator.Run(ctx)
	if err != nil {
		log.Printf("[WARN] aggregation skipped: %v", err)
		return
	}
	log.Printf("[DEBUG] scheduled aggregation job #%d done, %s", job.ID, job.Status)
}

func (s *Scheduler) purge(ctx context.Context) {
	n, err := s.Purger.Purge(ctx)
	if err != nil {
		log.Printf("[WARN] failed to purge cache: %v", err)
		return
	}
	log.Printf("[DEBUG] purged %d expired cache entries", n)
}
