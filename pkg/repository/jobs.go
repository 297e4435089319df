package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// JobRepository handles aggregation job records
type JobRepository struct {
	store
}

// jobSQL represents a job for SQL operations
type jobSQL struct {
	ID         int64      `db:"id"`
	Status     string     `db:"status"`
	FeedsCount int        `db:"feeds_count"`
	ItemsCount int        `db:"items_count"`
	Reason     string     `db:"reason"`
	StartedAt  time.Time  `db:"started_at"`
	FinishedAt *time.Time `db:"finished_at"`
}

// Create inserts pending job started now
func (r *JobRepository) Create(ctx context.Context) (domain.Job, error) {
	job := domain.Job{Status: domain.JobPending, StartedAt: time.Now().UTC()}
	query := r.db.Rebind("INSERT INTO jobs (status, started_at) VALUES (?, ?) RETURNING id")
	if err := r.db.GetContext(ctx, &job.ID, query, string(job.Status), job.StartedAt); err != nil {
		return domain.Job{}, fmt.Errorf("create job: %w", err)
	}
	return job, nil
}

// Finish stores final status, counters and reason of the job
func (r *JobRepository) Finish(ctx context.Context, job domain.Job) error {
	finished := time.Now().UTC()
	if job.FinishedAt != nil {
		finished = job.FinishedAt.UTC()
	}
	query := r.db.Rebind(`
		UPDATE jobs SET status = ?, feeds_count = ?, items_count = ?, reason = ?, finished_at = ?
		WHERE id = ?
	`)
	err := newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, string(job.Status), job.FeedsCount, job.ItemsCount, job.Reason, finished, job.ID)
		return retryable(err)
	})
	if err != nil {
		return fmt.Errorf("finish job %d: %w", job.ID, unwrapCritical(err))
	}
	return nil
}

// Get returns job by id
func (r *JobRepository) Get(ctx context.Context, id int64) (domain.Job, error) {
	return r.one(ctx, r.db.Rebind("SELECT * FROM jobs WHERE id = ?"), id)
}

// Latest returns the most recently started job
func (r *JobRepository) Latest(ctx context.Context) (domain.Job, error) {
	return r.one(ctx, "SELECT * FROM jobs ORDER BY id DESC LIMIT 1")
}

func (r *JobRepository) one(ctx context.Context, query string, args ...any) (domain.Job, error) {
	var j jobSQL
	err := r.db.GetContext(ctx, &j, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Job{}, fmt.Errorf("job: %w", ErrNotFound)
	}
	if err != nil {
		return domain.Job{}, fmt.Errorf("get job: %w", err)
	}
	return domain.Job{
		ID:         j.ID,
		Status:     domain.JobStatus(j.Status),
		FeedsCount: j.FeedsCount,
		ItemsCount: j.ItemsCount,
		Reason:     j.Reason,
		StartedAt:  j.StartedAt,
		FinishedAt: j.FinishedAt,
	}, nil
}
