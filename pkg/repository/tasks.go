package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// TaskRepository handles publish task records
type TaskRepository struct {
	store
}

// taskSQL represents a publish task for SQL operations
type taskSQL struct {
	ID                string     `db:"id"`
	FeedID            string     `db:"feed_id"`
	Status            string     `db:"status"`
	StartedAt         time.Time  `db:"started_at"`
	FinishedAt        *time.Time `db:"finished_at"`
	PublishedArticles int        `db:"published_articles"`
}

// Create inserts task for the feed in PublishArticles state
func (r *TaskRepository) Create(ctx context.Context, feedID string) (domain.PublishTask, error) {
	task := domain.PublishTask{ID: uuid.NewString(), FeedID: feedID, Status: domain.PublishArticles, StartedAt: time.Now().UTC()}
	query := r.db.Rebind("INSERT INTO publish_tasks (id, feed_id, status, started_at) VALUES (?, ?, ?, ?)")
	err := newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, task.ID, task.FeedID, string(task.Status), task.StartedAt)
		return retryable(err)
	})
	if err != nil {
		return domain.PublishTask{}, fmt.Errorf("create publish task: %w", unwrapCritical(err))
	}
	return task, nil
}

// SetStatus moves task to intermediate status
func (r *TaskRepository) SetStatus(ctx context.Context, id string, status domain.PublishStatus) error {
	return r.update(ctx, "UPDATE publish_tasks SET status = ? WHERE id = ?", string(status), id)
}

// Finish moves task to terminal status with finish time and published articles count
func (r *TaskRepository) Finish(ctx context.Context, id string, status domain.PublishStatus, published int) error {
	return r.update(ctx, "UPDATE publish_tasks SET status = ?, finished_at = ?, published_articles = ? WHERE id = ?",
		string(status), time.Now().UTC(), published, id)
}

// Get returns task by id
func (r *TaskRepository) Get(ctx context.Context, id string) (domain.PublishTask, error) {
	var t taskSQL
	err := r.db.GetContext(ctx, &t, r.db.Rebind("SELECT * FROM publish_tasks WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PublishTask{}, fmt.Errorf("publish task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.PublishTask{}, fmt.Errorf("get publish task: %w", err)
	}
	return domain.PublishTask{
		ID:                t.ID,
		FeedID:            t.FeedID,
		Status:            domain.PublishStatus(t.Status),
		StartedAt:         t.StartedAt,
		FinishedAt:        t.FinishedAt,
		PublishedArticles: t.PublishedArticles,
	}, nil
}

func (r *TaskRepository) update(ctx context.Context, query string, args ...any) error {
	query = r.db.Rebind(query)
	var affected int64
	err := newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return retryable(err)
		}
		if affected, err = res.RowsAffected(); err != nil {
			return &criticalError{err: err}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update publish task: %w", unwrapCritical(err))
	}
	if affected == 0 {
		return fmt.Errorf("publish task %v: %w", args[len(args)-1], ErrNotFound)
	}
	return nil
}
