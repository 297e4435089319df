package domain

import (
	"fmt"
	"time"
)

// JobStatus is the outcome of an aggregation run
type JobStatus string

// job statuses
const (
	JobPending JobStatus = "PENDING"
	JobSuccess JobStatus = "SUCCESS"
	JobFailure JobStatus = "FAILURE"
)

// Job records one aggregation run
type Job struct {
	ID         int64      `json:"id"`
	Status     JobStatus  `json:"status"`
	FeedsCount int        `json:"feedsCount"`
	ItemsCount int        `json:"itemsCount"`
	Reason     string     `json:"reason,omitempty"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// Elapsed returns run duration, zero for unfinished jobs
func (j Job) Elapsed() time.Duration {
	if j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// FormatElapsed renders duration as HH:MM:SS, hours are not wrapped
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
