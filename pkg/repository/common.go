package repository

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
	"github.com/lib/pq"
)

// ErrNotFound is returned when requested record doesn't exist
var ErrNotFound = errors.New("not found")

// postgres deadlock_detected
const pqDeadlockCode = "40P01"

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error { return e.err }

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// IsDeadlock reports whether err is a transient lock conflict: postgres deadlock or sqlite busy/locked
func IsDeadlock(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pqDeadlockCode {
		return true
	}
	return isLockError(err)
}

func newRetrier() *repeater.Repeater {
	return repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
}

// retryable marks lock errors as retryable, everything else is wrapped as critical
func retryable(err error) error {
	if err == nil || isLockError(err) {
		return err
	}
	return &criticalError{err: err}
}

// unwrapCritical returns the original error behind criticalError
func unwrapCritical(err error) error {
	var ce *criticalError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}

func marshalStrings(vals []string) (string, error) {
	if vals == nil {
		vals = []string{}
	}
	b, err := json.Marshal(vals)
	return string(b), err
}

func unmarshalStrings(s string) []string {
	var res []string
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), &res); err != nil {
		return nil
	}
	if len(res) == 0 {
		return nil
	}
	return res
}
