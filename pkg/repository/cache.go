package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
)

// CacheRepository is a keyed value store with per-entry ttl. Expired entries are invisible to reads
// and removed by Purge.
type CacheRepository struct {
	store
	now func() time.Time
}

// CacheEntry is a live cache record
type CacheEntry struct {
	Key   string
	Value []byte
}

// Get returns value of a live entry, found is false for missing or expired keys
func (r *CacheRepository) Get(ctx context.Context, key string) (value []byte, found bool, err error) {
	var v string
	query := r.db.Rebind("SELECT value FROM cache_entries WHERE key = ? AND expires_at > ?")
	err = r.db.GetContext(ctx, &v, query, key, r.timestamp())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cache entry %s: %w", key, err)
	}
	return []byte(v), true, nil
}

// Set writes value with ttl, replacing existing entry
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	query := r.db.Rebind(`
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`)
	expires := r.clock().Add(ttl).UnixMilli()
	err := newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, key, string(value), expires)
		return retryable(err)
	})
	if err != nil {
		return fmt.Errorf("set cache entry %s: %w", key, unwrapCritical(err))
	}
	return nil
}

// Delete removes entry, missing key is not an error
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM cache_entries WHERE key = ?"), key); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

// Scan returns all live entries with key prefix, ordered by key
func (r *CacheRepository) Scan(ctx context.Context, prefix string) ([]CacheEntry, error) {
	query, args, err := r.prefixed(r.sq.Select("key", "value"), prefix).OrderBy("key").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cache scan query: %w", err)
	}
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("scan cache %s: %w", prefix, err)
	}
	res := make([]CacheEntry, len(rows))
	for i, row := range rows {
		res[i] = CacheEntry{Key: row.Key, Value: []byte(row.Value)}
	}
	return res, nil
}

// Count returns number of live entries with key prefix
func (r *CacheRepository) Count(ctx context.Context, prefix string) (int, error) {
	query, args, err := r.prefixed(r.sq.Select("COUNT(*)"), prefix).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build cache count query: %w", err)
	}
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("count cache %s: %w", prefix, err)
	}
	return n, nil
}

// Purge deletes expired entries and returns how many were removed
func (r *CacheRepository) Purge(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM cache_entries WHERE expires_at <= ?"), r.timestamp())
	if err != nil {
		return 0, fmt.Errorf("purge cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get affected rows: %w", err)
	}
	return n, nil
}

func (r *CacheRepository) prefixed(qb sq.SelectBuilder, prefix string) sq.SelectBuilder {
	qb = qb.From("cache_entries").Where(sq.Gt{"expires_at": r.timestamp()})
	if prefix == "" {
		return qb
	}
	// substr counts characters in both sqlite and postgres, and unlike LIKE has no wildcards to escape
	return qb.Where("substr(key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
}

func (r *CacheRepository) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *CacheRepository) timestamp() int64 { return r.clock().UnixMilli() }
