package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/umputun/pulsefeed/pkg/domain"
)

// SourceRepository handles publisher records
type SourceRepository struct {
	store
}

// sourceSQL represents a source for SQL operations
type sourceSQL struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Link      string `db:"link"`
	Image     string `db:"image"`
	Languages string `db:"languages"`
	Enabled   bool   `db:"enabled"`
}

// Upsert inserts source as enabled or refreshes its static fields, enabled flag of existing
// source is never changed
func (r *SourceRepository) Upsert(ctx context.Context, src domain.Source) error {
	langs, err := json.Marshal(src.Languages)
	if err != nil {
		return fmt.Errorf("marshal languages: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO sources (id, title, link, image, languages, enabled)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			link = excluded.link,
			image = excluded.image,
			languages = excluded.languages
	`)
	err = newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, src.ID, src.Title, src.Link, src.Image, string(langs), true)
		return retryable(err)
	})
	if err != nil {
		return fmt.Errorf("upsert source %s: %w", src.ID, unwrapCritical(err))
	}
	return nil
}

// Get returns source by id
func (r *SourceRepository) Get(ctx context.Context, id string) (domain.Source, error) {
	var s sourceSQL
	err := r.db.GetContext(ctx, &s, r.db.Rebind("SELECT id, title, link, image, languages, enabled FROM sources WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Source{}, fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Source{}, fmt.Errorf("get source: %w", err)
	}
	return s.toDomain(), nil
}

// List returns sources ordered by title, optionally only enabled ones
func (r *SourceRepository) List(ctx context.Context, enabledOnly bool) ([]domain.Source, error) {
	qb := r.sq.Select("id", "title", "link", "image", "languages", "enabled").From("sources").OrderBy("title")
	if enabledOnly {
		qb = qb.Where("enabled = ?", true)
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sources query: %w", err)
	}

	var rows []sourceSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	res := make([]domain.Source, len(rows))
	for i, s := range rows {
		res[i] = s.toDomain()
	}
	return res, nil
}

// SetEnabled changes enabled flag of the source
func (r *SourceRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE sources SET enabled = ? WHERE id = ?"), enabled, id)
	if err != nil {
		return fmt.Errorf("update source %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("get affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s sourceSQL) toDomain() domain.Source {
	res := domain.Source{ID: s.ID, Title: s.Title, Link: s.Link, Image: s.Image, Enabled: s.Enabled}
	for _, l := range unmarshalStrings(s.Languages) {
		res.Languages = append(res.Languages, domain.Language(l))
	}
	return res
}
