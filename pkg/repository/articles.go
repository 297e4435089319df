package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/umputun/pulsefeed/pkg/domain"
)

const (
	defaultTxTimeout = 10 * time.Second
	insertChunk      = 100
)

// ArticleRepository handles feeds, articles and their join relations
type ArticleRepository struct {
	store
	txTimeout time.Duration
}

// articleSQL represents an article for SQL operations
type articleSQL struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Link        string     `db:"link"`
	Image       string     `db:"image"`
	PublishedAt *time.Time `db:"published_at"`
	Category    string     `db:"category"`
	Keywords    string     `db:"keywords"`
	SourceID    string     `db:"source_id"`
	IsPublished bool       `db:"is_published"`
}

var articleColumns = []string{"id", "title", "description", "link", "image", "published_at", "category", "keywords",
	"source_id", "is_published"}

// Publish stores feed and its articles in a single transaction and returns ids of articles
// which were not stored before. Feed is upserted by id, articles and join rows are insert-or-ignore,
// so replays of the same feed are absorbed.
func (r *ArticleRepository) Publish(ctx context.Context, f domain.Feed, articles []domain.Article) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.txTimeout)
	defer cancel()

	var inserted []string
	err := newRetrier().Do(ctx, func() error {
		var err error
		inserted, err = r.publishTx(ctx, f, articles)
		return retryable(err)
	})
	if err != nil {
		return nil, fmt.Errorf("publish feed %s: %w", f.ID, unwrapCritical(err))
	}
	return inserted, nil
}

func (r *ArticleRepository) publishTx(ctx context.Context, f domain.Feed, articles []domain.Article) (inserted []string, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// no-op updates are skipped to avoid rewriting rows on every fetch
	feedQuery := tx.Rebind(`
		INSERT INTO feeds (id, title, description, link, source_id, category)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET title = excluded.title, description = excluded.description
		WHERE feeds.title <> excluded.title OR feeds.description <> excluded.description
	`)
	if _, err = tx.ExecContext(ctx, feedQuery, f.ID, f.Title, f.Description, f.Link, f.SourceID, string(f.Category)); err != nil {
		return nil, fmt.Errorf("upsert feed: %w", err)
	}

	if len(articles) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]string, len(articles))
	for i, a := range articles {
		ids[i] = a.ID
	}
	existing, err := r.existingIDs(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	for start := 0; start < len(articles); start += insertChunk {
		chunk := articles[start:min(start+insertChunk, len(articles))]
		if err = r.insertArticles(ctx, tx, f.ID, chunk); err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if existing[id] || seen[id] {
			continue
		}
		seen[id] = true
		inserted = append(inserted, id)
	}
	return inserted, nil
}

func (r *ArticleRepository) existingIDs(ctx context.Context, tx *sqlx.Tx, ids []string) (map[string]bool, error) {
	res := make(map[string]bool, len(ids))
	for start := 0; start < len(ids); start += insertChunk {
		query, args, err := r.sq.Select("id").From("articles").
			Where(sq.Eq{"id": ids[start:min(start+insertChunk, len(ids))]}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build existing articles query: %w", err)
		}
		var found []string
		if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
			return nil, fmt.Errorf("select existing articles: %w", err)
		}
		for _, id := range found {
			res[id] = true
		}
	}
	return res, nil
}

func (r *ArticleRepository) insertArticles(ctx context.Context, tx *sqlx.Tx, feedID string, articles []domain.Article) error {
	articlesQ := r.sq.Insert("articles").Columns(articleColumns...).Suffix("ON CONFLICT DO NOTHING")
	joinQ := r.sq.Insert("feeds_articles").Columns("feed_id", "article_id").Suffix("ON CONFLICT DO NOTHING")
	langQ := r.sq.Insert("articles_languages").Columns("article_id", "language").Suffix("ON CONFLICT DO NOTHING")
	hasLangs := false

	for _, a := range articles {
		keywords, err := marshalStrings(a.Keywords)
		if err != nil {
			return fmt.Errorf("marshal keywords: %w", err)
		}
		var published *time.Time
		if a.PublishedAt != nil {
			ts := a.PublishedAt.UTC()
			published = &ts
		}
		articlesQ = articlesQ.Values(a.ID, a.Title, a.Description, a.Link, a.Image, published, string(a.Category),
			keywords, a.SourceID, a.IsPublished)
		joinQ = joinQ.Values(feedID, a.ID)
		for _, l := range a.Languages {
			langQ = langQ.Values(a.ID, string(l))
			hasLangs = true
		}
	}

	inserts := map[string]sq.InsertBuilder{"articles": articlesQ, "feed articles": joinQ}
	if hasLangs {
		inserts["article languages"] = langQ
	}
	// join rows reference articles, so articles go first
	for _, name := range []string{"articles", "feed articles", "article languages"} {
		qb, ok := inserts[name]
		if !ok {
			continue
		}
		query, args, err := qb.ToSql()
		if err != nil {
			return fmt.Errorf("build %s insert: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
	}
	return nil
}

// MarkPublished sets is_published for all given articles
func (r *ArticleRepository) MarkPublished(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := r.sq.Update("articles").Set("is_published", true).Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return fmt.Errorf("build mark published query: %w", err)
	}
	err = newRetrier().Do(ctx, func() error {
		_, err := r.db.ExecContext(ctx, query, args...)
		return retryable(err)
	})
	if err != nil {
		return fmt.Errorf("mark published: %w", unwrapCritical(err))
	}
	return nil
}

// Unpublished returns ids of stored articles from the given list which are not published yet
func (r *ArticleRepository) Unpublished(ctx context.Context, ids []string) ([]string, error) {
	var res []string
	for start := 0; start < len(ids); start += insertChunk {
		query, args, err := r.sq.Select("id").From("articles").
			Where(sq.Eq{"id": ids[start:min(start+insertChunk, len(ids))], "is_published": false}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build unpublished articles query: %w", err)
		}
		var found []string
		if err := r.db.SelectContext(ctx, &found, query, args...); err != nil {
			return nil, fmt.Errorf("select unpublished articles: %w", err)
		}
		res = append(res, found...)
	}
	return res, nil
}

// UpdateKeywords replaces keywords of the article
func (r *ArticleRepository) UpdateKeywords(ctx context.Context, id string, keywords []string) error {
	kw, err := marshalStrings(keywords)
	if err != nil {
		return fmt.Errorf("marshal keywords: %w", err)
	}

	var affected int64
	err = newRetrier().Do(ctx, func() error {
		res, err := r.db.ExecContext(ctx, r.db.Rebind("UPDATE articles SET keywords = ? WHERE id = ?"), kw, id)
		if err != nil {
			return retryable(err)
		}
		if affected, err = res.RowsAffected(); err != nil {
			return &criticalError{err: err}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update keywords of %s: %w", id, unwrapCritical(err))
	}
	if affected == 0 {
		return fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	return nil
}

// Get returns article by id with its languages
func (r *ArticleRepository) Get(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := r.sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build article query: %w", err)
	}
	var a articleSQL
	err = r.db.GetContext(ctx, &a, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, fmt.Errorf("article %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article: %w", err)
	}

	var langs []string
	err = r.db.SelectContext(ctx, &langs,
		r.db.Rebind("SELECT language FROM articles_languages WHERE article_id = ? ORDER BY language"), id)
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article languages: %w", err)
	}
	return a.toDomain(langs), nil
}

// ListByFeed returns articles linked to the feed, newest first
func (r *ArticleRepository) ListByFeed(ctx context.Context, feedID string) ([]domain.Article, error) {
	cols := make([]string, len(articleColumns))
	for i, c := range articleColumns {
		cols[i] = "a." + c
	}
	query, args, err := r.sq.Select(cols...).From("articles a").
		Join("feeds_articles fa ON fa.article_id = a.id").
		Where(sq.Eq{"fa.feed_id": feedID}).
		OrderBy("a.published_at DESC", "a.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build feed articles query: %w", err)
	}
	var rows []articleSQL
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list feed articles: %w", err)
	}
	res := make([]domain.Article, len(rows))
	for i, a := range rows {
		res[i] = a.toDomain(nil)
	}
	return res, nil
}

func (a articleSQL) toDomain(langs []string) domain.Article {
	res := domain.Article{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Link:        a.Link,
		Image:       a.Image,
		PublishedAt: a.PublishedAt,
		Category:    domain.Category(a.Category),
		Keywords:    unmarshalStrings(a.Keywords),
		SourceID:    a.SourceID,
		IsPublished: a.IsPublished,
	}
	for _, l := range langs {
		res.Languages = append(res.Languages, domain.Language(l))
	}
	return res
}
