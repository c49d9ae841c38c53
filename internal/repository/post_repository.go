package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/productdigest/content-api/internal/models"
)

// PostFilter narrows List. Zero values mean "no filter".
type PostFilter struct {
	Status string
	Tag    string
	Query  string
	Limit  int
	Offset int
}

type PostRepository interface {
	// Upsert inserts or merges a row keyed by slug. Empty incoming fields
	// preserve the stored values; fallbackPath becomes markdown_path only
	// when the row is new and the caller supplied none.
	Upsert(ctx context.Context, post *models.Post, fallbackPath string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, f PostFilter) ([]*models.Post, error)
	Publish(ctx context.Context, slug string) (*models.Post, error)
	Reschedule(ctx context.Context, slug string, scheduledAt time.Time) (*models.Post, error)
	PublishDue(ctx context.Context) ([]*models.Post, error)
	UpdateMarkdownPath(ctx context.Context, slug, markdownPath string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, slug, markdown_path, title, summary, content_md, tags, status, scheduled_at, published_at, timezone, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.Slug, &post.MarkdownPath, &post.Title, &post.Summary,
		&post.ContentMD, pq.Array(&post.Tags), &post.Status, &post.ScheduledAt,
		&post.PublishedAt, &post.Timezone, &post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Upsert(ctx context.Context, post *models.Post, fallbackPath string) (*models.Post, error) {
	// The merge lives in one statement so concurrent upserts of the same
	// slug serialize in the store. $7 (status) is reused verbatim in the
	// update arm: empty means "keep whatever the row has", and a published
	// row never drops back to scheduled here (only Reschedule demotes).
	query := `
		INSERT INTO posts (slug, markdown_path, title, summary, content_md, tags, status, scheduled_at, published_at, timezone, updated_at)
		VALUES (
			$1,
			COALESCE(NULLIF($2, ''), $10),
			$3, $4, $5, $6::text[],
			COALESCE(NULLIF($7, ''), 'scheduled'),
			$8,
			CASE WHEN COALESCE(NULLIF($7, ''), 'scheduled') = 'published' THEN NOW() ELSE NULL END,
			COALESCE(NULLIF($9, ''), 'Europe/Madrid'),
			NOW()
		)
		ON CONFLICT (slug)
		DO UPDATE SET
			markdown_path = COALESCE(NULLIF($2, ''), posts.markdown_path),
			title = COALESCE(NULLIF($3, ''), posts.title),
			summary = COALESCE(NULLIF($4, ''), posts.summary),
			content_md = COALESCE(NULLIF($5, ''), posts.content_md),
			tags = CASE WHEN cardinality($6::text[]) = 0 THEN posts.tags ELSE $6::text[] END,
			status = CASE
				WHEN posts.status = 'published' THEN posts.status
				ELSE COALESCE(NULLIF($7, ''), posts.status)
			END,
			scheduled_at = COALESCE($8, posts.scheduled_at),
			published_at = CASE
				WHEN COALESCE(NULLIF($7, ''), posts.status) = 'published' THEN COALESCE(posts.published_at, NOW())
				ELSE posts.published_at
			END,
			timezone = COALESCE(NULLIF($9, ''), posts.timezone),
			updated_at = NOW()
		RETURNING ` + postColumns

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}

	row := r.db.QueryRowContext(ctx, query,
		post.Slug, post.MarkdownPath, post.Title, post.Summary, post.ContentMD,
		pq.Array(tags), post.Status, post.ScheduledAt, post.Timezone, fallbackPath,
	)
	saved, err := scanPost(row)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return saved, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.Tag != "" {
		args = append(args, f.Tag)
		query += fmt.Sprintf(" AND $%d = ANY(tags)", len(args))
	}
	if f.Query != "" {
		args = append(args, f.Query)
		n := len(args)
		query += fmt.Sprintf(" AND (title ILIKE '%%'||$%d||'%%' OR summary ILIKE '%%'||$%d||'%%' OR content_md ILIKE '%%'||$%d||'%%')", n, n, n)
	}

	query += " ORDER BY GREATEST(published_at, scheduled_at, created_at) DESC"
	args = append(args, f.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, f.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) Publish(ctx context.Context, slug string) (*models.Post, error) {
	// Idempotent: a second call finds published_at already set and leaves it.
	query := `
		UPDATE posts
		SET status = 'published',
			published_at = COALESCE(published_at, NOW()),
			updated_at = NOW()
		WHERE slug = $1
		RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Reschedule(ctx context.Context, slug string, scheduledAt time.Time) (*models.Post, error) {
	// The only path that demotes a row or clears published_at.
	query := `
		UPDATE posts
		SET status = 'scheduled',
			scheduled_at = $2,
			published_at = NULL,
			updated_at = NOW()
		WHERE slug = $1
		RETURNING ` + postColumns
	post, err := scanPost(r.db.QueryRowContext(ctx, query, slug, scheduledAt))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) PublishDue(ctx context.Context) ([]*models.Post, error) {
	// One statement promotes every due row. After it commits the rows no
	// longer match the predicate, so overlapping invocations cannot
	// double-publish.
	query := `
		UPDATE posts
		SET status = 'published',
			published_at = COALESCE(published_at, NOW()),
			updated_at = NOW()
		WHERE status = 'scheduled' AND scheduled_at IS NOT NULL AND scheduled_at <= NOW()
		RETURNING ` + postColumns

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) UpdateMarkdownPath(ctx context.Context, slug, markdownPath string) error {
	query := `UPDATE posts SET markdown_path = $2, updated_at = NOW() WHERE slug = $1`
	_, err := r.db.ExecContext(ctx, query, slug, markdownPath)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
