package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/productdigest/content-api/internal/models"
)

type LikeRepository interface {
	// Get returns nil without error when no counter exists for the slug.
	Get(ctx context.Context, slug string) (*models.PostLike, error)
	Increment(ctx context.Context, slug string) (*models.PostLike, error)
}

type likeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) LikeRepository {
	return &likeRepository{db: db}
}

const likeColumns = `slug, likes_count, updated_at`

func scanLike(row *sql.Row) (*models.PostLike, error) {
	var like models.PostLike
	if err := row.Scan(&like.Slug, &like.LikesCount, &like.UpdatedAt); err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Get(ctx context.Context, slug string) (*models.PostLike, error) {
	query := `SELECT ` + likeColumns + ` FROM post_likes WHERE slug = $1`
	like, err := scanLike(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return like, nil
}

func (r *likeRepository) Increment(ctx context.Context, slug string) (*models.PostLike, error) {
	query := `
		INSERT INTO post_likes (slug, likes_count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (slug)
		DO UPDATE SET likes_count = post_likes.likes_count + 1, updated_at = NOW()
		RETURNING ` + likeColumns

	like, err := scanLike(r.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return like, nil
}
