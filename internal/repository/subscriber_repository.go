package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/productdigest/content-api/internal/models"
)

type SubscriberRepository interface {
	// Create returns nil without error when the email already exists.
	Create(ctx context.Context, email string) (*models.Subscriber, error)
}

type subscriberRepository struct {
	db *sql.DB
}

func NewSubscriberRepository(db *sql.DB) SubscriberRepository {
	return &subscriberRepository{db: db}
}

func (r *subscriberRepository) Create(ctx context.Context, email string) (*models.Subscriber, error) {
	query := `
		INSERT INTO subscribers (email) VALUES ($1)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, created_at`

	var sub models.Subscriber
	err := r.db.QueryRowContext(ctx, query, email).Scan(&sub.ID, &sub.Email, &sub.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &sub, nil
}
