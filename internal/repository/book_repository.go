package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/productdigest/content-api/internal/models"
)

type BookPatch struct {
	Title       *string
	Label       *string
	Description *string
	BookURL     *string
	ImageURL    *string
}

type BookRepository interface {
	// Upsert is keyed by lower(title); the incoming row wins field-by-field.
	Upsert(ctx context.Context, book *models.Book) (*models.Book, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Patch(ctx context.Context, id int64, patch BookPatch) (*models.Book, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Book, error)
}

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, title, label, description, book_url, image_url, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }) (*models.Book, error) {
	var book models.Book
	err := row.Scan(
		&book.ID, &book.Title, &book.Label, &book.Description,
		&book.BookURL, &book.ImageURL, &book.CreatedAt, &book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Upsert(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := `
		INSERT INTO books (title, label, description, book_url, image_url, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (lower(title))
		DO UPDATE SET
			title = $1,
			label = COALESCE(NULLIF($2, ''), books.label),
			description = $3,
			book_url = $4,
			image_url = COALESCE(NULLIF($5, ''), books.image_url),
			updated_at = NOW()
		RETURNING ` + bookColumns

	saved, err := scanBook(r.db.QueryRowContext(ctx, query,
		book.Title, book.Label, book.Description, book.BookURL, book.ImageURL,
	))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return saved, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return book, nil
}

func (r *bookRepository) Patch(ctx context.Context, id int64, patch BookPatch) (*models.Book, error) {
	set := "updated_at = NOW()"
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Label != nil {
		add("label", *patch.Label)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.BookURL != nil {
		add("book_url", *patch.BookURL)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}

	query := `UPDATE books SET ` + set + ` WHERE id = $1 RETURNING ` + bookColumns
	book, err := scanBook(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return book, nil
}

func (r *bookRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n > 0, nil
}

func (r *bookRepository) List(ctx context.Context, limit, offset int) ([]*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY lower(title) ASC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
