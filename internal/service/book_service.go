package service

import (
	"context"
	"strings"

	"github.com/productdigest/content-api/internal/cache"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/transfer"
)

// CoverLookup derives a cover image URL for a title, best effort: any
// failure yields "".
type CoverLookup interface {
	DeriveCoverURL(ctx context.Context, title string) string
}

type BookService interface {
	Upsert(ctx context.Context, in *transfer.BookUpsert) (*models.Book, error)
	Patch(ctx context.Context, id int64, in *transfer.BookPatch) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*models.Book, error)
}

type bookService struct {
	br    repository.BookRepository
	cache *cache.BookCache
	cover CoverLookup
}

func NewBookService(br repository.BookRepository, cache *cache.BookCache, cover CoverLookup) BookService {
	return &bookService{br: br, cache: cache, cover: cover}
}

func (s *bookService) Upsert(ctx context.Context, in *transfer.BookUpsert) (*models.Book, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("invalid_title")
	}
	if !validURL(in.URL) {
		return nil, invalid("invalid_url")
	}
	if in.ImageURL != "" && !validURL(in.ImageURL) {
		return nil, invalid("invalid_image_url")
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = s.cover.DeriveCoverURL(ctx, title)
	}

	book, err := s.br.Upsert(ctx, &models.Book{
		Title:       title,
		Label:       strings.TrimSpace(in.Label),
		Description: in.Description,
		BookURL:     in.URL,
		ImageURL:    imageURL,
	})
	if err != nil {
		return nil, err
	}
	// Evict before the caller sees the response so the next read is fresh.
	s.cache.Invalidate()
	return book, nil
}

func (s *bookService) Patch(ctx context.Context, id int64, in *transfer.BookPatch) (*models.Book, error) {
	if id <= 0 {
		return nil, invalid("invalid_id")
	}
	if in.URL != nil && !validURL(*in.URL) {
		return nil, invalid("invalid_url")
	}
	if in.ImageURL != nil && *in.ImageURL != "" && !validURL(*in.ImageURL) {
		return nil, invalid("invalid_image_url")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, invalid("invalid_title")
	}

	// An empty patch changes nothing; answer with the stored row.
	if in.Title == nil && in.Label == nil && in.Description == nil && in.URL == nil && in.ImageURL == nil {
		book, err := s.br.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if book == nil {
			return nil, ErrNotFound
		}
		return book, nil
	}

	book, err := s.br.Patch(ctx, id, repository.BookPatch{
		Title:       in.Title,
		Label:       in.Label,
		Description: in.Description,
		BookURL:     in.URL,
		ImageURL:    in.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrNotFound
	}
	s.cache.Invalidate()
	return book, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("invalid_id")
	}
	deleted, err := s.br.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	s.cache.Invalidate()
	return nil
}

func (s *bookService) List(ctx context.Context, limit, offset int) ([]*models.Book, error) {
	limit = clampLimit(limit)
	offset = clampOffset(offset)

	if books, ok := s.cache.Get(limit, offset); ok {
		return books, nil
	}
	books, err := s.br.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	s.cache.Set(limit, offset, books)
	return books, nil
}
