package service

import (
	"context"

	"github.com/productdigest/content-api/internal/repository"
)

type LikeService interface {
	Get(ctx context.Context, slug string) (int, error)
	Increment(ctx context.Context, slug string) (int, error)
}

type likeService struct {
	lr repository.LikeRepository
}

func NewLikeService(lr repository.LikeRepository) LikeService {
	return &likeService{lr: lr}
}

func (s *likeService) Get(ctx context.Context, slug string) (int, error) {
	slug = normalizeSlug(slug)
	if !validSlug(slug) {
		return 0, invalid("invalid_slug")
	}
	like, err := s.lr.Get(ctx, slug)
	if err != nil || like == nil {
		return 0, err
	}
	return like.LikesCount, nil
}

func (s *likeService) Increment(ctx context.Context, slug string) (int, error) {
	slug = normalizeSlug(slug)
	if !validSlug(slug) {
		return 0, invalid("invalid_slug")
	}
	like, err := s.lr.Increment(ctx, slug)
	if err != nil {
		return 0, err
	}
	return like.LikesCount, nil
}
