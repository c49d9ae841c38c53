package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/transfer"
)

// Materializer mirrors a freshly published row back onto its markdown file.
type Materializer interface {
	MaterializeAll(ctx context.Context, posts []*models.Post)
}

// Archiver snapshots published markdown to object storage, best effort.
type Archiver interface {
	ArchivePost(ctx context.Context, slug, markdownPath string)
}

type PostService interface {
	Upsert(ctx context.Context, in *transfer.PostUpsert) (*models.Post, error)
	Get(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, f repository.PostFilter) ([]*models.Post, error)
	Publish(ctx context.Context, slug string) (*models.Post, error)
	Reschedule(ctx context.Context, slug, scheduledAt string) (*models.Post, error)
	PublishDue(ctx context.Context) ([]*models.Post, error)
}

type postService struct {
	pr              repository.PostRepository
	materializer    Materializer
	archiver        Archiver
	defaultTimezone string
}

func NewPostService(pr repository.PostRepository, materializer Materializer, archiver Archiver, defaultTimezone string) PostService {
	return &postService{
		pr:              pr,
		materializer:    materializer,
		archiver:        archiver,
		defaultTimezone: defaultTimezone,
	}
}

func (s *postService) Upsert(ctx context.Context, in *transfer.PostUpsert) (*models.Post, error) {
	slug := normalizeSlug(in.Slug)
	if !validSlug(slug) {
		return nil, invalid("invalid_slug")
	}

	status := strings.ToLower(strings.TrimSpace(in.Status))
	if status != "" && status != models.PostStatusScheduled && status != models.PostStatusPublished {
		return nil, invalid("invalid_status")
	}

	var scheduledAt *time.Time
	if in.ScheduledAt != "" {
		t, err := time.Parse(time.RFC3339, in.ScheduledAt)
		if err != nil {
			return nil, invalid("invalid_scheduled_at")
		}
		scheduledAt = &t
	}

	tags := make([]string, 0, len(in.Tags))
	for _, tag := range in.Tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			tags = append(tags, tag)
		}
	}

	// Store-only posts still need a markdown_path identity.
	syntheticPath := "db://" + gonanoid.Must()

	post := &models.Post{
		Slug:         slug,
		MarkdownPath: in.MarkdownPath,
		Title:        in.Title,
		Summary:      in.Summary,
		ContentMD:    in.Body,
		Tags:         tags,
		Status:       status,
		ScheduledAt:  scheduledAt,
		Timezone:     in.Timezone,
	}
	if post.Timezone == "" {
		post.Timezone = s.defaultTimezone
	}
	return s.pr.Upsert(ctx, post, syntheticPath)
}

func (s *postService) Get(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.pr.GetBySlug(ctx, normalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, f repository.PostFilter) ([]*models.Post, error) {
	if f.Status != "" && f.Status != models.PostStatusScheduled && f.Status != models.PostStatusPublished {
		return nil, invalid("invalid_status")
	}
	f.Limit = clampLimit(f.Limit)
	f.Offset = clampOffset(f.Offset)
	return s.pr.List(ctx, f)
}

func (s *postService) Publish(ctx context.Context, slug string) (*models.Post, error) {
	post, err := s.pr.Publish(ctx, normalizeSlug(slug))
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	s.materializer.MaterializeAll(ctx, []*models.Post{post})
	return post, nil
}

func (s *postService) Reschedule(ctx context.Context, slug, scheduledAt string) (*models.Post, error) {
	t, err := time.Parse(time.RFC3339, scheduledAt)
	if err != nil {
		return nil, invalid("invalid_scheduled_at")
	}
	post, err := s.pr.Reschedule(ctx, normalizeSlug(slug), t)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// PublishDue promotes every due row in one statement, then mirrors and
// archives the promoted content. Mirroring is advisory: the promotion has
// already committed and stands on its own.
func (s *postService) PublishDue(ctx context.Context) ([]*models.Post, error) {
	promoted, err := s.pr.PublishDue(ctx)
	if err != nil {
		return nil, err
	}
	if len(promoted) == 0 {
		return promoted, nil
	}

	s.materializer.MaterializeAll(ctx, promoted)
	for _, post := range promoted {
		s.archiver.ArchivePost(ctx, post.Slug, post.MarkdownPath)
		slog.Info("published scheduled post", "slug", post.Slug)
	}
	return promoted, nil
}
