package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/transfer"
)

type stubPostRepo struct {
	lastUpsert   *models.Post
	lastFallback string
	lastFilter   repository.PostFilter
	bySlug       map[string]*models.Post
	due          []*models.Post
	published    []string
	rescheduled  map[string]time.Time
}

var _ repository.PostRepository = (*stubPostRepo)(nil)

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{
		bySlug:      map[string]*models.Post{},
		rescheduled: map[string]time.Time{},
	}
}

func (f *stubPostRepo) Upsert(_ context.Context, post *models.Post, fallbackPath string) (*models.Post, error) {
	f.lastUpsert = post
	f.lastFallback = fallbackPath
	return post, nil
}

func (f *stubPostRepo) GetBySlug(_ context.Context, slug string) (*models.Post, error) {
	return f.bySlug[slug], nil
}

func (f *stubPostRepo) List(_ context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	f.lastFilter = filter
	return nil, nil
}

func (f *stubPostRepo) Publish(_ context.Context, slug string) (*models.Post, error) {
	f.published = append(f.published, slug)
	return f.bySlug[slug], nil
}

func (f *stubPostRepo) Reschedule(_ context.Context, slug string, at time.Time) (*models.Post, error) {
	post := f.bySlug[slug]
	if post != nil {
		f.rescheduled[slug] = at
	}
	return post, nil
}

func (f *stubPostRepo) PublishDue(context.Context) ([]*models.Post, error) { return f.due, nil }

func (f *stubPostRepo) UpdateMarkdownPath(context.Context, string, string) error { return nil }

type stubMaterializer struct {
	batches [][]*models.Post
}

func (m *stubMaterializer) MaterializeAll(_ context.Context, posts []*models.Post) {
	m.batches = append(m.batches, posts)
}

type stubArchiver struct {
	archived []string
}

func (a *stubArchiver) ArchivePost(_ context.Context, slug, _ string) {
	a.archived = append(a.archived, slug)
}

func newPostService(repo *stubPostRepo) (PostService, *stubMaterializer, *stubArchiver) {
	mat := &stubMaterializer{}
	arc := &stubArchiver{}
	return NewPostService(repo, mat, arc, "Europe/Madrid"), mat, arc
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, code, ve.Code)
}

func TestUpsertValidation(t *testing.T) {
	repo := newStubPostRepo()
	svc, _, _ := newPostService(repo)
	ctx := context.Background()

	tests := []struct {
		name string
		in   transfer.PostUpsert
		code string
	}{
		{"short slug", transfer.PostUpsert{Slug: "ab"}, "invalid_slug"},
		{"bad characters", transfer.PostUpsert{Slug: "con espacios"}, "invalid_slug"},
		{"too long", transfer.PostUpsert{Slug: strings.Repeat("a", 201)}, "invalid_slug"},
		{"bad status", transfer.PostUpsert{Slug: "valido", Status: "draft"}, "invalid_status"},
		{"bad instant", transfer.PostUpsert{Slug: "valido", ScheduledAt: "ayer"}, "invalid_scheduled_at"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upsert(ctx, &tt.in)
			assertCode(t, err, tt.code)
		})
	}
	assert.Nil(t, repo.lastUpsert, "validation failures must not reach the store")
}

func TestUpsertNormalizes(t *testing.T) {
	repo := newStubPostRepo()
	svc, _, _ := newPostService(repo)

	_, err := svc.Upsert(context.Background(), &transfer.PostUpsert{
		Slug:        " Mi-Post ",
		Title:       "Título",
		Tags:        []string{" Producto ", "DISCOVERY", ""},
		Status:      "Scheduled",
		ScheduledAt: "2026-09-01T06:30:00Z",
	})
	require.NoError(t, err)

	saved := repo.lastUpsert
	require.NotNil(t, saved)
	assert.Equal(t, "mi-post", saved.Slug)
	assert.Equal(t, []string{"producto", "discovery"}, saved.Tags)
	assert.Equal(t, models.PostStatusScheduled, saved.Status)
	assert.Equal(t, "Europe/Madrid", saved.Timezone)
	require.NotNil(t, saved.ScheduledAt)
	assert.True(t, strings.HasPrefix(repo.lastFallback, "db://"),
		"store-only posts need a synthetic markdown_path identity")
}

func TestListValidatesAndClamps(t *testing.T) {
	repo := newStubPostRepo()
	svc, _, _ := newPostService(repo)
	ctx := context.Background()

	_, err := svc.List(ctx, repository.PostFilter{Status: "draft"})
	assertCode(t, err, "invalid_status")

	_, err = svc.List(ctx, repository.PostFilter{Limit: 1000, Offset: -5})
	require.NoError(t, err)
	assert.Equal(t, 100, repo.lastFilter.Limit)
	assert.Equal(t, 0, repo.lastFilter.Offset)

	_, err = svc.List(ctx, repository.PostFilter{})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastFilter.Limit)
}

func TestGetNotFound(t *testing.T) {
	svc, _, _ := newPostService(newStubPostRepo())
	_, err := svc.Get(context.Background(), "desconocido")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublishMaterializes(t *testing.T) {
	repo := newStubPostRepo()
	now := time.Now()
	repo.bySlug["mi-post"] = &models.Post{Slug: "mi-post", Status: models.PostStatusPublished, PublishedAt: &now}
	svc, mat, _ := newPostService(repo)

	post, err := svc.Publish(context.Background(), "mi-post")
	require.NoError(t, err)
	assert.Equal(t, "mi-post", post.Slug)
	require.Len(t, mat.batches, 1)

	_, err = svc.Publish(context.Background(), "fantasma")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRescheduleParsesInstant(t *testing.T) {
	repo := newStubPostRepo()
	repo.bySlug["mi-post"] = &models.Post{Slug: "mi-post"}
	svc, _, _ := newPostService(repo)
	ctx := context.Background()

	_, err := svc.Reschedule(ctx, "mi-post", "no es una fecha")
	assertCode(t, err, "invalid_scheduled_at")
	assert.Empty(t, repo.rescheduled)

	_, err = svc.Reschedule(ctx, "mi-post", "2026-10-01T07:00:00+02:00")
	require.NoError(t, err)
	assert.Contains(t, repo.rescheduled, "mi-post")
}

func TestPublishDuePromotesOnceAndMirrors(t *testing.T) {
	repo := newStubPostRepo()
	now := time.Now()
	repo.due = []*models.Post{
		{Slug: "uno", MarkdownPath: "content/posts/2026-08-01-uno.mdx", PublishedAt: &now},
		{Slug: "dos", MarkdownPath: "db://abc", PublishedAt: &now},
	}
	svc, mat, arc := newPostService(repo)

	promoted, err := svc.PublishDue(context.Background())
	require.NoError(t, err)
	assert.Len(t, promoted, 2)
	require.Len(t, mat.batches, 1)
	assert.Equal(t, []string{"uno", "dos"}, arc.archived)

	// Nothing due on the second call: no mirroring, no archiving.
	repo.due = nil
	promoted, err = svc.PublishDue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, promoted)
	assert.Len(t, mat.batches, 1)
	assert.Len(t, arc.archived, 2)
}
