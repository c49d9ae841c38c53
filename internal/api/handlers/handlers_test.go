package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productdigest/content-api/internal/cache"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/service"
	"github.com/productdigest/content-api/internal/transfer"
)

type fakePostService struct {
	posts map[string]*models.Post
	due   []*models.Post
}

var _ service.PostService = (*fakePostService)(nil)

func (f *fakePostService) Upsert(_ context.Context, in *transfer.PostUpsert) (*models.Post, error) {
	if len(in.Slug) < 3 {
		return nil, &service.ValidationError{Code: "invalid_slug"}
	}
	post := &models.Post{Slug: in.Slug, Status: in.Status}
	f.posts[in.Slug] = post
	return post, nil
}

func (f *fakePostService) Get(_ context.Context, slug string) (*models.Post, error) {
	post, ok := f.posts[slug]
	if !ok {
		return nil, service.ErrNotFound
	}
	return post, nil
}

func (f *fakePostService) List(context.Context, repository.PostFilter) ([]*models.Post, error) {
	out := make([]*models.Post, 0, len(f.posts))
	for _, post := range f.posts {
		out = append(out, post)
	}
	return out, nil
}

func (f *fakePostService) Publish(_ context.Context, slug string) (*models.Post, error) {
	return f.Get(context.Background(), slug)
}

func (f *fakePostService) Reschedule(_ context.Context, slug, scheduledAt string) (*models.Post, error) {
	if _, err := time.Parse(time.RFC3339, scheduledAt); err != nil {
		return nil, &service.ValidationError{Code: "invalid_scheduled_at"}
	}
	return f.Get(context.Background(), slug)
}

func (f *fakePostService) PublishDue(context.Context) ([]*models.Post, error) {
	due := f.due
	f.due = nil
	return due, nil
}

type fakeSubscriberService struct {
	emails map[string]bool
}

func (f *fakeSubscriberService) Subscribe(_ context.Context, email string) error {
	if !strings.Contains(email, "@") {
		return &service.ValidationError{Code: "invalid_email"}
	}
	if f.emails[email] {
		return service.ErrDuplicate
	}
	f.emails[email] = true
	return nil
}

type fakeBookService struct {
	books []*models.Book
}

var _ service.BookService = (*fakeBookService)(nil)

func (f *fakeBookService) Upsert(_ context.Context, in *transfer.BookUpsert) (*models.Book, error) {
	book := &models.Book{ID: int64(len(f.books) + 1), Title: in.Title}
	f.books = append(f.books, book)
	return book, nil
}

func (f *fakeBookService) Patch(_ context.Context, id int64, _ *transfer.BookPatch) (*models.Book, error) {
	return nil, service.ErrNotFound
}

func (f *fakeBookService) Delete(context.Context, int64) error { return service.ErrNotFound }

func (f *fakeBookService) List(context.Context, int, int) ([]*models.Book, error) {
	return f.books, nil
}

type fakeLikeService struct {
	counts map[string]int
}

var _ service.LikeService = (*fakeLikeService)(nil)

func (f *fakeLikeService) Get(_ context.Context, slug string) (int, error) {
	return f.counts[slug], nil
}

func (f *fakeLikeService) Increment(_ context.Context, slug string) (int, error) {
	f.counts[slug]++
	return f.counts[slug], nil
}

type testServer struct {
	app   *fiber.App
	posts *fakePostService
}

func newTestServer() *testServer {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	api := app.Group("/api")

	posts := &fakePostService{posts: map[string]*models.Post{}}
	post := NewPostHandler(posts)
	api.Get("/posts", post.List)
	api.Post("/posts", post.Upsert)
	api.Post("/posts/publish-due", post.PublishDue)
	api.Get("/posts/:slug", post.Get)
	api.Post("/posts/:slug/publish", post.Publish)
	api.Patch("/posts/:slug/schedule", post.Reschedule)

	subscriber := NewSubscriberHandler(&fakeSubscriberService{emails: map[string]bool{}})
	api.Post("/subscribers", subscriber.Subscribe)

	book := NewBookHandler(&fakeBookService{}, cache.NewBookCache(10*time.Minute))
	api.Get("/books", book.List)
	api.Post("/books", book.Upsert)

	like := NewLikeHandler(&fakeLikeService{counts: map[string]int{}})
	api.Get("/likes", like.Get)
	api.Post("/likes", like.Increment)

	return &testServer{app: app, posts: posts}
}

func (ts *testServer) do(t *testing.T, method, target, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	payload := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload))
	}
	return resp.StatusCode, payload
}

func TestMalformedJSONIsRejectedEverywhere(t *testing.T) {
	ts := newTestServer()
	for _, target := range []string{"/api/posts", "/api/subscribers", "/api/books", "/api/likes"} {
		status, body := ts.do(t, "POST", target, "{not json")
		assert.Equal(t, 400, status, target)
		assert.Equal(t, "invalid_json", body["error"], target)
	}

	status, body := ts.do(t, "PATCH", "/api/posts/my-post/schedule", "{broken")
	assert.Equal(t, 400, status)
	assert.Equal(t, "invalid_json", body["error"])
}

func TestFrameworkErrorsKeepTheirStatus(t *testing.T) {
	ts := newTestServer()

	status, body := ts.do(t, "GET", "/api/nope", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "not_found", body["error"])

	status, body = ts.do(t, "DELETE", "/api/posts", "")
	assert.Equal(t, 405, status)
	assert.Equal(t, "method_not_allowed", body["error"])
}

func TestPostUpsertAndGet(t *testing.T) {
	ts := newTestServer()

	status, body := ts.do(t, "POST", "/api/posts", `{"slug":"my-post","status":"scheduled"}`)
	require.Equal(t, 200, status)
	assert.Equal(t, true, body["ok"])
	post := body["post"].(map[string]any)
	assert.Equal(t, "my-post", post["slug"])

	status, _ = ts.do(t, "GET", "/api/posts/my-post", "")
	assert.Equal(t, 200, status)

	status, body = ts.do(t, "GET", "/api/posts/unknown", "")
	assert.Equal(t, 404, status)
	assert.Equal(t, "not_found", body["error"])

	status, body = ts.do(t, "POST", "/api/posts", `{"slug":"ab"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "invalid_slug", body["error"])
}

func TestPublishDueReportsPromotedRows(t *testing.T) {
	ts := newTestServer()
	now := time.Now()
	ts.posts.due = []*models.Post{{Slug: "first", Status: models.PostStatusPublished, PublishedAt: &now}}

	status, body := ts.do(t, "POST", "/api/posts/publish-due", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["publishedCount"])
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)
	assert.Equal(t, "first", posts[0].(map[string]any)["slug"])

	// Second invocation: nothing left to promote.
	status, body = ts.do(t, "POST", "/api/posts/publish-due", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), body["publishedCount"])
	assert.Empty(t, body["posts"])
}

func TestSubscribeConflict(t *testing.T) {
	ts := newTestServer()

	status, body := ts.do(t, "POST", "/api/subscribers", `{"email":"ana@example.com"}`)
	require.Equal(t, 200, status)
	assert.Equal(t, true, body["ok"])

	status, body = ts.do(t, "POST", "/api/subscribers", `{"email":"ana@example.com"}`)
	assert.Equal(t, 409, status)
	assert.Equal(t, "duplicate", body["error"])

	status, body = ts.do(t, "POST", "/api/subscribers", `{"email":"not-an-email"}`)
	assert.Equal(t, 400, status)
	assert.Equal(t, "invalid_email", body["error"])
}

func TestBooksListCarriesCacheControl(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest("GET", "/api/books", nil)
	resp, err := ts.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "public, max-age=600", resp.Header.Get("Cache-Control"))
}

func TestLikesIncrementOrCreate(t *testing.T) {
	ts := newTestServer()

	status, body := ts.do(t, "GET", "/api/likes?slug=my-post", "")
	require.Equal(t, 200, status)
	assert.Equal(t, float64(0), body["likes"])

	status, body = ts.do(t, "POST", "/api/likes", `{"slug":"my-post"}`)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["likes"])

	status, body = ts.do(t, "POST", "/api/likes", `{"slug":"my-post"}`)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(2), body["likes"])
}
