package transfer

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/productdigest/content-api/internal/models"
)

// PostUpsert is the POST /api/posts payload. Empty fields mean "keep the
// stored value" when the slug already exists.
type PostUpsert struct {
	Slug         string   `json:"slug"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Body         string   `json:"body"`
	Tags         []string `json:"tags"`
	Status       string   `json:"status"`
	ScheduledAt  string   `json:"scheduled_at"`
	Timezone     string   `json:"timezone"`
	MarkdownPath string   `json:"markdown_path"`
}

type PostReschedule struct {
	ScheduledAt string `json:"scheduledAt"`
}

// PostSummary is the compact shape returned by mutating post endpoints and
// by publish-due, mirroring what the scheduler worker logs.
type PostSummary struct {
	Slug        string     `json:"slug"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	PublishedAt *time.Time `json:"published_at"`
}

func SummarizePost(post *models.Post) PostSummary {
	return PostSummary{
		Slug:        post.Slug,
		Status:      post.Status,
		ScheduledAt: post.ScheduledAt,
		PublishedAt: post.PublishedAt,
	}
}

// CronClaims is the optional signed credential for the publish-due caller.
type CronClaims struct {
	jwt.RegisteredClaims
}
