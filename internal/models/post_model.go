package models

import "time"

type Post struct {
	ID           int64      `db:"id" json:"id"`
	Slug         string     `db:"slug" json:"slug"`
	MarkdownPath string     `db:"markdown_path" json:"markdown_path"`
	Title        string     `db:"title" json:"title"`
	Summary      string     `db:"summary" json:"summary"`
	ContentMD    string     `db:"content_md" json:"content_md"`
	Tags         []string   `db:"tags" json:"tags"`
	Status       string     `db:"status" json:"status"`
	ScheduledAt  *time.Time `db:"scheduled_at" json:"scheduled_at"`
	PublishedAt  *time.Time `db:"published_at" json:"published_at"`
	Timezone     string     `db:"timezone" json:"timezone"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusScheduled = "scheduled"
	PostStatusPublished = "published"
)
