package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// schemaStep is one idempotent DDL statement. Steps run in order on every
// boot; each one must be safe to repeat and safe to race with another
// process running the same step.
type schemaStep struct {
	name string
	stmt string
}

var schemaSteps = []schemaStep{
	{
		name: "create_posts",
		stmt: `CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			markdown_path TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			content_md TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			status TEXT NOT NULL DEFAULT 'scheduled' CHECK (status IN ('scheduled', 'published')),
			scheduled_at TIMESTAMPTZ NULL,
			published_at TIMESTAMPTZ NULL,
			timezone TEXT NOT NULL DEFAULT 'Europe/Madrid',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "posts_add_markdown_path",
		stmt: `ALTER TABLE posts ADD COLUMN IF NOT EXISTS markdown_path TEXT NOT NULL DEFAULT ''`,
	},
	{
		name: "posts_add_timezone",
		stmt: `ALTER TABLE posts ADD COLUMN IF NOT EXISTS timezone TEXT NOT NULL DEFAULT 'Europe/Madrid'`,
	},
	{
		name: "posts_slug_lower_uidx",
		stmt: `CREATE UNIQUE INDEX IF NOT EXISTS posts_slug_lower_uidx ON posts (lower(slug))`,
	},
	{
		name: "create_events",
		stmt: `CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			date_confirmed BOOLEAN NOT NULL DEFAULT TRUE,
			event_date DATE NOT NULL,
			event_time TIME NOT NULL,
			venue TEXT NOT NULL,
			ticketing_url TEXT NOT NULL,
			event_url TEXT NOT NULL,
			timezone TEXT NOT NULL DEFAULT 'Europe/Madrid',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "create_books",
		stmt: `CREATE TABLE IF NOT EXISTS books (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			label TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL,
			book_url TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "books_add_label",
		stmt: `ALTER TABLE books ADD COLUMN IF NOT EXISTS label TEXT NOT NULL DEFAULT ''`,
	},
	{
		name: "books_add_image_url",
		stmt: `ALTER TABLE books ADD COLUMN IF NOT EXISTS image_url TEXT NOT NULL DEFAULT ''`,
	},
	{
		name: "books_title_lower_uidx",
		stmt: `CREATE UNIQUE INDEX IF NOT EXISTS books_title_lower_uidx ON books (lower(title))`,
	},
	{
		name: "create_subscribers",
		stmt: `CREATE TABLE IF NOT EXISTS subscribers (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "create_post_likes",
		stmt: `CREATE TABLE IF NOT EXISTS post_likes (
			slug TEXT PRIMARY KEY,
			likes_count INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
}

// EnsureSchema brings the database to the current schema before the server
// starts taking requests. A failure names the step that broke.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, step := range schemaSteps {
		if _, err := db.ExecContext(ctx, step.stmt); err != nil {
			slog.Error("schema step failed", "step", step.name, "err", err)
			return fmt.Errorf("schema step %s: %w", step.name, err)
		}
		slog.Debug("schema step ok", "step", step.name)
	}
	return nil
}
