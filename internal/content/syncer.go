package content

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
)

var (
	datedFileName = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-(.+)$`)
	validSlug     = regexp.MustCompile(`^[a-z0-9-]{3,200}$`)
)

// Syncer reconciles markdown drafts with the store. The store is the
// authority: file→store sync never demotes a published row, and store→file
// materialization rewrites the file to match what the store published.
type Syncer struct {
	posts               repository.PostRepository
	postsDir            string
	defaultTimezone     string
	scheduleDefaultTime string
}

func NewSyncer(posts repository.PostRepository, postsDir, defaultTimezone, scheduleDefaultTime string) *Syncer {
	return &Syncer{
		posts:               posts,
		postsDir:            postsDir,
		defaultTimezone:     defaultTimezone,
		scheduleDefaultTime: scheduleDefaultTime,
	}
}

// SyncFromContent scans the posts directory and upserts every scheduled or
// draft-marked file. Files whose scheduled instant cannot be parsed are not
// yet schedulable and are skipped without failing the batch. Returns the
// number of rows upserted.
func (s *Syncer) SyncFromContent(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(s.postsDir)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, entry := range entries {
		if entry.IsDir() || !isMarkdown(entry.Name()) {
			continue
		}

		fullPath := filepath.Join(s.postsDir, entry.Name())
		src, err := os.ReadFile(fullPath)
		if err != nil {
			slog.Info("sync: unreadable file", "path", fullPath, "err", err)
			continue
		}

		doc, err := ParseDocument(src)
		if err != nil {
			slog.Info("sync: bad front matter", "path", fullPath, "err", err)
			continue
		}

		status := strings.ToLower(doc.String("status"))
		if status != models.PostStatusScheduled && !doc.Bool("draft") {
			continue
		}

		slug := SlugFromFileName(entry.Name())
		if !validSlug.MatchString(slug) {
			slog.Info("sync: file name yields no valid slug, skipping", "path", fullPath)
			continue
		}
		scheduledAt, ok := s.scheduleInstant(doc)
		if !ok {
			slog.Info("sync: no parsable schedule instant, skipping", "slug", slug)
			continue
		}

		post := &models.Post{
			Slug:         slug,
			MarkdownPath: filepath.ToSlash(fullPath),
			Title:        doc.String("title"),
			Summary:      doc.String("summary"),
			ContentMD:    doc.Body,
			Tags:         lowercaseAll(doc.StringSlice("tags")),
			Status:       models.PostStatusScheduled,
			ScheduledAt:  &scheduledAt,
			Timezone:     s.defaultTimezone,
		}
		if _, err := s.posts.Upsert(ctx, post, filepath.ToSlash(fullPath)); err != nil {
			return synced, err
		}
		synced++
	}
	return synced, nil
}

// MaterializePublished rewrites a published post's backing file: schedule
// markers dropped, publish date stamped, file renamed to embed that date.
// Posts without a real file (synthetic db:// paths) are left alone. Returns
// the file's new path, or "" when there was nothing to touch.
func (s *Syncer) MaterializePublished(ctx context.Context, post *models.Post) (string, error) {
	if post.PublishedAt == nil || !isFilePath(post.MarkdownPath) {
		return "", nil
	}

	fullPath := post.MarkdownPath
	if _, err := os.Stat(fullPath); err != nil {
		fullPath = s.findBySlug(post.Slug)
		if fullPath == "" {
			slog.Info("materialize: markdown file not found", "slug", post.Slug)
			return "", nil
		}
	}

	src, err := os.ReadFile(fullPath)
	if err != nil {
		return "", err
	}
	doc, err := ParseDocument(src)
	if err != nil {
		return "", err
	}

	date := post.PublishedAt.UTC().Format("2006-01-02")
	if doc.Has("draft") {
		doc.SetBool("draft", false)
	}
	if doc.Has("status") {
		doc.SetString("status", models.PostStatusPublished)
	}
	doc.SetString("date", date)
	doc.SetString("publishAt", post.PublishedAt.UTC().Format(time.RFC3339))
	doc.SetString("updatedAt", date)

	out, err := doc.Encode()
	if err != nil {
		return "", err
	}
	if err := atomic.WriteFile(fullPath, bytes.NewReader(out)); err != nil {
		return "", err
	}

	targetPath := s.datedPath(fullPath, date, post.Slug)
	if targetPath != fullPath {
		// Exactly one file represents a slug: clear any stale target first.
		if err := os.Remove(targetPath); err != nil && !os.IsNotExist(err) {
			return "", err
		}
		if err := os.Rename(fullPath, targetPath); err != nil {
			return "", err
		}
	}

	newPath := filepath.ToSlash(targetPath)
	if err := s.posts.UpdateMarkdownPath(ctx, post.Slug, newPath); err != nil {
		return "", err
	}
	return newPath, nil
}

// MaterializeAll runs MaterializePublished over a batch of promoted rows,
// best effort: one broken file does not block the rest.
func (s *Syncer) MaterializeAll(ctx context.Context, posts []*models.Post) {
	for _, post := range posts {
		newPath, err := s.MaterializePublished(ctx, post)
		if err != nil {
			slog.Info("materialize failed", "slug", post.Slug, "err", err)
			continue
		}
		if newPath != "" {
			post.MarkdownPath = newPath
		}
	}
}

func (s *Syncer) scheduleInstant(doc *Document) (time.Time, bool) {
	if publishAt := doc.String("publishAt"); publishAt != "" {
		if t, err := time.Parse(time.RFC3339, publishAt); err == nil {
			return t, true
		}
		return time.Time{}, false
	}

	date := doc.String("date")
	if len(date) < 10 {
		return time.Time{}, false
	}
	loc, err := time.LoadLocation(s.defaultTimezone)
	if err != nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date[:10]+" "+s.scheduleDefaultTime, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (s *Syncer) datedPath(fullPath, date, slug string) string {
	ext := filepath.Ext(fullPath)
	return filepath.Join(filepath.Dir(fullPath), date+"-"+slug+ext)
}

func (s *Syncer) findBySlug(slug string) string {
	entries, err := os.ReadDir(s.postsDir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		name := entry.Name()
		if !isMarkdown(name) {
			continue
		}
		base := strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
		if strings.HasSuffix(base, "-"+slug) || base == slug {
			return filepath.Join(s.postsDir, name)
		}
	}
	return ""
}

// SlugFromFileName strips the extension and a leading YYYY-MM-DD- prefix,
// lowercased so the same logical post always maps to one store row.
func SlugFromFileName(fileName string) string {
	base := strings.ToLower(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if m := datedFileName.FindStringSubmatch(base); m != nil {
		return m[1]
	}
	return base
}

func isMarkdown(name string) bool {
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".mdx")
}

func isFilePath(markdownPath string) bool {
	return markdownPath != "" && !strings.HasPrefix(markdownPath, "db://")
}

func lowercaseAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
