package job

import (
	"context"
	"log/slog"

	"github.com/productdigest/content-api/internal/content"
	"github.com/productdigest/content-api/internal/service"
)

// PublishDueJob is the in-process fallback for deployments without an
// external timer: each tick syncs file drafts into the store and then runs
// the same due-row promotion the HTTP trigger runs.
type PublishDueJob struct {
	syncer *content.Syncer
	ps     service.PostService
}

func NewPublishDueJob(syncer *content.Syncer, ps service.PostService) *PublishDueJob {
	return &PublishDueJob{syncer: syncer, ps: ps}
}

func (j *PublishDueJob) Run() {
	ctx := context.Background()

	synced, err := j.syncer.SyncFromContent(ctx)
	if err != nil {
		slog.Info("content sync failed", "err", err)
	} else if synced > 0 {
		slog.Info("synced scheduled posts from content", "count", synced)
	}

	promoted, err := j.ps.PublishDue(ctx)
	if err != nil {
		slog.Info("publish-due tick failed", "err", err)
		return
	}
	if len(promoted) > 0 {
		slog.Info("publish-due tick promoted posts", "count", len(promoted))
	}
}
