package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/productdigest/content-api/configs"
)

// ArchiveService mirrors published markdown to R2 so the rendering deploy
// can pick assets up from object storage. Every path is best effort; a
// missing bucket or a failed upload never blocks publication.
type ArchiveService struct {
	config cfg.Config
}

func NewArchiveService(cfg cfg.Config) *ArchiveService {
	return &ArchiveService{config: cfg}
}

func (a *ArchiveService) enabled() bool {
	r2 := a.config.R2
	return r2.AccountID != "" && r2.AccessKey != "" && r2.SecretKey != "" && r2.BucketName != ""
}

func (a *ArchiveService) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(a.config.R2.AccessKey, a.config.R2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", a.config.R2.AccountID))
	}), nil
}

func (a *ArchiveService) ArchivePost(ctx context.Context, slug, markdownPath string) {
	if !a.enabled() || markdownPath == "" || strings.HasPrefix(markdownPath, "db://") {
		return
	}

	body, err := os.ReadFile(markdownPath)
	if err != nil {
		slog.Info("archive: cannot read markdown", "slug", slug, "err", err)
		return
	}

	client, err := a.r2Client(ctx)
	if err != nil {
		slog.Info("archive: r2 client", "slug", slug, "err", err)
		return
	}

	key := "posts/" + path.Base(markdownPath)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/markdown; charset=utf-8"),
	})
	if err != nil {
		slog.Info("archive: upload failed", "slug", slug, "err", err)
		return
	}
	slog.Info("archived published post", "slug", slug, "key", key)
}
