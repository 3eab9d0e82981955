package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Ra7ch/LeetSol/backend/config"
	"github.com/Ra7ch/LeetSol/backend/model"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveService keeps a durable copy of submitted contracts in object
// storage. The staging directory is wiped at the end of every request, so
// without the archive a persisted report would point at a deleted file.
type ArchiveService struct {
	client *minio.Client
	bucket string
	config *config.ArchiveConfig
}

func NewArchiveService(cfg *config.ArchiveConfig) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the archive bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Archive copies the staged contract into the bucket under its assigned
// name and returns a presigned URL for the stored object.
func (s *ArchiveService) Archive(ctx context.Context, staged *model.SubmittedFile) (string, error) {
	f, err := os.Open(staged.Path)
	if err != nil {
		return "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, s.bucket, staged.Name, f, staged.Size, minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive contract: %w", err)
	}

	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, staged.Name, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate archive URL: %w", err)
	}

	return url.String(), nil
}
