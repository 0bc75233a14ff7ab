// Package blob stores uploaded and curated images in S3-compatible
// object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"IdeaSpark/internal/apperr"
	"IdeaSpark/internal/config"
	"IdeaSpark/internal/ports"
)

const cacheControl = "public, max-age=31536000"

// MinioStore implements ports.ImageStore on a MinIO/S3 bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	ensureOnce sync.Once
	ensureErr  error
}

var _ ports.ImageStore = (*MinioStore)(nil)

// NewMinioStore connects to the object storage endpoint from config.
func NewMinioStore(cfg config.ImagesConfig, logger *slog.Logger) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, apperr.Configuration("image storage endpoint is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object storage client: %w", err)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// ensureBucket creates the bucket on first use. The result is cached so
// every later call is free.
func (s *MinioStore) ensureBucket(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = fmt.Errorf("check bucket %q: %w", s.bucket, err)
			return
		}
		if exists {
			return
		}
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			s.ensureErr = fmt.Errorf("create bucket %q: %w", s.bucket, err)
			return
		}
		if s.logger != nil {
			s.logger.Info("created image bucket", "bucket", s.bucket)
		}
	})
	return s.ensureErr
}

// Put stores one object with long-lived cache headers.
func (s *MinioStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Get opens one object for streaming. A missing key maps to a not-found
// error rather than a storage failure.
func (s *MinioStore) Get(ctx context.Context, key string) (*ports.Blob, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", key, err)
	}

	// GetObject is lazy; Stat forces the first request so a missing key
	// surfaces here instead of on the first Read.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		var respErr minio.ErrorResponse
		if errors.As(err, &respErr) && respErr.Code == "NoSuchKey" {
			return nil, apperr.NotFound("image %q not found", key)
		}
		return nil, fmt.Errorf("stat object %q: %w", key, err)
	}

	return &ports.Blob{
		BlobInfo: ports.BlobInfo{
			Key:          key,
			Size:         stat.Size,
			ContentType:  stat.ContentType,
			ETag:         stat.ETag,
			LastModified: stat.LastModified,
		},
		Body: obj,
	}, nil
}

// List enumerates objects under a key prefix.
func (s *MinioStore) List(ctx context.Context, prefix string) ([]ports.BlobInfo, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	infos := make([]ports.BlobInfo, 0)
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects under %q: %w", prefix, obj.Err)
		}
		infos = append(infos, ports.BlobInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			ETag:         obj.ETag,
			LastModified: obj.LastModified,
		})
	}
	return infos, nil
}
