// Package storage provides the S3-backed label artifact store. It is
// compatible with any S3-compatible backend (AWS S3, MinIO, RustFS).
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	infraconfig "github.com/marketops/backend/internal/infrastructure/config"
	"github.com/marketops/backend/internal/infrastructure/labeling"
	"go.uber.org/zap"
)

// Ensure S3ArtifactStorage implements ArtifactStorage
var _ labeling.ArtifactStorage = (*S3ArtifactStorage)(nil)

// S3ArtifactStorage stores generated label PDFs in an S3 bucket using the
// same tenant/year/month key layout as the filesystem store.
type S3ArtifactStorage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// S3ArtifactStorageOption is a functional option for configuring S3ArtifactStorage
type S3ArtifactStorageOption func(*S3ArtifactStorage)

// WithLogger sets a custom logger for S3ArtifactStorage
func WithLogger(logger *zap.Logger) S3ArtifactStorageOption {
	return func(s *S3ArtifactStorage) {
		s.logger = logger
	}
}

// NewS3ArtifactStorage creates a new S3ArtifactStorage from configuration
func NewS3ArtifactStorage(cfg *infraconfig.StorageConfig, opts ...S3ArtifactStorageOption) (*S3ArtifactStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000" // MinIO/RustFS default
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	storage := &S3ArtifactStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(storage)
	}
	return storage, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup to ensure the bucket is ready.
func (s *S3ArtifactStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		// Another instance may have won the race
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}

	s.logger.Info("Storage bucket created successfully", zap.String("bucket", s.bucket))
	return nil
}

// Store uploads a PDF artifact under {tenant_id}/{year}/{month}/{job_id}.pdf
func (s *S3ArtifactStorage) Store(ctx context.Context, req *labeling.StoreRequest) (*labeling.StoreResult, error) {
	if req == nil {
		return nil, labeling.NewRenderError(labeling.ErrCodeStorageFailed, "store request is nil", nil)
	}
	if len(req.Data) == 0 {
		return nil, labeling.NewRenderError(labeling.ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	key := artifactKey(req)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(string(req.Data)),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return nil, labeling.NewRenderError(labeling.ErrCodeStorageFailed, "failed to upload artifact", err)
	}

	result := &labeling.StoreResult{
		Path: key,
		URL:  s.GetURL(key),
		Size: int64(len(req.Data)),
	}

	s.logger.Info("label artifact stored",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("size", len(req.Data)))

	return result, nil
}

// Get retrieves an artifact by its storage key
func (s *S3ArtifactStorage) Get(ctx context.Context, storagePath string) (io.ReadCloser, error) {
	key, err := sanitizeKey(storagePath)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) || strings.Contains(err.Error(), "NoSuchKey") {
			return nil, labeling.NewRenderError(labeling.ErrCodeStorageFailed, "artifact not found", err)
		}
		return nil, labeling.NewRenderError(labeling.ErrCodeStorageFailed, "failed to fetch artifact", err)
	}
	return out.Body, nil
}

// Delete removes an artifact. Deleting a missing key is not an error.
func (s *S3ArtifactStorage) Delete(ctx context.Context, storagePath string) error {
	key, err := sanitizeKey(storagePath)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return labeling.NewRenderError(labeling.ErrCodeStorageFailed, "failed to delete artifact", err)
	}

	s.logger.Info("label artifact deleted", zap.String("key", key))
	return nil
}

// CleanupOlderThan removes artifacts whose last-modified time is before the
// retention cutoff. Pages through the whole bucket.
func (s *S3ArtifactStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return deleted, labeling.NewRenderError(labeling.ErrCodeStorageFailed, "cleanup listing failed", err)
		}
		for _, obj := range page.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			if !strings.HasSuffix(*obj.Key, ".pdf") || !obj.LastModified.Before(cutoff) {
				continue
			}
			_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(s.bucket),
				Key:    obj.Key,
			})
			if err != nil {
				s.logger.Warn("failed to delete expired artifact",
					zap.String("key", *obj.Key),
					zap.Error(err))
				continue
			}
			deleted++
			s.logger.Debug("deleted old artifact", zap.String("key", *obj.Key))
		}
	}

	s.logger.Info("artifact cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))

	return deleted, nil
}

// GetURL returns the accessible URL for a stored artifact
func (s *S3ArtifactStorage) GetURL(storagePath string) string {
	return s.baseURL + "/" + path.Clean(strings.TrimPrefix(storagePath, "/"))
}

// artifactKey builds the object key for a store request
func artifactKey(req *labeling.StoreRequest) string {
	now := time.Now()
	return path.Join(
		req.TenantID.String(),
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		req.JobID.String()+".pdf",
	)
}

// sanitizeKey rejects traversal attempts and absolute keys
func sanitizeKey(storagePath string) (string, error) {
	key := path.Clean(strings.TrimPrefix(storagePath, "/"))
	if key == "." || key == ".." || strings.HasPrefix(key, "../") {
		return "", labeling.NewRenderError(labeling.ErrCodeStorageFailed, "invalid path", nil)
	}
	return key, nil
}
