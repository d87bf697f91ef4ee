package persistence

import (
	"context"
	"fmt"
	"io"
	"strings"

	"picshare/images/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

var _ domain.BlobStore = (*MinioBlobStore)(nil)

// MinioBlobStoreConfig carries the connection settings for the blob service.
// PublicBaseURL is the address clients resolve object URLs against; when
// empty it is derived from the endpoint.
type MinioBlobStoreConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
}

// MinioBlobStore implements domain.BlobStore against an S3-compatible blob
// service. One client handle is created at process start and shared by all
// calls; the client owns its own connection pooling and retry policy.
type MinioBlobStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioBlobStore builds the shared blob client. No network call is made
// here; the service is first contacted by EnsureBucket or the first Put.
func NewMinioBlobStore(cfg MinioBlobStoreConfig) (*MinioBlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("blob store endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("blob store bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = scheme + "://" + cfg.Endpoint
	}
	baseURL = strings.TrimRight(baseURL, "/")

	return &MinioBlobStore{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
// Called once at startup.
func (s *MinioBlobStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}

	log.Info().Str("bucket", s.bucket).Msg("Created blob bucket")
	return nil
}

// Put uploads the full byte stream under objectName with the given content
// type. The stream is consumed directly; nothing is buffered locally.
func (s *MinioBlobStore) Put(ctx context.Context, objectName string, data io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put blob %s: %w", objectName, err)
	}

	return nil
}

// Delete removes the object. A missing object is success: the blob is
// already gone, which is the state the caller wanted.
func (s *MinioBlobStore) Delete(ctx context.Context, objectName string) error {
	err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil
		}
		return fmt.Errorf("delete blob %s: %w", objectName, err)
	}

	return nil
}

// URLFor resolves the public URL of an object from configuration alone.
func (s *MinioBlobStore) URLFor(objectName string) string {
	return s.baseURL + "/" + s.bucket + "/" + objectName
}
