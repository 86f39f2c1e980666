package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"catalog-service/internal/config"
	"catalog-service/internal/domain"
	"catalog-service/internal/metrics"
)

// objectAPI is the subset of the S3 client the store calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store uploads decoded images to a bucket and hands back their public URL.
type Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	logger  *log.Logger
	newID   func() string
}

// New builds a Store on top of an existing client. baseURL is the public
// address objects are served from, without a trailing slash.
func New(client objectAPI, bucket, baseURL string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
		newID:   func() string { return uuid.NewString() },
	}
}

// NewS3 builds a Store backed by AWS S3 or an S3-compatible endpoint (MinIO, R2).
func NewS3(ctx context.Context, cfg config.Storage, logger *log.Logger) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("blobstore: AWS_BUCKET_NAME is not configured")
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsConf, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("blobstore: load aws config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	baseURL := cfg.PublicURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return New(s3.NewFromConfig(awsConf, clientOpts...), cfg.Bucket, baseURL, logger), nil
}

// Ingest decodes an inline image payload, uploads it under
// <folder>/<uuid>.<subtype> and returns the object's public URL.
func (s *Store) Ingest(ctx context.Context, payload, folder string) (string, error) {
	img, err := ParsePayload(payload)
	if err != nil {
		metrics.BlobUploads.WithLabelValues("malformed").Inc()
		return "", err
	}

	key := path.Join(strings.Trim(folder, "/"), s.newID()+"."+img.Subtype)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType()),
	})
	if err != nil {
		metrics.BlobUploads.WithLabelValues("failure").Inc()
		s.logger.Printf("blobstore: put key=%s bytes=%d error=%v", key, len(img.Data), err)
		return "", fmt.Errorf("%w: put %s: %w", domain.ErrStorageWrite, key, err)
	}

	metrics.BlobUploads.WithLabelValues("success").Inc()
	metrics.BlobUploadBytes.Observe(float64(len(img.Data)))
	s.logger.Printf("blobstore: put key=%s bytes=%d content_type=%s", key, len(img.Data), img.ContentType())
	return s.URL(key), nil
}

// Remove deletes the object behind a URL returned by Ingest.
// URLs outside the store's base address are left alone.
func (s *Store) Remove(ctx context.Context, url string) error {
	key, ok := s.KeyFromURL(url)
	if !ok {
		s.logger.Printf("blobstore: skip delete url=%s (not owned by this store)", url)
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("blobstore: delete %s: %w", key, err)
	}
	s.logger.Printf("blobstore: deleted key=%s", key)
	return nil
}

// URL returns the public address of key.
func (s *Store) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// KeyFromURL is the inverse of URL.
func (s *Store) KeyFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
