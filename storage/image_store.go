package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mvaldes/portfolio-backend/errs"
)

// ObjectAPI is the slice of the S3 client the store needs. Tests
// substitute a stub; production passes *s3.Client.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// ImageStore is a thin gateway over one flat bucket of project images.
// It does not deduplicate keys; callers generate unique filenames.
type ImageStore struct {
	client        ObjectAPI
	bucket        string
	publicBaseURL string
	logger        zerolog.Logger
}

func NewImageStore(client ObjectAPI, bucket, publicBaseURL string) *ImageStore {
	logger := log.With().Str("serviceName", "imageStore").Logger()
	return &ImageStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Bucket returns the configured bucket name
func (s *ImageStore) Bucket() string {
	return s.bucket
}

// Upload writes data under key and returns the public URL. A missing
// bucket surfaces as errs.ErrBucketMissing so the frontend can show
// setup instructions; any other failure is errs.ErrUploadFailed.
func (s *ImageStore) Upload(ctx context.Context, data []byte, key, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=3600"),
	})
	if err != nil {
		if isBucketMissing(err) {
			return "", errs.NewBucketMissingError(s.bucket, err)
		}
		return "", errs.NewUploadError(err)
	}

	s.logger.Debug().Str("key", key).Str("contentType", contentType).Int("bytes", len(data)).Msg("Uploaded image")

	return s.PublicURL(key), nil
}

// PublicURL returns the public URL serving the object stored under key
func (s *ImageStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucket, key)
}

// Delete removes the object stored under key. Callers on the project
// delete/update paths treat failures as best-effort and only log them.
func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return errs.NewObjectDeleteError(key, err)
	}
	return nil
}

// DeleteByURL resolves a public URL back to its object key and deletes
// it. Rows written since the image_path column exists carry the key
// directly; this is the fallback for older rows that only stored the URL.
func (s *ImageStore) DeleteByURL(ctx context.Context, publicURL string) error {
	key, ok := s.ObjectKey(publicURL)
	if !ok {
		return errs.NewInvalidFieldError("url", "not within the image bucket namespace")
	}
	return s.Delete(ctx, key)
}

// ObjectKey extracts the storage key from a public URL. The URL must
// point into this store's bucket namespace.
func (s *ImageStore) ObjectKey(publicURL string) (string, bool) {
	trimmed, _, _ := strings.Cut(publicURL, "?")

	if prefix := s.publicBaseURL + "/" + s.bucket + "/"; strings.HasPrefix(trimmed, prefix) {
		key := strings.TrimPrefix(trimmed, prefix)
		return key, key != ""
	}

	// Legacy rows may predate the configured base URL; fall back to the
	// bucket-name-prefixed convention.
	if _, after, found := strings.Cut(trimmed, "/"+s.bucket+"/"); found {
		return after, after != ""
	}

	return "", false
}

// BucketExists is the readiness probe the frontend polls before
// allowing uploads; distinct from Upload's own existence check.
func (s *ImageStore) BucketExists(ctx context.Context) (bool, error) {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		if isBucketMissing(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// isBucketMissing reports whether err means the bucket itself is absent
func isBucketMissing(err error) bool {
	var noSuchBucket *types.NoSuchBucket
	if errors.As(err, &noSuchBucket) {
		return true
	}

	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return true
	}

	// S3-compatible stores are inconsistent about modeled error types;
	// fall back to the wire error code.
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NoSuchBucket" || code == "NotFound"
	}

	return false
}
