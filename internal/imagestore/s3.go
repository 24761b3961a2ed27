// Package imagestore persists analysis photos in a remote object store.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/quicksortapp/quicksort/internal/common"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements service.ImageStore on top of S3.
type S3Store struct {
	client S3API
	bucket string
	region string
}

// NewS3Store creates an image store for the given bucket using the ambient
// AWS credential chain.
func NewS3Store(ctx context.Context, bucket, region string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("%w: image bucket is required", common.ErrMissingConfig)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// NewS3StoreWithClient creates an image store with an explicit client,
// used by tests.
func NewS3StoreWithClient(client S3API, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// Upload stores the image under the user's path and returns its URL.
func (s *S3Store) Upload(ctx context.Context, userID string, body io.Reader, contentType string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("%w: missing user ID", common.ErrUploadFailed)
	}
	if contentType == "" {
		contentType = ContentTypeJPEG
	}

	key := BuildKey(userID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	url := objectURL(s.bucket, s.region, key)
	slog.Debug("uploaded image", "user_id", userID, "key", key)
	return url, nil
}

// Delete removes a previously uploaded image by its URL.
func (s *S3Store) Delete(ctx context.Context, imageURL string) error {
	key, err := keyFromURL(s.bucket, imageURL)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	slog.Debug("deleted image", "key", key)
	return nil
}
