// Package storage wraps the S3 bucket holding listing images. The client is
// constructed once at bootstrap and injected wherever image access is
// needed; nothing here is process-global.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type ImageStore struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
}

// NewImageStore builds the S3 client from BUCKET_NAME, BUCKET_REGION,
// ACCESS_KEY and SECRET_ACCESS_KEY. All four are required.
func NewImageStore(ctx context.Context) (*ImageStore, error) {
	required := []string{"BUCKET_NAME", "BUCKET_REGION", "ACCESS_KEY", "SECRET_ACCESS_KEY"}
	for _, key := range required {
		if os.Getenv(key) == "" {
			return nil, fmt.Errorf("missing required AWS config: %s", key)
		}
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(os.Getenv("BUCKET_REGION")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("ACCESS_KEY"),
			os.Getenv("SECRET_ACCESS_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &ImageStore{
		bucket:  os.Getenv("BUCKET_NAME"),
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (s *ImageStore) Upload(ctx context.Context, key string, body io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("uploading object %s: %w", key, err)
	}
	return nil
}

// SignGetURL mints a temporary GET URL for a stored image.
func (s *ImageStore) SignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("signing URL for %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}
