package s3infra

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-shop-api/internal/config"
)

// Store wraps object storage operations for product media. The backend is
// Cloudflare R2, which speaks the S3 API.
type Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewClient creates an S3 client pointed at the R2 account endpoint.
// Returns an error when R2 is not configured; media endpoints are then
// disabled by the router.
func NewClient(cfg *config.Config) (*s3.Client, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" {
		return nil, fmt.Errorf("r2 storage is not configured")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		// R2 ignores the region but the SDK requires one.
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})
	return client, nil
}

// NewStore creates a Store with the given client, bucket and public base URL.
func NewStore(client *s3.Client, bucket, publicURL string) *Store {
	return &Store{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// Upload streams an object under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	if s.publicURL != "" {
		return fmt.Sprintf("%s/%s", s.publicURL, key), nil
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

// Delete removes an object.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// DetectContentType maps a filename to an image content type.
func DetectContentType(filename string) string {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
