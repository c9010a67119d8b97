package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the S3-compatible endpoint settings (R2, MinIO, AWS).
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string // when set, object URLs are PublicBaseURL/key instead of presigned
	PathStyle       bool
}

// Enabled reports whether enough is configured to talk to a bucket.
func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.SecretAccessKey != ""
}

type S3Client struct {
	Client    *s3.Client
	Presigner *s3.PresignClient
	Bucket    string
	publicURL string
}

// NewClient initializes an S3-compatible client.
func NewClient(ctx context.Context, c Config) (*S3Client, error) {
	if !c.Enabled() {
		return nil, errors.New("s3: bucket and credentials are required")
	}
	region := c.Region
	if region == "" {
		region = "auto"
	}

	creds := credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, "")

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.PathStyle
	})

	return &S3Client{
		Client:    client,
		Presigner: s3.NewPresignClient(client),
		Bucket:    c.Bucket,
		publicURL: strings.TrimRight(c.PublicBaseURL, "/"),
	}, nil
}

// PutObject uploads body under objectKey. size must be known; S3-compatible
// stores reject chunked uploads without a content length.
func (s *S3Client) PutObject(ctx context.Context, objectKey, contentType string, body io.Reader, size int64) error {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(objectKey),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return fmt.Errorf("s3: put object %s: %w", objectKey, err)
	}
	return nil
}

// ObjectURL returns the URL clients should use for objectKey: the public
// base URL when configured, otherwise a presigned GET.
func (s *S3Client) ObjectURL(ctx context.Context, objectKey string) (string, error) {
	if s.publicURL != "" {
		return s.publicURL + "/" + objectKey, nil
	}
	return s.GeneratePresignedDownloadURL(ctx, objectKey)
}

// GeneratePresignedDownloadURL creates a presigned GET URL for downloading.
func (s *S3Client) GeneratePresignedDownloadURL(ctx context.Context, objectKey string) (string, error) {
	req, err := s.Presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(objectKey),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 7 * 24 * time.Hour // SigV4 maximum
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}
