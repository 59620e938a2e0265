package infra

import (
	"context"
	"fmt"
	"time"

	appconfig "github.com/wbtomas-png/ordreflyt-sub001/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Storage issues presigned URLs against the portal's attachment bucket.
// Uploads and downloads go straight between browser and object storage;
// the backend never proxies file bytes.
type Storage struct {
	presigner *s3.PresignClient
	bucket    string
}

func NewStorage(ctx context.Context, cfg *appconfig.Config) (*Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			// S3-compatible endpoints (MinIO etc.) need path-style addressing.
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Storage{
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.S3Bucket,
	}, nil
}

// PresignUpload returns a presigned PUT URL for the given key.
func (s *Storage) PresignUpload(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	out, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("storage: presign put %q: %w", key, err)
	}
	return out.URL, nil
}

// PresignDownload returns a presigned GET URL for the given key.
func (s *Storage) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	out, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", fmt.Errorf("storage: presign get %q: %w", key, err)
	}
	return out.URL, nil
}
