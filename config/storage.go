package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PhotoBucket is the S3 bucket that holds recipe photos.
type PhotoBucket struct {
	Client *s3.Client
	Name   string
	// BaseURL prefixes object keys to form public links.
	BaseURL string
}

// NewPhotoBucket builds an S3 client from the default credential chain.
// S3_ENDPOINT points it at an S3-compatible store such as MinIO.
func NewPhotoBucket(ctx context.Context, cfg *Config) (*PhotoBucket, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &PhotoBucket{
		Client:  client,
		Name:    cfg.S3Bucket,
		BaseURL: photoBaseURL(cfg),
	}, nil
}

// PublicURL is the link stored on a recipe photo.
func (b *PhotoBucket) PublicURL(key string) string {
	return b.BaseURL + "/" + strings.TrimPrefix(key, "/")
}

func photoBaseURL(cfg *Config) string {
	switch {
	case cfg.S3PublicURL != "":
		return strings.TrimRight(cfg.S3PublicURL, "/")
	case cfg.S3Endpoint != "":
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.AWSRegion)
	}
}
