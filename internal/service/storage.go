package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sashabakes/sasha-bakes/backend/config"
)

// PhotoStorage stores uploaded recipe photos and returns their public URL.
type PhotoStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// S3PhotoStorage writes photos to the configured bucket.
type S3PhotoStorage struct {
	bucket *config.PhotoBucket
	log    *zap.Logger
}

func NewS3PhotoStorage(bucket *config.PhotoBucket, log *zap.Logger) *S3PhotoStorage {
	return &S3PhotoStorage{bucket: bucket, log: log}
}

func (s *S3PhotoStorage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if s == nil || s.bucket == nil || s.bucket.Name == "" {
		return "", ErrStorageDisabled
	}
	_, err := s.bucket.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket.Name),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.bucket.PublicURL(key)
	s.log.Info("uploaded recipe photo", zap.String("url", publicURL))
	return publicURL, nil
}

func (s *S3PhotoStorage) Delete(ctx context.Context, key string) error {
	if s == nil || s.bucket == nil || s.bucket.Name == "" {
		return ErrStorageDisabled
	}
	_, err := s.bucket.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket.Name),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}

// PhotoKey builds a unique object key for a recipe photo, keeping the file extension.
func PhotoKey(recipeID uuid.UUID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.NewString(), ext)
}
