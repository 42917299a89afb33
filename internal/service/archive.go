package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/mealplanner/backend/config"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignFunc func(ctx context.Context, key string, expiration time.Duration) (string, error)

// S3Archive uploads each generated shopping list to S3 and returns a
// presigned link to it.
type S3Archive struct {
	client     objectPutter
	bucket     string
	presign    presignFunc
	linkExpiry time.Duration
}

func NewS3Archive(s3Cfg *config.S3Config, linkExpiry time.Duration) *S3Archive {
	return &S3Archive{
		client:     s3Cfg.Client,
		bucket:     s3Cfg.BucketName,
		presign:    s3Cfg.GeneratePresignedURL,
		linkExpiry: linkExpiry,
	}
}

func (a *S3Archive) Archive(ctx context.Context, list *ShoppingList) (string, error) {
	key := fmt.Sprintf("shopping-lists/%s/%s.html",
		list.GeneratedAt.UTC().Format("2006-01-02"), uuid.New().String())

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(list.HTML),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url, err := a.presign(ctx, key, a.linkExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return url, nil
}
