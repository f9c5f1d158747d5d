// Package export uploads rendered graph snapshots to S3-compatible storage
// and hands out short-lived download links.
package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/substratehq/graphview/internal/util"
)

const linkExpiry = 15 * time.Minute

// NewS3Client builds an S3 client from AWS_* environment variables. It
// returns nil when no endpoint is configured, which disables exports.
func NewS3Client(ctx context.Context) *s3.Client {
	endpoint := util.GetEnv("AWS_ENDPOINT")
	if endpoint == "" {
		return nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(util.GetEnv("AWS_REGION")),
		awsconfig.WithBaseEndpoint(endpoint),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			util.GetEnv("AWS_ACCESS_KEY"),
			util.GetEnv("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// UploadSnapshot stores a rendered PNG under graphs/{basketID}/{nanoid}.png
// and returns the object key.
func UploadSnapshot(ctx context.Context, client *s3.Client, basketID string, data []byte) (string, error) {
	if client == nil {
		return "", fmt.Errorf("snapshot export is not configured")
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate snapshot id: %w", err)
	}
	key := fmt.Sprintf("graphs/%s/%s.png", basketID, id)

	bucket := util.GetEnv("AWS_BUCKET")
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}
	return key, nil
}

// PresignDownload returns a time-limited GET URL for an exported snapshot.
func PresignDownload(ctx context.Context, client *s3.Client, key string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("snapshot export is not configured")
	}

	presigner := s3.NewPresignClient(client)
	out, err := presigner.PresignGetObject(
		ctx,
		&s3.GetObjectInput{
			Bucket: aws.String(util.GetEnv("AWS_BUCKET")),
			Key:    aws.String(key),
		},
		s3.WithPresignExpires(linkExpiry),
	)
	if err != nil {
		return "", fmt.Errorf("failed to presign download link: %w", err)
	}
	return out.URL, nil
}
