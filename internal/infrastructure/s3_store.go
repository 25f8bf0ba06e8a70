package infrastructure

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"solaretl/pkg/logger"
	"solaretl/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// implements the ObjectStore interface on top of S3
type S3Store struct {
	client  *s3.Client
	bucket  string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// creates a new S3-backed object store; credentials come from the default
// AWS provider chain, not process-global state
func NewS3Store(ctx context.Context, bucket, region string, logger *logger.Logger, metrics *metrics.Metrics) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  bucket,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Put uploads one object in a single call; it either fully succeeds or
// fails, no partial object is ever visible.
func (s *S3Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	start := time.Now()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})

	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordObjectUpload("failed", 0)
		s.metrics.RecordExternalAPICall("object_store", "error", duration)
		return fmt.Errorf("failed to upload s3://%s/%s: %w", s.bucket, key, err)
	}

	s.metrics.RecordObjectUpload("success", len(body))
	s.metrics.RecordExternalAPICall("object_store", "success", duration)

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"bucket":   s.bucket,
		"key":      key,
		"bytes":    len(body),
		"duration": duration,
	}).Info("Uploaded object")

	return nil
}
