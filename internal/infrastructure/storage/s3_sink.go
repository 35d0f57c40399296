package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/grocery/admin/internal/infrastructure/config"
)

// S3Sink uploads reports to an S3-compatible bucket (AWS S3, MinIO, etc.)
type S3Sink struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3SinkOption configures an S3Sink
type S3SinkOption func(*S3Sink)

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) S3SinkOption {
	return func(s *S3Sink) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewS3Sink creates a sink from configuration. Static credentials are used when
// an access key is configured, the default AWS chain otherwise.
func NewS3Sink(ctx context.Context, cfg config.StorageConfig, opts ...S3SinkOption) (*S3Sink, error) {
	if cfg.S3Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	region := cfg.S3Region
	if region == "" {
		region = "us-east-1"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.S3AccessKey != "" {
		if cfg.S3SecretKey == "" {
			return nil, errors.New("storage secret key is required with an access key")
		}
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		if endpoint := normalizeEndpoint(cfg.S3Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	s := &S3Sink{
		client: client,
		bucket: cfg.S3Bucket,
		prefix: strings.Trim(cfg.S3Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Put uploads the report under prefix/name and returns its s3:// location
func (s *S3Sink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if name == "" {
		return "", errors.New("report name is required")
	}
	key := name
	if s.prefix != "" {
		key = path.Join(s.prefix, name)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}

	s.logger.Info("Report uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("bytes", len(data)))
	return "s3://" + s.bucket + "/" + key, nil
}

// normalizeEndpoint adds a scheme to a bare host:port endpoint
func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return "http://" + endpoint
	}
	return endpoint
}
