// Package storage writes generated reports to a local directory or an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grocery/admin/internal/infrastructure/config"
)

// Sink stores a named report and returns where it ended up
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// NewSink builds the sink selected by storage.backend
func NewSink(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Sink, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileSink(cfg.Dir), nil
	case "s3":
		return NewS3Sink(ctx, cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
