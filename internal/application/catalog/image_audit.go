package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/grocery/admin/internal/domain/catalog"
)

// ImageAuditFile is the default name of the product image audit report
const ImageAuditFile = "product_images_log.json"

// ImageAuditEntry records the stored image of one product
type ImageAuditEntry struct {
	Name     string `json:"name"`
	Image    string `json:"image"`
	Variants int    `json:"variants"`
}

// ReportSink receives a finished report
type ReportSink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// NewImageAudit lists each product's raw image path and variant count, in upstream order
func NewImageAudit(products []catalog.Product) []ImageAuditEntry {
	entries := make([]ImageAuditEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, ImageAuditEntry{
			Name:     p.Name,
			Image:    p.Image,
			Variants: len(p.Variants),
		})
	}
	return entries
}

// ImageAuditor writes the product image audit report
type ImageAuditor struct {
	products catalog.ProductRepository
	sink     ReportSink
	logger   *zap.Logger
}

// NewImageAuditor creates an auditor reading from repo and writing to sink
func NewImageAuditor(repo catalog.ProductRepository, sink ReportSink, logger *zap.Logger) *ImageAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageAuditor{products: repo, sink: sink, logger: logger}
}

// Run fetches every product and stores the audit as indented JSON under name.
// It returns where the report was written and how many products it lists.
func (a *ImageAuditor) Run(ctx context.Context, name string) (string, int, error) {
	if name == "" {
		name = ImageAuditFile
	}

	products, err := a.products.FindAll(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("fetching products: %w", err)
	}

	entries := NewImageAudit(products)
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("encoding audit: %w", err)
	}

	location, err := a.sink.Put(ctx, name, "application/json", data)
	if err != nil {
		return "", 0, fmt.Errorf("writing audit: %w", err)
	}
	a.logger.Info("Product image audit written",
		zap.String("location", location),
		zap.Int("products", len(entries)),
	)
	return location, len(entries), nil
}
