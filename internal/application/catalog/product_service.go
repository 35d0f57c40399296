package catalog

import (
	"context"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/listing"
	"github.com/grocery/admin/internal/domain/shared"
	"github.com/grocery/admin/internal/infrastructure/telemetry"
)

// Fallback messages shown when the remote store gives no reason
const (
	msgFetchProducts = "Failed to fetch products"
	msgFetchProduct  = "Failed to fetch product"
	msgSaveProduct   = "Product save failed"
	msgToggleProduct = "Failed to update product status"
	msgDeleteProduct = "Failed to delete product"
)

// ProductService serves the product screens from the products slice
type ProductService struct {
	repo     catalog.ProductRepository
	images   display.ImageResolver
	settings state.Settings
	products *state.Slice[catalog.Product]
}

// NewProductService creates a new ProductService
func NewProductService(repo catalog.ProductRepository, images display.ImageResolver, settings state.Settings) *ProductService {
	return &ProductService{
		repo:     repo,
		images:   images,
		settings: settings,
		products: state.New("products", msgFetchProducts,
			func(p catalog.Product) string { return p.ID },
			settings.SliceOptions()...),
	}
}

// Slice exposes the products slice to other services
func (s *ProductService) Slice() *state.Slice[catalog.Product] {
	return s.products
}

// Fetch reloads every product from the remote store
func (s *ProductService) Fetch(ctx context.Context) ([]catalog.Product, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "fetch")
	defer span.End()

	items, err := s.products.Load(ctx, s.repo.FindAll)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(items))
	return items, nil
}

// Current returns the cached products, reloading when stale or when refresh is set
func (s *ProductService) Current(ctx context.Context, refresh bool) ([]catalog.Product, error) {
	return state.Current(ctx, s.products, s.settings.CacheTTL, refresh, s.Fetch)
}

// List returns the product table for the given filters. Products carry no
// creation date, so the date selector does not apply.
func (s *ProductService) List(ctx context.Context, criteria listing.Criteria, refresh bool) (*state.Page[ProductRow], error) {
	items, err := s.Current(ctx, refresh)
	if err != nil {
		return nil, err
	}
	criteria.Date = ""
	filtered := listing.Filter(items, criteria, s.settings.Location)
	page := state.NewPage(filtered, len(items), s.products.Snapshot(), func(p catalog.Product) ProductRow {
		return NewProductRow(p, s.images)
	})
	page.Categories = listing.DistinctCategories(items)
	return &page, nil
}

// Get fetches one product and refreshes its copy in the slice
func (s *ProductService) Get(ctx context.Context, id string) (*ProductDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "get", telemetry.SpanAttrProductID, id)
	defer span.End()

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgFetchProduct)
	}
	s.products.Upsert(*p)
	detail := NewProductDetail(*p, s.images)
	return &detail, nil
}

// Create validates the draft and creates the product upstream
func (s *ProductService) Create(ctx context.Context, draft catalog.ProductDraft) (*ProductDetail, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	p, err := s.repo.Create(ctx, draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgSaveProduct)
	}
	s.products.Upsert(*p)
	detail := NewProductDetail(*p, s.images)
	return &detail, nil
}

// Update replaces the editable fields of a product
func (s *ProductService) Update(ctx context.Context, id string, draft catalog.ProductDraft) (*ProductDetail, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", telemetry.SpanAttrProductID, id)
	defer span.End()

	p, err := s.repo.Update(ctx, id, draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgSaveProduct)
	}
	s.products.Upsert(*p)
	detail := NewProductDetail(*p, s.images)
	return &detail, nil
}

// ToggleActive flips the active flag from its last known value
func (s *ProductService) ToggleActive(ctx context.Context, id string) (*ProductRow, error) {
	current, ok := s.products.Find(id)
	if !ok {
		p, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, state.Describe(err, msgToggleProduct)
		}
		current = *p
	}
	return s.SetActive(ctx, id, !current.Active())
}

// SetActive sets the active flag explicitly
func (s *ProductService) SetActive(ctx context.Context, id string, active bool) (*ProductRow, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "set_active",
		telemetry.SpanAttrProductID, id, "active", active)
	defer span.End()

	p, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgToggleProduct)
	}
	s.products.Upsert(*p)
	row := NewProductRow(*p, s.images)
	return &row, nil
}

// Delete removes a product. Without confirm nothing is sent upstream.
func (s *ProductService) Delete(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return shared.ErrConfirmationRequired
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "delete", telemetry.SpanAttrProductID, id)
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return state.Describe(err, msgDeleteProduct)
	}
	s.products.Remove(id)
	return nil
}
