package catalog

import (
	"context"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/listing"
	"github.com/grocery/admin/internal/domain/shared"
	"github.com/grocery/admin/internal/infrastructure/telemetry"
)

const (
	msgFetchCategories = "Failed to fetch categories"
	msgFetchCategory   = "Failed to fetch category"
	msgSaveCategory    = "Category save failed"
	msgToggleCategory  = "Failed to update category status"
	msgDeleteCategory  = "Failed to delete category"
)

// CategoryService serves the category screens from the categories slice
type CategoryService struct {
	repo       catalog.CategoryRepository
	settings   state.Settings
	categories *state.Slice[catalog.Category]
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo catalog.CategoryRepository, settings state.Settings) *CategoryService {
	return &CategoryService{
		repo:     repo,
		settings: settings,
		categories: state.New("categories", msgFetchCategories,
			func(c catalog.Category) string { return c.ID },
			settings.SliceOptions()...),
	}
}

// Fetch reloads every category
func (s *CategoryService) Fetch(ctx context.Context) ([]catalog.Category, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "fetch")
	defer span.End()

	items, err := s.categories.Load(ctx, s.repo.FindAll)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(items))
	return items, nil
}

// List returns the category table; the category and date selectors do not apply to categories
func (s *CategoryService) List(ctx context.Context, criteria listing.Criteria, refresh bool) (*state.Page[CategoryRow], error) {
	items, err := state.Current(ctx, s.categories, s.settings.CacheTTL, refresh, s.Fetch)
	if err != nil {
		return nil, err
	}
	criteria.Category = listing.All
	criteria.Date = ""
	filtered := listing.Filter(items, criteria, s.settings.Location)
	page := state.NewPage(filtered, len(items), s.categories.Snapshot(), NewCategoryRow)
	return &page, nil
}

// Get fetches one category for the editor
func (s *CategoryService) Get(ctx context.Context, id string) (*CategoryDetail, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "get", telemetry.SpanAttrCategoryID, id)
	defer span.End()

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgFetchCategory)
	}
	s.categories.Upsert(*c)
	return &CategoryDetail{Category: *c, Row: NewCategoryRow(*c)}, nil
}

// Create fills editor defaults and creates the category
func (s *CategoryService) Create(ctx context.Context, draft catalog.CategoryDraft) (*CategoryDetail, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "create")
	defer span.End()

	c, err := s.repo.Create(ctx, draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgSaveCategory)
	}
	s.categories.Upsert(*c)
	return &CategoryDetail{Category: *c, Row: NewCategoryRow(*c)}, nil
}

// Update saves an edited category
func (s *CategoryService) Update(ctx context.Context, id string, draft catalog.CategoryDraft) (*CategoryDetail, error) {
	if err := draft.Normalize(); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "update", telemetry.SpanAttrCategoryID, id)
	defer span.End()

	c, err := s.repo.Update(ctx, id, draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgSaveCategory)
	}
	s.categories.Upsert(*c)
	return &CategoryDetail{Category: *c, Row: NewCategoryRow(*c)}, nil
}

// ToggleActive flips the active flag from its last known value
func (s *CategoryService) ToggleActive(ctx context.Context, id string) (*CategoryRow, error) {
	current, ok := s.categories.Find(id)
	if !ok {
		c, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, state.Describe(err, msgToggleCategory)
		}
		current = *c
	}
	return s.SetActive(ctx, id, !current.Active())
}

// SetActive sets the active flag explicitly
func (s *CategoryService) SetActive(ctx context.Context, id string, active bool) (*CategoryRow, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "set_active",
		telemetry.SpanAttrCategoryID, id, "active", active)
	defer span.End()

	c, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgToggleCategory)
	}
	s.categories.Upsert(*c)
	row := NewCategoryRow(*c)
	return &row, nil
}

// Delete removes a category once confirmed
func (s *CategoryService) Delete(ctx context.Context, id string, confirm bool) error {
	if !confirm {
		return shared.ErrConfirmationRequired
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "category", "delete", telemetry.SpanAttrCategoryID, id)
	defer span.End()

	if err := s.repo.Delete(ctx, id); err != nil {
		telemetry.RecordError(span, err)
		return state.Describe(err, msgDeleteCategory)
	}
	s.categories.Remove(id)
	return nil
}
