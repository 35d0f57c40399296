package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/listing"
	"github.com/grocery/admin/internal/domain/shared"
)

type messageError struct{ msg string }

func (e messageError) Error() string         { return "upstream: " + e.msg }
func (e messageError) PublicMessage() string { return e.msg }

func boolPtr(b bool) *bool { return &b }

func sampleProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID: "p1", Name: "Alphonso Mango", SKU: "MNG-1", Image: "uploads/mango.png",
			Category: &catalog.CategoryRef{ID: "c1", Name: "Fruits"},
			IsActive: boolPtr(true),
			Variants: []catalog.Variant{{Unit: "1kg", Price: decimal.NewFromInt(250), Stock: 12}, {Unit: "500g", Price: decimal.NewFromInt(130), Stock: 3}},
		},
		{
			ID: "p2", Name: "Toned Milk", SKU: "MLK-2",
			Category: &catalog.CategoryRef{ID: "c2", Name: "Dairy"},
			IsActive: boolPtr(false),
			Variants: []catalog.Variant{{Unit: "1l", Price: decimal.RequireFromString("54.5"), Stock: 0}},
		},
		{ID: "p3", Name: "Mango Pickle", Category: &catalog.CategoryRef{Name: "Pantry"}, IsActive: boolPtr(true)},
	}
}

func newProductService(repo *MockProductRepository, now *time.Time) *ProductService {
	return NewProductService(repo, display.NewImageResolver("https://cdn.test", "https://cdn.test/ph.png"), state.Settings{
		CacheTTL: time.Minute,
		Clock:    func() time.Time { return *now },
	})
}

func TestProductService_ListFiltersAndCaches(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newProductService(repo, &now)
	repo.On("FindAll", mock.Anything).Return(sampleProducts(), nil).Once()

	page, err := svc.List(context.Background(), listing.Criteria{Search: "mango"}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, "Showing 2 entries", page.Summary)
	assert.Equal(t, []string{"Fruits", "Dairy", "Pantry"}, page.Categories)
	assert.Equal(t, state.PhaseSucceeded, page.Phase)

	row := page.Rows[0]
	assert.Equal(t, "p1", row.ID)
	assert.Equal(t, "https://cdn.test/uploads/mango.png", row.Image)
	assert.Equal(t, "1kg", row.Unit)
	assert.Equal(t, "₹250", row.PriceLabel)
	assert.Equal(t, 15, row.TotalStock)
	assert.Equal(t, "In Stock (15)", row.StockLabel)
	assert.Equal(t, 1, row.LowStockVariants)
	assert.Equal(t, "https://cdn.test/ph.png", page.Rows[1].Image)

	// served from the slice while fresh
	page, err = svc.List(context.Background(), listing.Criteria{Status: "inactive"}, false)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "p2", page.Rows[0].ID)
	assert.Equal(t, "Out of Stock", page.Rows[0].StockLabel)
	repo.AssertNumberOfCalls(t, "FindAll", 1)

	// stale after the TTL
	now = now.Add(2 * time.Minute)
	repo.On("FindAll", mock.Anything).Return(sampleProducts()[:1], nil).Once()
	page, err = svc.List(context.Background(), listing.Criteria{}, false)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	repo.AssertExpectations(t)
}

func TestProductService_ListRefreshForcesReload(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)
	repo.On("FindAll", mock.Anything).Return(sampleProducts(), nil).Twice()

	_, err := svc.List(context.Background(), listing.Criteria{}, false)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), listing.Criteria{}, true)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

type loadRecorder struct {
	outcomes []string
}

func (r *loadRecorder) ObserveLoad(slice, outcome string, _ time.Duration) {
	r.outcomes = append(r.outcomes, slice+":"+outcome)
}

func TestProductService_ListLoadsOncePerMiss(t *testing.T) {
	repo := new(MockProductRepository)
	obs := &loadRecorder{}
	svc := NewProductService(repo, display.NewImageResolver("", ""), state.Settings{CacheTTL: time.Minute, Observer: obs})
	repo.On("FindAll", mock.Anything).Return(sampleProducts(), nil).Twice()

	_, err := svc.List(context.Background(), listing.Criteria{}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"products:succeeded"}, obs.outcomes)

	_, err = svc.List(context.Background(), listing.Criteria{}, false)
	require.NoError(t, err)
	assert.Len(t, obs.outcomes, 1, "fresh slice needs no load")

	_, err = svc.List(context.Background(), listing.Criteria{}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"products:succeeded", "products:succeeded"}, obs.outcomes)
	repo.AssertExpectations(t)
}

func TestProductService_ListIgnoresDateSelector(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)
	repo.On("FindAll", mock.Anything).Return(sampleProducts(), nil).Once()

	page, err := svc.List(context.Background(), listing.Criteria{Date: "2024-03-01"}, false)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)

	page, err = svc.List(context.Background(), listing.Criteria{Date: "2024-03-01", Status: "inactive"}, false)
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	assert.Equal(t, "p2", page.Rows[0].ID)
}

func TestProductService_FetchFailureMessage(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)

	repo.On("FindAll", mock.Anything).Return(nil, errors.New("dial tcp: refused")).Once()
	_, err := svc.List(context.Background(), listing.Criteria{}, false)
	require.Error(t, err)
	assert.Equal(t, "Failed to fetch products", err.Error())
	assert.Equal(t, state.PhaseFailed, svc.Slice().Snapshot().Phase)

	repo.On("FindAll", mock.Anything).Return(nil, messageError{"Database offline"}).Once()
	_, err = svc.Fetch(context.Background())
	assert.Equal(t, "Database offline", err.Error())
}

func TestProductService_CreateValidatesDraft(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)

	_, err := svc.Create(context.Background(), catalog.ProductDraft{Name: "   "})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_CreateAppendsToSlice(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)

	created := &catalog.Product{ID: "p9", Name: "Paneer", Images: []string{"C:\\img\\paneer.jpg", "http://cdn.other/p.png"}}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(d catalog.ProductDraft) bool { return d.Name == "Paneer" })).Return(created, nil)

	detail, err := svc.Create(context.Background(), catalog.ProductDraft{Name: " Paneer "})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.test/uploads/paneer.jpg", "http://cdn.other/p.png"}, detail.ImageURLs)

	_, ok := svc.Slice().Find("p9")
	assert.True(t, ok)
}

func TestProductService_UpdateFailureUsesUpstreamMessage(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)
	repo.On("Update", mock.Anything, "p1", mock.Anything).Return(nil, messageError{"SKU already exists"})

	_, err := svc.Update(context.Background(), "p1", catalog.ProductDraft{Name: "Mango"})
	require.Error(t, err)
	assert.Equal(t, "SKU already exists", err.Error())
}

func TestProductService_ToggleActive(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)
	repo.On("FindAll", mock.Anything).Return(sampleProducts(), nil)
	_, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	// p2 is inactive in the slice, so the toggle activates it
	repo.On("SetActive", mock.Anything, "p2", true).Return(&catalog.Product{ID: "p2", Name: "Toned Milk", IsActive: boolPtr(true)}, nil)
	row, err := svc.ToggleActive(context.Background(), "p2")
	require.NoError(t, err)
	assert.True(t, row.Active)

	p, _ := svc.Slice().Find("p2")
	assert.True(t, p.Active())
	repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProductService_ToggleActiveUnknownProduct(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)

	// a legacy record without the flag reads as off, so the toggle switches it on
	repo.On("FindByID", mock.Anything, "p7").Return(&catalog.Product{ID: "p7"}, nil)
	repo.On("SetActive", mock.Anything, "p7", true).Return(&catalog.Product{ID: "p7", IsActive: boolPtr(true)}, nil)

	row, err := svc.ToggleActive(context.Background(), "p7")
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusActive, row.Status)
}

func TestProductService_DeleteRequiresConfirmation(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)
	repo.On("FindAll", mock.Anything).Return(sampleProducts(), nil)
	_, _ = svc.Fetch(context.Background())

	err := svc.Delete(context.Background(), "p1", false)
	assert.ErrorIs(t, err, shared.ErrConfirmationRequired)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	repo.On("Delete", mock.Anything, "p1").Return(nil)
	require.NoError(t, svc.Delete(context.Background(), "p1", true))
	_, ok := svc.Slice().Find("p1")
	assert.False(t, ok)
}

func TestProductService_GetNotFound(t *testing.T) {
	repo := new(MockProductRepository)
	now := time.Now()
	svc := newProductService(repo, &now)
	repo.On("FindByID", mock.Anything, "nope").Return(nil, shared.ErrNotFound)

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
