package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/grocery/admin/internal/domain/catalog"
)

// CategoryRepository implements catalog.CategoryRepository over the remote store
type CategoryRepository struct {
	client *Client
}

// NewCategoryRepository creates a category repository
func NewCategoryRepository(client *Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/categories", Path: "/categories"})
	if err != nil {
		return nil, err
	}
	return decodeList[catalog.Category](resp.Body, "categories")
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/categories/:id", Path: "/categories/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Category](resp.Body, "category")
}

func (r *CategoryRepository) Create(ctx context.Context, draft catalog.CategoryDraft) (*catalog.Category, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodPost, Route: "/categories", Path: "/categories", Body: draft})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Category](resp.Body, "category")
}

func (r *CategoryRepository) Update(ctx context.Context, id string, draft catalog.CategoryDraft) (*catalog.Category, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodPut, Route: "/categories/:id", Path: "/categories/" + url.PathEscape(id), Body: draft})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Category](resp.Body, "category")
}

// SetActive sends a partial update carrying only the isActive flag
func (r *CategoryRepository) SetActive(ctx context.Context, id string, active bool) (*catalog.Category, error) {
	resp, err := r.client.Do(ctx, Request{
		Method: http.MethodPut,
		Route:  "/categories/:id",
		Path:   "/categories/" + url.PathEscape(id),
		Body:   map[string]bool{"isActive": active},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Category](resp.Body, "category")
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, Request{Method: http.MethodDelete, Route: "/categories/:id", Path: "/categories/" + url.PathEscape(id)})
	return err
}

var _ catalog.CategoryRepository = (*CategoryRepository)(nil)
