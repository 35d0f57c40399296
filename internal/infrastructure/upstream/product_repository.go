package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/grocery/admin/internal/domain/catalog"
)

// ProductRepository implements catalog.ProductRepository over the remote store
type ProductRepository struct {
	client *Client
}

// NewProductRepository creates a product repository
func NewProductRepository(client *Client) *ProductRepository {
	return &ProductRepository{client: client}
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/products", Path: "/products"})
	if err != nil {
		return nil, err
	}
	return decodeList[catalog.Product](resp.Body, "products")
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/products/:id", Path: "/products/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Product](resp.Body, "product")
}

func (r *ProductRepository) Create(ctx context.Context, draft catalog.ProductDraft) (*catalog.Product, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodPost, Route: "/products", Path: "/products", Body: draft})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Product](resp.Body, "product")
}

func (r *ProductRepository) Update(ctx context.Context, id string, draft catalog.ProductDraft) (*catalog.Product, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodPut, Route: "/products/:id", Path: "/products/" + url.PathEscape(id), Body: draft})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Product](resp.Body, "product")
}

// SetActive sends a partial update carrying only the isActive flag
func (r *ProductRepository) SetActive(ctx context.Context, id string, active bool) (*catalog.Product, error) {
	resp, err := r.client.Do(ctx, Request{
		Method: http.MethodPut,
		Route:  "/products/:id",
		Path:   "/products/" + url.PathEscape(id),
		Body:   map[string]bool{"isActive": active},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[catalog.Product](resp.Body, "product")
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Do(ctx, Request{Method: http.MethodDelete, Route: "/products/:id", Path: "/products/" + url.PathEscape(id)})
	return err
}

var _ catalog.ProductRepository = (*ProductRepository)(nil)
