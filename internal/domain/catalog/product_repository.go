package catalog

import "context"

// ProductRepository is the remote store view of products
type ProductRepository interface {
	// FindAll returns every product in upstream order
	FindAll(ctx context.Context) ([]Product, error)

	// FindByID returns one product or shared.ErrNotFound
	FindByID(ctx context.Context, id string) (*Product, error)

	Create(ctx context.Context, draft ProductDraft) (*Product, error)
	Update(ctx context.Context, id string, draft ProductDraft) (*Product, error)

	// SetActive flips the isActive flag and returns the stored product
	SetActive(ctx context.Context, id string, active bool) (*Product, error)

	Delete(ctx context.Context, id string) error
}
