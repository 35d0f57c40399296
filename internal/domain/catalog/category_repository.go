package catalog

import "context"

// CategoryRepository is the remote store view of categories
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, draft CategoryDraft) (*Category, error)
	Update(ctx context.Context, id string, draft CategoryDraft) (*Category, error)
	SetActive(ctx context.Context, id string, active bool) (*Category, error)
	Delete(ctx context.Context, id string) error
}
