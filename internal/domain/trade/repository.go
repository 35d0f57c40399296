package trade

import "context"

// OrderRepository is the remote store view of orders
type OrderRepository interface {
	// FindAll returns orders in upstream order, newest first
	FindAll(ctx context.Context) ([]Order, error)

	// FindByID returns one order or shared.ErrNotFound
	FindByID(ctx context.Context, id string) (*Order, error)

	// UpdateStatus changes the order status and returns the stored order
	UpdateStatus(ctx context.Context, id string, status OrderStatus) (*Order, error)
}
