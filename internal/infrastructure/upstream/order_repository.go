package upstream

import (
	"context"
	"net/http"
	"net/url"

	"github.com/grocery/admin/internal/domain/trade"
)

// OrderRepository implements trade.OrderRepository over the remote store
type OrderRepository struct {
	client *Client
}

// NewOrderRepository creates an order repository
func NewOrderRepository(client *Client) *OrderRepository {
	return &OrderRepository{client: client}
}

func (r *OrderRepository) FindAll(ctx context.Context) ([]trade.Order, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/orders", Path: "/orders"})
	if err != nil {
		return nil, err
	}
	return decodeList[trade.Order](resp.Body, "orders")
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*trade.Order, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/orders/:id", Path: "/orders/" + url.PathEscape(id)})
	if err != nil {
		return nil, err
	}
	return decodeOne[trade.Order](resp.Body, "order")
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status trade.OrderStatus) (*trade.Order, error) {
	resp, err := r.client.Do(ctx, Request{
		Method: http.MethodPut,
		Route:  "/orders/:id/status",
		Path:   "/orders/" + url.PathEscape(id) + "/status",
		Body:   map[string]string{"status": status.String()},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[trade.Order](resp.Body, "order")
}

var _ trade.OrderRepository = (*OrderRepository)(nil)
