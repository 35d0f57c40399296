package trade

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/listing"
	"github.com/grocery/admin/internal/domain/shared"
	"github.com/grocery/admin/internal/domain/trade"
	"github.com/grocery/admin/internal/infrastructure/logger"
	"github.com/grocery/admin/internal/infrastructure/telemetry"
)

const (
	msgFetchOrders  = "Failed to fetch orders"
	msgFetchOrder   = "Failed to fetch order"
	msgUpdateStatus = "Failed to update order status"
)

// OrderService serves the orders screen from the orders slice
type OrderService struct {
	repo     trade.OrderRepository
	images   display.ImageResolver
	settings state.Settings
	orders   *state.Slice[trade.Order]
}

// NewOrderService creates a new OrderService
func NewOrderService(repo trade.OrderRepository, images display.ImageResolver, settings state.Settings) *OrderService {
	return &OrderService{
		repo:     repo,
		images:   images,
		settings: settings,
		orders: state.New("orders", msgFetchOrders,
			func(o trade.Order) string { return o.ID },
			settings.SliceOptions()...),
	}
}

// Slice exposes the orders slice to other services
func (s *OrderService) Slice() *state.Slice[trade.Order] {
	return s.orders
}

// Fetch reloads every order
func (s *OrderService) Fetch(ctx context.Context) ([]trade.Order, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "fetch")
	defer span.End()

	items, err := s.orders.Load(ctx, s.repo.FindAll)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(items))
	return items, nil
}

// Current returns the cached orders, reloading when stale or when refresh is set
func (s *OrderService) Current(ctx context.Context, refresh bool) ([]trade.Order, error) {
	return state.Current(ctx, s.orders, s.settings.CacheTTL, refresh, s.Fetch)
}

// List returns the orders table. Orders span categories, so the category selector
// does not apply. A non-empty selectedID opens that order as well; an unknown
// selectedID is ignored so a stale link still shows the table.
func (s *OrderService) List(ctx context.Context, criteria listing.Criteria, selectedID string, refresh bool) (*OrderList, error) {
	items, err := s.Current(ctx, refresh)
	if err != nil {
		return nil, err
	}
	criteria.Category = listing.All
	filtered := listing.Filter(items, criteria, s.settings.Location)
	list := &OrderList{
		Page: state.NewPage(filtered, len(items), s.orders.Snapshot(), func(o trade.Order) OrderRow {
			return NewOrderRow(o, s.settings.Location)
		}),
	}
	if selectedID != "" {
		detail, err := s.Get(ctx, selectedID)
		switch {
		case err == nil:
			list.Selected = detail
		case errors.Is(err, shared.ErrNotFound):
			logger.L(ctx).Debug("Deep-linked order not found", zap.String("order_id", selectedID))
		default:
			return nil, err
		}
	}
	return list, nil
}

// Get returns the order detail, from the slice when present
func (s *OrderService) Get(ctx context.Context, id string) (*OrderDetail, error) {
	o, ok := s.orders.Find(id)
	if !ok {
		ctx, span := telemetry.StartServiceSpan(ctx, "order", "get", telemetry.SpanAttrOrderID, id)
		defer span.End()

		found, err := s.repo.FindByID(ctx, id)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, state.Describe(err, msgFetchOrder)
		}
		o = *found
	}
	detail := NewOrderDetail(o, s.images, s.settings.Location)
	return &detail, nil
}

// UpdateStatus validates the status against the lifecycle enum and stores it upstream
func (s *OrderService) UpdateStatus(ctx context.Context, id, status string) (*OrderRow, error) {
	next, err := trade.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "order", "update_status",
		telemetry.SpanAttrOrderID, id, telemetry.SpanAttrOrderStatus, next.String())
	defer span.End()

	o, err := s.repo.UpdateStatus(ctx, id, next)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, state.Describe(err, msgUpdateStatus)
	}
	s.orders.Upsert(*o)

	logger.L(ctx).Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", next.String()))

	row := NewOrderRow(*o, s.settings.Location)
	return &row, nil
}
