package handler

import (
	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/trade"
)

// OrderListQuery adds the deep-linked order to the list filters
type OrderListQuery struct {
	ListQuery
	ID string `form:"id" binding:"omitempty,len=24,hexadecimal"`
}

// OrderStatusRequest moves an order to another status
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required,max=32"`
}

// StatusOption is one entry of the status dropdown
type StatusOption struct {
	Value  trade.OrderStatus `json:"value"`
	Colors display.ColorPair `json:"colors"`
}

// StatusesResponse lists the order statuses and the product status filter values
type StatusesResponse struct {
	Orders   []StatusOption `json:"orders"`
	Products []string       `json:"products"`
}

// IconsResponse lists the icon keys offered by the category editor
type IconsResponse struct {
	Keys     []string `json:"keys"`
	Fallback string   `json:"fallback"`
}

func newStatusesResponse() StatusesResponse {
	statuses := trade.AllOrderStatuses()
	opts := make([]StatusOption, 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, StatusOption{Value: s, Colors: display.ClassifyStatus(s.String())})
	}
	return StatusesResponse{
		Orders:   opts,
		Products: []string{catalog.StatusActive, catalog.StatusInactive},
	}
}
