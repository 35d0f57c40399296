package trade

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/listing"
	"github.com/grocery/admin/internal/domain/trade"
)

// OrderRow is one line of the orders table
type OrderRow struct {
	ID         string            `json:"id"`
	ShortID    string            `json:"shortId"`
	Customer   string            `json:"customer"`
	Contact    string            `json:"contact"`
	ItemCount  int               `json:"itemCount"`
	Total      decimal.Decimal   `json:"total"`
	TotalLabel string            `json:"totalLabel"`
	Status     trade.OrderStatus `json:"status"`
	Colors     display.ColorPair `json:"colors"`
	CreatedAt  time.Time         `json:"createdAt"`
	Date       string            `json:"date"`
}

// NewOrderRow derives the table row of an order; loc is the zone of the date column
func NewOrderRow(o trade.Order, loc *time.Location) OrderRow {
	row := OrderRow{
		ID:         o.ID,
		ShortID:    o.ShortID(),
		Customer:   o.DisplayName(),
		Contact:    o.DisplayContact(),
		ItemCount:  len(o.Items),
		Total:      o.TotalAmount,
		TotalLabel: display.PlainAmount(o.TotalAmount),
		Status:     o.Status,
		Colors:     display.ClassifyStatus(o.Status.String()),
		CreatedAt:  o.CreatedAt,
	}
	if !o.CreatedAt.IsZero() {
		if loc == nil {
			loc = time.UTC
		}
		row.Date = o.CreatedAt.In(loc).Format(listing.DateLayout)
	}
	return row
}

// OrderLine is a line item of the order detail
type OrderLine struct {
	Name       string          `json:"name"`
	Variant    string          `json:"variant,omitempty"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	PriceLabel string          `json:"priceLabel"`
	Total      decimal.Decimal `json:"total"`
	TotalLabel string          `json:"totalLabel"`
	Image      string          `json:"image"`
}

// OrderDetail is the order modal
type OrderDetail struct {
	Row        OrderRow            `json:"row"`
	Phone      string              `json:"phone,omitempty"`
	Address    string              `json:"address,omitempty"`
	Lines      []OrderLine         `json:"lines"`
	ItemsTotal decimal.Decimal     `json:"itemsTotal"`
	Statuses   []trade.OrderStatus `json:"statuses"`
}

// NewOrderDetail derives the detail view of an order
func NewOrderDetail(o trade.Order, images display.ImageResolver, loc *time.Location) OrderDetail {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLine{
			Name:       it.Name,
			Variant:    it.Variant,
			Quantity:   it.Quantity,
			Price:      it.Price,
			PriceLabel: display.PlainAmount(it.Price),
			Total:      it.Total(),
			TotalLabel: display.PlainAmount(it.Total()),
			Image:      images.Resolve(it.Image()),
		})
	}
	return OrderDetail{
		Row:        NewOrderRow(o, loc),
		Phone:      o.CustomerPhone(),
		Address:    o.CustomerAddress(),
		Lines:      lines,
		ItemsTotal: o.ItemsTotal(),
		Statuses:   trade.AllOrderStatuses(),
	}
}

// OrderList is the orders screen: the table plus the order opened by a deep link, if any
type OrderList struct {
	state.Page[OrderRow]
	Selected *OrderDetail `json:"selected,omitempty"`
}
