package trade

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grocery/admin/internal/domain/shared"
)

// OrderStatus represents the lifecycle status of a customer order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusConfirmed  OrderStatus = "Confirmed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var orderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// AllOrderStatuses returns the statuses in lifecycle order
func AllOrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ParseOrderStatus maps any casing of a status name to its canonical value
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range orderStatuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", shared.NewDomainError("INVALID_INPUT", "unknown order status: "+s)
}

// IsValid checks if the status is one of the known statuses, ignoring case
func (s OrderStatus) IsValid() bool {
	_, err := ParseOrderStatus(string(s))
	return err == nil
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Party is the user account or guest customer attached to an order
type Party struct {
	ID      string `json:"_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ProductRef is the product an order line points at. The remote store sends either
// a bare id or the populated product document.
type ProductRef struct {
	ID     string   `json:"_id,omitempty"`
	Name   string   `json:"name,omitempty"`
	Images []string `json:"images,omitempty"`
}

// UnmarshalJSON accepts both the id string and the populated object
func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	type plain ProductRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = ProductRef(p)
	return nil
}

// OrderItem is a line item in an order
type OrderItem struct {
	Product  *ProductRef     `json:"productId,omitempty"`
	Name     string          `json:"name"`
	Variant  string          `json:"variant,omitempty"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// Total is quantity times price
func (i OrderItem) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Image returns the first product image of the line, or ""
func (i OrderItem) Image() string {
	if i.Product == nil || len(i.Product.Images) == 0 {
		return ""
	}
	return i.Product.Images[0]
}

// Order is a read-through copy of an order owned by the remote data store
type Order struct {
	ID          string          `json:"_id"`
	User        *Party          `json:"user,omitempty"`
	Customer    *Party          `json:"customer,omitempty"`
	Items       []OrderItem     `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"orderStatus"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ShortID is the display reference: "#" plus the last six characters upper-cased
func (o Order) ShortID() string {
	id := o.ID
	if len(id) > 6 {
		id = id[len(id)-6:]
	}
	return "#" + strings.ToUpper(id)
}

// CustomerName prefers the account name over the guest customer name
func (o Order) CustomerName() string {
	if o.User != nil && o.User.Name != "" {
		return o.User.Name
	}
	if o.Customer != nil {
		return o.Customer.Name
	}
	return ""
}

// DisplayName is CustomerName with a "Guest" fallback
func (o Order) DisplayName() string {
	if n := o.CustomerName(); n != "" {
		return n
	}
	return "Guest"
}

// CustomerContact prefers the account email over the guest phone
func (o Order) CustomerContact() string {
	if o.User != nil && o.User.Email != "" {
		return o.User.Email
	}
	if o.Customer != nil {
		return o.Customer.Phone
	}
	return ""
}

// DisplayContact is CustomerContact with an "N/A" fallback
func (o Order) DisplayContact() string {
	if c := o.CustomerContact(); c != "" {
		return c
	}
	return "N/A"
}

// CustomerPhone prefers the account phone over the guest phone
func (o Order) CustomerPhone() string {
	return o.pick(func(p *Party) string { return p.Phone })
}

// CustomerAddress prefers the account address over the guest address
func (o Order) CustomerAddress() string {
	return o.pick(func(p *Party) string { return p.Address })
}

func (o Order) pick(field func(*Party) string) string {
	if o.User != nil {
		if v := field(o.User); v != "" {
			return v
		}
	}
	if o.Customer != nil {
		return field(o.Customer)
	}
	return ""
}

// ItemsTotal sums quantity times price over the items. It is shown next to TotalAmount
// and never replaces it.
func (o Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Total())
	}
	return total
}

// SearchFields implements listing.Filterable
func (o Order) SearchFields() []string {
	return []string{o.ID, o.ShortID(), o.CustomerName(), o.CustomerContact()}
}

// CategoryName implements listing.Filterable; orders span categories
func (o Order) CategoryName() string { return "" }

// StatusKey implements listing.Filterable
func (o Order) StatusKey() string { return string(o.Status) }

// CreatedOn implements listing.Filterable
func (o Order) CreatedOn() (time.Time, bool) {
	return o.CreatedAt, !o.CreatedAt.IsZero()
}
