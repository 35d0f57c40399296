package trade

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocery/admin/internal/domain/shared"
)

func TestParseOrderStatus(t *testing.T) {
	for _, in := range []string{"delivered", "Delivered", "DELIVERED", " delivered "} {
		st, err := ParseOrderStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, OrderStatusDelivered, st)
	}

	_, err := ParseOrderStatus("returned")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	assert.True(t, OrderStatus("pending").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestAllOrderStatuses(t *testing.T) {
	all := AllOrderStatuses()
	assert.Equal(t, []OrderStatus{
		OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	}, all)

	all[0] = "mutated"
	assert.Equal(t, OrderStatusPending, AllOrderStatuses()[0], "callers get a copy")
}

func TestOrder_ShortID(t *testing.T) {
	assert.Equal(t, "#D4E5F6", Order{ID: "64f1a2b3c4d4e5f6"}.ShortID())
	assert.Equal(t, "#AB1", Order{ID: "ab1"}.ShortID())
}

func TestOrder_Customer(t *testing.T) {
	t.Run("account details win", func(t *testing.T) {
		o := Order{
			User:     &Party{Name: "Asha", Email: "asha@example.com", Phone: "111"},
			Customer: &Party{Name: "Walk-in", Phone: "999", Address: "Market Rd"},
		}
		assert.Equal(t, "Asha", o.CustomerName())
		assert.Equal(t, "asha@example.com", o.CustomerContact())
		assert.Equal(t, "111", o.CustomerPhone())
		assert.Equal(t, "Market Rd", o.CustomerAddress())
	})

	t.Run("guest customer", func(t *testing.T) {
		o := Order{Customer: &Party{Name: "Ravi", Phone: "98765"}}
		assert.Equal(t, "Ravi", o.DisplayName())
		assert.Equal(t, "98765", o.DisplayContact())
	})

	t.Run("missing references fall back", func(t *testing.T) {
		o := Order{}
		assert.Equal(t, "", o.CustomerName())
		assert.Equal(t, "Guest", o.DisplayName())
		assert.Equal(t, "N/A", o.DisplayContact())
		assert.NotPanics(t, func() { _ = o.SearchFields() })
	})
}

func TestOrder_ItemsTotal(t *testing.T) {
	o := Order{
		TotalAmount: decimal.NewFromInt(999),
		Items: []OrderItem{
			{Quantity: 2, Price: decimal.NewFromFloat(12.5)},
			{Quantity: 3, Price: decimal.NewFromInt(10)},
		},
	}
	assert.True(t, decimal.NewFromInt(55).Equal(o.ItemsTotal()))
	assert.True(t, decimal.NewFromInt(999).Equal(o.TotalAmount), "total amount is never recomputed")
}

func TestOrder_CreatedOn(t *testing.T) {
	_, ok := Order{}.CreatedOn()
	assert.False(t, ok)

	ts := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	got, ok := Order{CreatedAt: ts}.CreatedOn()
	assert.True(t, ok)
	assert.Equal(t, ts, got)
}

func TestOrder_UnmarshalJSON(t *testing.T) {
	raw := `[
		{"_id":"o1","orderStatus":"Shipped","totalAmount":120.5,"createdAt":"2024-03-01T10:00:00.000Z",
		 "user":{"name":"Asha"},
		 "items":[{"productId":{"_id":"p1","images":["uploads/a.png"]},"name":"Milk","variant":"1 L","quantity":2,"price":60.25}]},
		{"_id":"o2","orderStatus":"pending","totalAmount":"10",
		 "items":[{"productId":"p2","name":"Bread","quantity":1,"price":10}]}
	]`

	var orders []Order
	require.NoError(t, json.Unmarshal([]byte(raw), &orders))
	require.Len(t, orders, 2)

	assert.Equal(t, OrderStatusShipped, orders[0].Status)
	assert.Equal(t, "uploads/a.png", orders[0].Items[0].Image())
	assert.True(t, decimal.RequireFromString("120.5").Equal(orders[0].TotalAmount))

	require.NotNil(t, orders[1].Items[0].Product)
	assert.Equal(t, "p2", orders[1].Items[0].Product.ID)
	assert.Equal(t, "", orders[1].Items[0].Image())
	assert.Equal(t, "pending", orders[1].StatusKey())
	_, ok := orders[1].CreatedOn()
	assert.False(t, ok)
}
