package handler

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/grocery/admin/internal/application/catalog"
	reportapp "github.com/grocery/admin/internal/application/report"
	"github.com/grocery/admin/internal/application/state"
	tradeapp "github.com/grocery/admin/internal/application/trade"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/report"
	"github.com/grocery/admin/internal/domain/trade"
	"github.com/grocery/admin/internal/interfaces/http/dto"
)

func testOrders() []trade.Order {
	return []trade.Order{
		{
			ID:          orderID,
			User:        &trade.Party{Name: "Asha Rao", Email: "asha@shop.test"},
			Items:       []trade.OrderItem{{Name: "Alphonso Mango", Quantity: 2, Price: decimal.NewFromInt(250)}},
			TotalAmount: decimal.NewFromInt(540),
			Status:      trade.OrderStatusPending,
			CreatedAt:   time.Date(2024, 3, 10, 18, 30, 0, 0, time.UTC),
		},
		{
			ID:          "64b7f0c2a1b2c3d4e5f60902",
			Customer:    &trade.Party{Name: "Vikram Sen"},
			TotalAmount: decimal.NewFromInt(99),
			Status:      trade.OrderStatusDelivered,
			CreatedAt:   time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		},
	}
}

func setupOrderHandler() (*gin.Engine, *MockOrderRepository, *tradeapp.OrderService) {
	repo := new(MockOrderRepository)
	svc := tradeapp.NewOrderService(repo, display.NewImageResolver("", ""), state.Settings{Location: time.UTC})
	h := NewOrderHandler(svc)

	engine := gin.New()
	engine.GET("/orders", h.List)
	engine.GET("/orders/:id", h.Get)
	engine.PATCH("/orders/:id/status", h.UpdateStatus)
	return engine, repo, svc
}

func TestOrderHandler_List(t *testing.T) {
	engine, repo, _ := setupOrderHandler()
	repo.On("FindAll", mock.Anything).Return(testOrders(), nil).Once()

	w := doRequest(engine, http.MethodGet, "/orders?status=delivered", nil)
	list := decodeData[tradeapp.OrderList](t, w)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, "Vikram Sen", list.Rows[0].Customer)
	assert.Nil(t, list.Selected)

	w = doRequest(engine, http.MethodGet, "/orders?date=2024-03-10", nil)
	list = decodeData[tradeapp.OrderList](t, w)
	require.Len(t, list.Rows, 1)
	assert.Equal(t, orderID, list.Rows[0].ID)
	assert.Equal(t, 2, list.Total)
}

func TestOrderHandler_ListDeepLink(t *testing.T) {
	engine, repo, _ := setupOrderHandler()
	repo.On("FindAll", mock.Anything).Return(testOrders(), nil).Once()
	repo.On("FindByID", mock.Anything, "64b7f0c2a1b2c3d4e5f60999").Return(nil, upstreamError(404, "Order not found")).Once()

	w := doRequest(engine, http.MethodGet, "/orders?id="+orderID, nil)
	list := decodeData[tradeapp.OrderList](t, w)
	require.NotNil(t, list.Selected)
	assert.Equal(t, orderID, list.Selected.Row.ID)
	assert.True(t, list.Selected.ItemsTotal.Equal(decimal.NewFromInt(500)))

	// a stale link still shows the table
	w = doRequest(engine, http.MethodGet, "/orders?id=64b7f0c2a1b2c3d4e5f60999", nil)
	list = decodeData[tradeapp.OrderList](t, w)
	assert.Nil(t, list.Selected)
	assert.Len(t, list.Rows, 2)

	w = doRequest(engine, http.MethodGet, "/orders?id=42", nil)
	assertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
}

func TestOrderHandler_Get(t *testing.T) {
	engine, repo, _ := setupOrderHandler()
	o := testOrders()[0]
	repo.On("FindByID", mock.Anything, orderID).Return(&o, nil).Once()

	w := doRequest(engine, http.MethodGet, "/orders/"+orderID, nil)
	detail := decodeData[tradeapp.OrderDetail](t, w)
	assert.Equal(t, "Asha Rao", detail.Row.Customer)
	assert.Len(t, detail.Statuses, 6)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	engine, repo, _ := setupOrderHandler()
	shipped := testOrders()[0]
	shipped.Status = trade.OrderStatusShipped
	repo.On("UpdateStatus", mock.Anything, orderID, trade.OrderStatusShipped).Return(&shipped, nil).Once()

	w := doRequest(engine, http.MethodPatch, "/orders/"+orderID+"/status", OrderStatusRequest{Status: "shipped"})
	row := decodeData[tradeapp.OrderRow](t, w)
	assert.Equal(t, trade.OrderStatusShipped, row.Status)
	assert.Equal(t, display.ClassifyStatus("Shipped"), row.Colors)

	w = doRequest(engine, http.MethodPatch, "/orders/"+orderID+"/status", OrderStatusRequest{Status: "Lost"})
	info := assertError(t, w, http.StatusBadRequest, dto.ErrCodeInvalidInput)
	assert.Contains(t, info.Message, "Lost")

	w = doRequest(engine, http.MethodPatch, "/orders/"+orderID+"/status", map[string]any{})
	assertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)

	repo.On("UpdateStatus", mock.Anything, orderID, trade.OrderStatusCancelled).Return(nil, upstreamError(401, "Token expired")).Once()
	w = doRequest(engine, http.MethodPatch, "/orders/"+orderID+"/status", OrderStatusRequest{Status: "Cancelled"})
	info = assertError(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	assert.Equal(t, dto.LoginPath, info.Redirect)
}

func TestDashboardHandler_Get(t *testing.T) {
	orderRepo := new(MockOrderRepository)
	orderRepo.On("FindAll", mock.Anything).Return(testOrders(), nil)
	productRepo := new(MockProductRepository)
	productRepo.On("FindAll", mock.Anything).Return(testProducts(), nil)
	analytics := new(MockAnalyticsRepository)

	images := display.NewImageResolver("", "")
	orders := tradeapp.NewOrderService(orderRepo, images, state.Settings{})
	products := catalogapp.NewProductService(productRepo, images, state.Settings{})
	h := NewDashboardHandler(reportapp.NewDashboardService(orders, products, analytics))

	engine := gin.New()
	engine.GET("/dashboard", h.Get)

	analytics.On("Dashboard", mock.Anything).Return(&report.Analytics{
		DailySales: []report.DailySales{{ID: "2024-03-10", TotalRevenue: decimal.NewFromInt(540)}},
	}, nil).Once()
	w := doRequest(engine, http.MethodGet, "/dashboard", nil)
	dash := decodeData[report.Dashboard](t, w)
	assert.Equal(t, 2, dash.TotalOrders)
	assert.Equal(t, 2, dash.TotalProducts)
	assert.True(t, dash.TotalSales.Equal(decimal.NewFromInt(639)))

	// analytics is optional, the totals still render
	analytics.On("Dashboard", mock.Anything).Return(nil, errors.New("timeout")).Once()
	w = doRequest(engine, http.MethodGet, "/dashboard?refresh=true", nil)
	dash = decodeData[report.Dashboard](t, w)
	assert.Equal(t, 2, dash.TotalOrders)
	assert.Empty(t, dash.SalesSeries)
	orderRepo.AssertNumberOfCalls(t, "FindAll", 2)
}
