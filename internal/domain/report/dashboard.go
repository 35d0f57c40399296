package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/display"
	"github.com/grocery/admin/internal/domain/trade"
)

// RecentOrderLimit is the number of orders shown in the dashboard table
const RecentOrderLimit = 5

// Palette colors the category distribution chart, cycling when there are more categories
var Palette = []string{"#22c55e", "#3b82f6", "#f59e0b", "#a855f7", "#ef4444", "#8b5cf6"}

// DailySales is one day of revenue from the analytics endpoint. ID is the day, e.g. "2024-03-01".
type DailySales struct {
	ID           string          `json:"_id"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
}

// CategoryPerformance is the sales total of one category. ID is the category name.
type CategoryPerformance struct {
	ID         string          `json:"_id"`
	TotalSales decimal.Decimal `json:"totalSales"`
}

// Analytics is the aggregate document served by the remote store
type Analytics struct {
	DailySales          []DailySales          `json:"dailySales"`
	CategoryPerformance []CategoryPerformance `json:"categoryPerformance"`
}

// AnalyticsRepository reads dashboard aggregates from the remote store
type AnalyticsRepository interface {
	Dashboard(ctx context.Context) (*Analytics, error)
}

// SalesPoint is one bar of the sales chart
type SalesPoint struct {
	Label   string          `json:"name"`
	Day     string          `json:"day"`
	Revenue decimal.Decimal `json:"sales"`
}

// CategoryShare is one slice of the category distribution chart
type CategoryShare struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

// Dashboard is the summary shown on the landing screen
type Dashboard struct {
	TotalOrders     int             `json:"totalOrders"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalSalesLabel string          `json:"totalSalesLabel"`
	TotalProducts   int             `json:"totalProducts"`
	ActiveProducts  int             `json:"activeProducts"`
	LowStock        int             `json:"lowStock"`
	RecentOrders    []trade.Order   `json:"recentOrders"`
	SalesSeries     []SalesPoint    `json:"salesSeries"`
	CategoryShares  []CategoryShare `json:"categoryShares"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// Summarize builds the dashboard from already fetched collections. A nil analytics
// document yields empty chart series.
func Summarize(orders []trade.Order, products []catalog.Product, analytics *Analytics, now time.Time) Dashboard {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}

	recent := orders
	if len(recent) > RecentOrderLimit {
		recent = recent[:RecentOrderLimit]
	}

	d := Dashboard{
		TotalOrders:     len(orders),
		TotalSales:      total,
		TotalSalesLabel: display.FormatAmount(total),
		TotalProducts:   len(products),
		ActiveProducts:  catalog.ActiveCount(products),
		LowStock:        catalog.LowStockCount(products),
		RecentOrders:    append([]trade.Order{}, recent...),
		SalesSeries:     []SalesPoint{},
		CategoryShares:  []CategoryShare{},
		GeneratedAt:     now,
	}
	if analytics == nil {
		return d
	}

	for _, s := range analytics.DailySales {
		d.SalesSeries = append(d.SalesSeries, SalesPoint{
			Label:   WeekdayLabel(s.ID),
			Day:     s.ID,
			Revenue: s.TotalRevenue,
		})
	}
	for i, c := range analytics.CategoryPerformance {
		d.CategoryShares = append(d.CategoryShares, CategoryShare{
			Name:  c.ID,
			Value: c.TotalSales,
			Color: Palette[i%len(Palette)],
		})
	}
	return d
}

// WeekdayLabel returns the short weekday of a day key such as "2024-03-01" ("Fri").
// Keys that are not dates are returned unchanged.
func WeekdayLabel(day string) string {
	for _, layout := range []string{"2006-01-02", time.RFC3339Nano} {
		if t, err := time.Parse(layout, day); err == nil {
			return t.UTC().Weekday().String()[:3]
		}
	}
	return day
}
