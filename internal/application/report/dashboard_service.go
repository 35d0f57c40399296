package report

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/catalog"
	"github.com/grocery/admin/internal/domain/report"
	"github.com/grocery/admin/internal/domain/trade"
	"github.com/grocery/admin/internal/infrastructure/logger"
	"github.com/grocery/admin/internal/infrastructure/telemetry"
)

const msgFetchAnalytics = "Failed to fetch analytics"

// OrderSource returns the current orders collection
type OrderSource interface {
	Current(ctx context.Context, refresh bool) ([]trade.Order, error)
}

// ProductSource returns the current products collection
type ProductSource interface {
	Current(ctx context.Context, refresh bool) ([]catalog.Product, error)
}

// DashboardService builds the landing screen summary
type DashboardService struct {
	orders    OrderSource
	products  ProductSource
	analytics report.AnalyticsRepository
	now       func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(orders OrderSource, products ProductSource, analytics report.AnalyticsRepository) *DashboardService {
	return &DashboardService{
		orders:    orders,
		products:  products,
		analytics: analytics,
		now:       time.Now,
	}
}

// Get loads orders, products and analytics concurrently and summarizes them.
// Orders and products are required; missing analytics only leaves the charts empty.
func (s *DashboardService) Get(ctx context.Context, refresh bool) (*report.Dashboard, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "dashboard", "get", telemetry.SpanAttrRefreshed, refresh)
	defer span.End()

	var (
		orders    []trade.Order
		products  []catalog.Product
		analytics *report.Analytics
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		orders, err = s.orders.Current(gctx, refresh)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.Current(gctx, refresh)
		return err
	})
	g.Go(func() error {
		a, err := s.analytics.Dashboard(gctx)
		if err != nil {
			if gctx.Err() == nil {
				logger.L(ctx).Warn("Analytics unavailable, rendering dashboard without charts",
					zap.String("reason", state.Message(err, msgFetchAnalytics)),
					zap.Error(err))
			}
			return nil
		}
		analytics = a
		return nil
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	d := report.Summarize(orders, products, analytics, s.now())
	return &d, nil
}
