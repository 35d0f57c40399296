package upstream

import (
	"context"
	"net/http"

	"github.com/grocery/admin/internal/domain/report"
)

// AnalyticsRepository implements report.AnalyticsRepository
type AnalyticsRepository struct {
	client *Client
}

// NewAnalyticsRepository creates an analytics repository
func NewAnalyticsRepository(client *Client) *AnalyticsRepository {
	return &AnalyticsRepository{client: client}
}

// Dashboard fetches the pre-aggregated sales series
func (r *AnalyticsRepository) Dashboard(ctx context.Context) (*report.Analytics, error) {
	resp, err := r.client.Do(ctx, Request{Method: http.MethodGet, Route: "/analytics/dashboard", Path: "/analytics/dashboard"})
	if err != nil {
		return nil, err
	}
	a, err := decodeOne[report.Analytics](resp.Body, "analytics")
	if err != nil {
		return nil, err
	}
	if a.DailySales == nil {
		a.DailySales = []report.DailySales{}
	}
	if a.CategoryPerformance == nil {
		a.CategoryPerformance = []report.CategoryPerformance{}
	}
	return a, nil
}

var _ report.AnalyticsRepository = (*AnalyticsRepository)(nil)
