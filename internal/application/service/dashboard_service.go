package service

import (
	"context"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
)

// DashboardService aggregates billing figures for the dashboard
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(analyticsRepo repository.AnalyticsRepository) *DashboardService {
	return &DashboardService{analyticsRepo: analyticsRepo}
}

// DashboardResult bundles the headline figures shown on the dashboard
type DashboardResult struct {
	Summary       *repository.InvoiceSummaryResult `json:"summary"`
	TotalReceived float64                          `json:"total_received"`
	Daily         []repository.DailyReceivedResult `json:"daily_received"`
}

// GetDashboard returns the invoice summary, total money received and the
// per-day received series for the given number of trailing days.
func (s *DashboardService) GetDashboard(ctx context.Context, days int) (*DashboardResult, error) {
	if days <= 0 {
		days = 30
	}

	summary, err := s.analyticsRepo.InvoiceSummary(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	received, err := s.analyticsRepo.TotalReceived(ctx)
	if err != nil {
		return nil, err
	}

	daily, err := s.analyticsRepo.DailyReceived(ctx, days)
	if err != nil {
		return nil, err
	}

	return &DashboardResult{
		Summary:       summary,
		TotalReceived: received,
		Daily:         daily,
	}, nil
}
