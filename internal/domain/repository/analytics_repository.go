package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// InvoiceSummaryResult aggregates non-removed invoices for the dashboard.
type InvoiceSummaryResult struct {
	TotalInvoices     int64   `json:"total_invoices"`
	TotalAmount       float64 `json:"total_amount"`
	OverdueCount      int64   `json:"overdue_count"`
	OverduePercentage float64 `json:"overdue_percentage"`
}

// CustomerInvoiceStatsResult aggregates one customer's invoice history.
type CustomerInvoiceStatsResult struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	TotalInvoices  int64     `json:"total_invoices"`
	TotalAmount    float64   `json:"total_amount"`
	OverdueCount   int64     `json:"overdue_count"`
	AverageInvoice float64   `json:"average_invoice"`
}

// DailyReceivedResult is the money received on one calendar day.
type DailyReceivedResult struct {
	Date     time.Time `json:"date"`
	Received float64   `json:"received"`
	Count    int64     `json:"count"`
}

// AnalyticsRepository defines read-only aggregation queries used by the
// dashboard and reporting endpoints. Amounts come back as decimals, not cents.
type AnalyticsRepository interface {
	InvoiceSummary(ctx context.Context, now time.Time) (*InvoiceSummaryResult, error)
	CustomerInvoiceStats(ctx context.Context, customerID uuid.UUID, now time.Time) (*CustomerInvoiceStatsResult, error)
	TotalReceived(ctx context.Context) (float64, error)
	DailyReceived(ctx context.Context, days int) ([]DailyReceivedResult, error)
}
