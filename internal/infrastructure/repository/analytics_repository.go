package repository

import (
	"context"
	"database/sql"
	"time"

	domainRepo "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Payment status constants mirror the enum values; raw queries compare
// against the stored integers.
const (
	rawStatusUnpaid  = 0
	rawStatusPaid    = 1
	rawStatusPartial = 2
)

func (r *analyticsRepository) InvoiceSummary(ctx context.Context, now time.Time) (*domainRepo.InvoiceSummaryResult, error) {
	result := &domainRepo.InvoiceSummaryResult{}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as total_invoices,
			COALESCE(SUM(total), 0) / 100.0 as total_amount
		FROM invoices
		WHERE deleted_at IS NULL AND is_recurring_template = ?
	`, false).Scan(result).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM invoices
		WHERE deleted_at IS NULL
		AND is_recurring_template = ?
		AND expired_date < ?
		AND payment_status <> ?
	`, false, now, rawStatusPaid).Scan(&result.OverdueCount).Error
	if err != nil {
		return nil, err
	}

	if result.TotalInvoices > 0 {
		result.OverduePercentage = float64(result.OverdueCount) / float64(result.TotalInvoices) * 100
	}

	return result, nil
}

func (r *analyticsRepository) CustomerInvoiceStats(ctx context.Context, customerID uuid.UUID, now time.Time) (*domainRepo.CustomerInvoiceStatsResult, error) {
	result := &domainRepo.CustomerInvoiceStatsResult{CustomerID: customerID}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) as total_invoices,
			COALESCE(SUM(total), 0) / 100.0 as total_amount,
			COALESCE(AVG(total), 0) / 100.0 as average_invoice
		FROM invoices
		WHERE deleted_at IS NULL
		AND is_recurring_template = ?
		AND customer_id = ?
	`, false, customerID).Scan(result).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM invoices
		WHERE deleted_at IS NULL
		AND is_recurring_template = ?
		AND customer_id = ?
		AND expired_date < ?
		AND payment_status <> ?
	`, false, customerID, now, rawStatusPaid).Scan(&result.OverdueCount).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *analyticsRepository) TotalReceived(ctx context.Context) (float64, error) {
	var received float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0) / 100.0
		FROM payments
		WHERE deleted_at IS NULL
	`).Scan(&received).Error
	return received, err
}

func (r *analyticsRepository) DailyReceived(ctx context.Context, days int) ([]domainRepo.DailyReceivedResult, error) {
	results := make([]domainRepo.DailyReceivedResult, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Received sql.NullFloat64
			Count    int64
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(amount), 0) / 100.0 as received, COUNT(*) as count
			FROM payments
			WHERE deleted_at IS NULL
			AND created_at >= ? AND created_at < ?
		`, startOfDay, endOfDay).Scan(&row).Error
		if err != nil {
			return nil, err
		}

		received := 0.0
		if row.Received.Valid {
			received = row.Received.Float64
		}

		results = append(results, domainRepo.DailyReceivedResult{
			Date:     startOfDay,
			Received: received,
			Count:    row.Count,
		})
	}

	return results, nil
}
