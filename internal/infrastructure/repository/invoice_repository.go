package repository

import (
	"context"
	"errors"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	domainRepo "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Payments").
		Preload("Attachments").
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *entity.Invoice) error {
	return r.db.WithContext(ctx).Omit("Items", "Payments", "Attachments", "Customer").Save(invoice).Error
}

// ReplaceItems swaps the invoice's full item list. Old rows are soft-removed
// so the document history stays reconstructable.
func (r *invoiceRepository) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoiceID).Delete(&entity.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = uuid.Nil
			items[i].InvoiceID = invoiceID
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *invoiceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Invoice{}, "id = ?", id).Error
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("is_recurring_template = ?", false)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *params.PaymentStatus)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.StartDate != nil {
		query = query.Where("date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("date <= ?", *params.EndDate)
	}

	if params.Search != "" {
		query = query.Where("notes LIKE ?", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Preload("Items").
		Order(sortBy + " " + sortOrder).
		Find(&invoices).Error

	return invoices, total, err
}

// AddCredit moves the paid amount from total to credit in the database so
// concurrent payments against the same invoice cannot lose an update. Total
// always holds the remaining balance.
func (r *invoiceRepository) AddCredit(ctx context.Context, id uuid.UUID, amount int64, status enum.PaymentStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"credit":         gorm.Expr("credit + ?", amount),
			"total":          gorm.Expr("total - ?", amount),
			"payment_status": status,
		}).Error
}

func (r *invoiceRepository) ListRecurring(ctx context.Context) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("recurring <> ?", enum.RecurringNone).
		Where("status <> ?", enum.InvoiceStatusCancelled).
		Preload("Customer").
		Preload("Items").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListTemplates(ctx context.Context, createdBy uuid.UUID) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("is_recurring_template = ?", true).
		Where("created_by_id = ?", createdBy).
		Preload("Customer").
		Preload("Items").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) GetTemplate(ctx context.Context, id, createdBy uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	query := r.db.WithContext(ctx).
		Where("id = ?", id).
		Where("is_recurring_template = ?", true)
	if createdBy != uuid.Nil {
		query = query.Where("created_by_id = ?", createdBy)
	}
	err := query.Preload("Customer").Preload("Items").First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

// UpdateLastGenerated advances the template's generation cursor. Kept as its
// own write so a failure here never rolls back the generated invoice.
func (r *invoiceRepository) UpdateLastGenerated(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("id = ?", id).
		Update("last_recurring_generated", at).Error
}

func (r *invoiceRepository) ListOverdue(ctx context.Context, now time.Time) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	err := r.db.WithContext(ctx).
		Where("expired_date < ?", now).
		Where("payment_status IN ?", []enum.PaymentStatus{enum.PaymentStatusUnpaid, enum.PaymentStatusPartial}).
		Where("is_recurring_template = ?", false).
		Preload("Customer").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) ListDueWithin(ctx context.Context, now time.Time, days int) ([]entity.Invoice, error) {
	var invoices []entity.Invoice
	until := now.AddDate(0, 0, days)
	err := r.db.WithContext(ctx).
		Where("expired_date >= ? AND expired_date <= ?", now, until).
		Where("payment_status IN ?", []enum.PaymentStatus{enum.PaymentStatusUnpaid, enum.PaymentStatusPartial}).
		Where("is_recurring_template = ?", false).
		Preload("Customer").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) AddAttachments(ctx context.Context, attachments []entity.InvoiceAttachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&attachments).Error
}

func (r *invoiceRepository) ListAttachments(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceAttachment, error) {
	var attachments []entity.InvoiceAttachment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

func (r *invoiceRepository) GetAttachment(ctx context.Context, invoiceID, attachmentID uuid.UUID) (*entity.InvoiceAttachment, error) {
	var attachment entity.InvoiceAttachment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ? AND id = ?", invoiceID, attachmentID).
		First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &attachment, err
}

func (r *invoiceRepository) RemoveAttachment(ctx context.Context, invoiceID, attachmentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ? AND id = ?", invoiceID, attachmentID).
		Delete(&entity.InvoiceAttachment{}).Error
}
