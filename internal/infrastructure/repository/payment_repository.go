package repository

import (
	"context"
	"errors"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	domainRepo "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	var payment entity.Payment
	err := r.db.WithContext(ctx).
		Preload("Invoice").
		Preload("Customer").
		Preload("PaymentMode").
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *paymentRepository) List(ctx context.Context, params *domainRepo.PaymentFilterParams) ([]entity.Payment, int64, error) {
	var payments []entity.Payment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Payment{})

	if params.InvoiceID != nil {
		query = query.Where("invoice_id = ?", *params.InvoiceID)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
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
		Preload("PaymentMode").
		Order(sortBy + " " + sortOrder).
		Find(&payments).Error

	return payments, total, err
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	var payments []entity.Payment
	err := r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Update(ctx context.Context, payment *entity.Payment) error {
	return r.db.WithContext(ctx).Omit("Invoice", "Customer", "PaymentMode").Save(payment).Error
}

func (r *paymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Payment{}, "id = ?", id).Error
}

// NextNumber scans removed payments too so numbers are never reused. The
// read-then-increment is not race-free; two concurrent creations can collide.
func (r *paymentRepository) NextNumber(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.WithContext(ctx).Model(&entity.Payment{}).
		Unscoped().
		Select("COALESCE(MAX(number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *paymentRepository) SoftDeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("invoice_id = ?", invoiceID).
		Delete(&entity.Payment{}).Error
}

type paymentModeRepository struct {
	db *gorm.DB
}

// NewPaymentModeRepository creates a new payment mode repository
func NewPaymentModeRepository(db *gorm.DB) domainRepo.PaymentModeRepository {
	return &paymentModeRepository{db: db}
}

func (r *paymentModeRepository) Create(ctx context.Context, mode *entity.PaymentMode) error {
	return r.db.WithContext(ctx).Create(mode).Error
}

func (r *paymentModeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMode, error) {
	var mode entity.PaymentMode
	err := r.db.WithContext(ctx).First(&mode, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &mode, err
}

func (r *paymentModeRepository) GetByName(ctx context.Context, name string) (*entity.PaymentMode, error) {
	var mode entity.PaymentMode
	err := r.db.WithContext(ctx).First(&mode, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &mode, err
}

func (r *paymentModeRepository) List(ctx context.Context) ([]entity.PaymentMode, error) {
	var modes []entity.PaymentMode
	err := r.db.WithContext(ctx).Order("name ASC").Find(&modes).Error
	return modes, err
}

func (r *paymentModeRepository) Update(ctx context.Context, mode *entity.PaymentMode) error {
	return r.db.WithContext(ctx).Save(mode).Error
}

func (r *paymentModeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PaymentMode{}, "id = ?", id).Error
}
