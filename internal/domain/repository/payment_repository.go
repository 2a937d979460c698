package repository

import (
	"context"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/google/uuid"
)

// PaymentFilterParams represents filter parameters for payment listing
type PaymentFilterParams struct {
	Pagination *pagination.PaginationParams
	InvoiceID  *uuid.UUID
	CustomerID *uuid.UUID
	SortBy     string
	SortOrder  string
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	List(ctx context.Context, params *PaymentFilterParams) ([]entity.Payment, int64, error)
	ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error)
	Update(ctx context.Context, payment *entity.Payment) error

	// SoftDelete removes a single payment. The payment keeps its number.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// NextNumber returns max(number)+1 over all payments, removed included,
	// so a cascade-removed payment never frees its number for reuse.
	NextNumber(ctx context.Context) (int64, error)

	// SoftDeleteByInvoice cascades an invoice soft-delete onto its payments.
	SoftDeleteByInvoice(ctx context.Context, invoiceID uuid.UUID) error
}

// PaymentModeRepository defines the interface for payment mode data operations
type PaymentModeRepository interface {
	Create(ctx context.Context, mode *entity.PaymentMode) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMode, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentMode, error)
	List(ctx context.Context) ([]entity.PaymentMode, error)
	Update(ctx context.Context, mode *entity.PaymentMode) error
	Delete(ctx context.Context, id uuid.UUID) error
}
