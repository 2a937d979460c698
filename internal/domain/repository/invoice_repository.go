package repository

import (
	"context"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/google/uuid"
)

// InvoiceFilterParams represents filter parameters for invoice listing
type InvoiceFilterParams struct {
	Pagination    *pagination.PaginationParams
	Status        *enum.InvoiceStatus
	PaymentStatus *enum.PaymentStatus
	CustomerID    *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	Search        string
	SortBy        string
	SortOrder     string
}

// InvoiceRepository defines the interface for invoice data operations.
// All reads exclude soft-removed documents unless stated otherwise.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []entity.InvoiceItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)

	// AddCredit atomically moves amount from the remaining total into the
	// cumulative credit and stamps the given payment status. The arithmetic
	// happens in the database so two concurrent payments cannot lose an
	// update.
	AddCredit(ctx context.Context, id uuid.UUID, amount int64, status enum.PaymentStatus) error

	// Recurrence
	ListRecurring(ctx context.Context) ([]entity.Invoice, error)
	ListTemplates(ctx context.Context, createdBy uuid.UUID) ([]entity.Invoice, error)
	GetTemplate(ctx context.Context, id, createdBy uuid.UUID) (*entity.Invoice, error)
	UpdateLastGenerated(ctx context.Context, id uuid.UUID, at time.Time) error

	// Notification sweeps
	ListOverdue(ctx context.Context, now time.Time) ([]entity.Invoice, error)
	ListDueWithin(ctx context.Context, now time.Time, days int) ([]entity.Invoice, error)

	// Attachments
	AddAttachments(ctx context.Context, attachments []entity.InvoiceAttachment) error
	ListAttachments(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceAttachment, error)
	GetAttachment(ctx context.Context, invoiceID, attachmentID uuid.UUID) (*entity.InvoiceAttachment, error)
	RemoveAttachment(ctx context.Context, invoiceID, attachmentID uuid.UUID) error
}
