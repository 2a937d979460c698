package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/billing"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/insight"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// InvoiceService handles invoice lifecycle operations. All monetary state
// (sub_total, tax_total, total, payment_status) is recomputed server-side on
// every mutation; client-supplied amounts are never stored.
type InvoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	customerRepo  repository.CustomerRepository
	paymentRepo   repository.PaymentRepository
	analyticsRepo repository.AnalyticsRepository
	files         storage.FileStorage
	insights      insight.Generator
	notifier      *NotificationService
	logger        zerolog.Logger
	maxUploadSize int64
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	analyticsRepo repository.AnalyticsRepository,
	files storage.FileStorage,
	insights insight.Generator,
	notifier *NotificationService,
	logger zerolog.Logger,
	maxUploadSize int64,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		customerRepo:  customerRepo,
		paymentRepo:   paymentRepo,
		analyticsRepo: analyticsRepo,
		files:         files,
		insights:      insights,
		notifier:      notifier,
		logger:        logger.With().Str("component", "invoice_service").Logger(),
		maxUploadSize: maxUploadSize,
	}
}

// InvoiceItemInput represents one line item in a create or update request.
// Amounts are decimals and converted to cents on entry.
type InvoiceItemInput struct {
	Name        string
	Description *string
	Quantity    int
	Price       float64
	Discount    float64
	TaxRate     float64
}

// CreateInvoiceInput represents the create invoice input
type CreateInvoiceInput struct {
	CreatedByID uuid.UUID
	CustomerID  uuid.UUID
	Date        time.Time
	ExpiredDate time.Time
	TaxRate     float64
	Discount    float64
	Currency    string
	Status      enum.InvoiceStatus
	Notes       *string
	Recurring   enum.RecurringCycle
	Items       []InvoiceItemInput
}

func validateItems(items []InvoiceItemInput) []apperror.FieldError {
	var fieldErrors []apperror.FieldError
	for i, item := range items {
		if item.Name == "" {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].name", i),
				Message: "Name is required",
			})
		}
		if item.Quantity <= 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].quantity", i),
				Message: "Quantity must be greater than zero",
			})
		}
		if item.Price < 0 {
			fieldErrors = append(fieldErrors, apperror.FieldError{
				Field:   fmt.Sprintf("items[%d].price", i),
				Message: "Price cannot be negative",
			})
		}
	}
	return fieldErrors
}

func buildItems(inputs []InvoiceItemInput) []entity.InvoiceItem {
	items := make([]entity.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, entity.InvoiceItem{
			Name:        in.Name,
			Description: in.Description,
			Quantity:    in.Quantity,
			Price:       billing.Cents(in.Price),
			Discount:    billing.Cents(in.Discount),
			TaxRate:     in.TaxRate,
		})
	}
	return items
}

// stampTotals recomputes the invoice's money fields from its items and
// adjustments, including each item's line total.
func stampTotals(inv *entity.Invoice) {
	itemPtrs := make([]*entity.InvoiceItem, len(inv.Items))
	for i := range inv.Items {
		itemPtrs[i] = &inv.Items[i]
	}
	totals := billing.CalculateTotals(itemPtrs, inv.TaxRate, inv.Discount, inv.Credit)
	inv.SubTotal = totals.SubTotal
	inv.TaxTotal = totals.TaxTotal
	inv.Total = totals.Total
	inv.PaymentStatus = billing.ResolvePaymentStatus(totals.Total, inv.Credit)
}

// CreateInvoice creates a new invoice with computed totals
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *CreateInvoiceInput) (*entity.Invoice, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError("Items cannot be empty",
			apperror.FieldError{Field: "items", Message: "At least one item is required"})
	}
	if fieldErrors := validateItems(input.Items); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError("Invalid invoice items", fieldErrors...)
	}
	if input.ExpiredDate.Before(input.Date) {
		return nil, apperror.NewValidationError("Expiry date cannot precede the invoice date",
			apperror.FieldError{Field: "expired_date", Message: "Must be on or after the invoice date"})
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}

	invoice := &entity.Invoice{
		CreatedByID: input.CreatedByID,
		CustomerID:  input.CustomerID,
		Date:        input.Date,
		ExpiredDate: input.ExpiredDate,
		TaxRate:     input.TaxRate,
		Discount:    billing.Cents(input.Discount),
		Currency:    currency,
		Status:      input.Status,
		Notes:       input.Notes,
		Recurring:   input.Recurring,
		Items:       buildItems(input.Items),
	}
	stampTotals(invoice)

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, err
	}

	created, err := s.invoiceRepo.GetWithDetails(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyInvoiceCreated(created)
	}

	return created, nil
}

// GetInvoice retrieves an invoice with items, payments and attachments
func (s *InvoiceService) GetInvoice(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return invoice, nil
}

// ListInvoices lists invoices with filtering and pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[entity.Invoice], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	invoices, total, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(invoices, pag), nil
}

// UpdateInvoiceInput represents the update invoice input. Nil fields keep
// their stored values; a non-nil Items replaces the full item list.
type UpdateInvoiceInput struct {
	InvoiceID   uuid.UUID
	UpdatedByID uuid.UUID
	CustomerID  *uuid.UUID
	Date        *time.Time
	ExpiredDate *time.Time
	TaxRate     *float64
	Discount    *float64
	Currency    *string
	Status      *enum.InvoiceStatus
	Approved    *bool
	Notes       *string
	Recurring   *enum.RecurringCycle
	Items       []InvoiceItemInput
}

// UpdateInvoice merges the given fields into the invoice and recomputes
// totals and payment status. Accumulated credit is preserved.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, input *UpdateInvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	if input.Items != nil {
		if len(input.Items) == 0 {
			return nil, apperror.NewValidationError("Items cannot be empty",
				apperror.FieldError{Field: "items", Message: "At least one item is required"})
		}
		if fieldErrors := validateItems(input.Items); len(fieldErrors) > 0 {
			return nil, apperror.NewValidationError("Invalid invoice items", fieldErrors...)
		}
	}

	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		invoice.CustomerID = *input.CustomerID
	}

	if input.Date != nil {
		invoice.Date = *input.Date
	}
	if input.ExpiredDate != nil {
		invoice.ExpiredDate = *input.ExpiredDate
	}
	if invoice.ExpiredDate.Before(invoice.Date) {
		return nil, apperror.NewValidationError("Expiry date cannot precede the invoice date",
			apperror.FieldError{Field: "expired_date", Message: "Must be on or after the invoice date"})
	}
	if input.TaxRate != nil {
		invoice.TaxRate = *input.TaxRate
	}
	if input.Discount != nil {
		invoice.Discount = billing.Cents(*input.Discount)
	}
	if input.Currency != nil {
		invoice.Currency = *input.Currency
	}
	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.Approved != nil {
		invoice.Approved = *input.Approved
	}
	if input.Notes != nil {
		invoice.Notes = input.Notes
	}
	if input.Recurring != nil {
		invoice.Recurring = *input.Recurring
	}

	if input.Items != nil {
		newItems := buildItems(input.Items)
		if err := s.invoiceRepo.ReplaceItems(ctx, invoice.ID, newItems); err != nil {
			return nil, err
		}
		invoice.Items = newItems
	}

	invoice.UpdatedByID = &input.UpdatedByID
	stampTotals(invoice)

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, err
	}

	return s.invoiceRepo.GetWithDetails(ctx, invoice.ID)
}

// DeleteInvoice soft-removes an invoice and cascades the removal onto its
// payments so they stop counting toward received totals.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	if err := s.invoiceRepo.SoftDelete(ctx, id); err != nil {
		return err
	}
	return s.paymentRepo.SoftDeleteByInvoice(ctx, id)
}

// Summary returns dashboard aggregates over all non-removed invoices
func (s *InvoiceService) Summary(ctx context.Context) (*repository.InvoiceSummaryResult, error) {
	return s.analyticsRepo.InvoiceSummary(ctx, time.Now())
}

// CustomerAnalysis bundles a customer's invoice aggregates with an optional
// AI-written commentary. Insight is empty when generation is unavailable.
type CustomerAnalysis struct {
	Customer *entity.Customer                       `json:"customer"`
	Stats    *repository.CustomerInvoiceStatsResult `json:"stats"`
	Insight  string                                 `json:"insight,omitempty"`
}

// AnalyzeCustomer aggregates a customer's invoice history and asks the
// insight generator for a short commentary. Insight failure never fails the
// call.
func (s *InvoiceService) AnalyzeCustomer(ctx context.Context, customerID uuid.UUID) (*CustomerAnalysis, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	stats, err := s.analyticsRepo.CustomerInvoiceStats(ctx, customerID, time.Now())
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(
		"Customer %s has %d invoices totalling %.2f, of which %d are overdue. Average invoice is %.2f. Summarize their payment behavior.",
		customer.Name, stats.TotalInvoices, stats.TotalAmount, stats.OverdueCount, stats.AverageInvoice,
	)

	return &CustomerAnalysis{
		Customer: customer,
		Stats:    stats,
		Insight:  s.insights.Generate(ctx, prompt),
	}, nil
}

// UploadAttachmentInput represents the attachment upload input
type UploadAttachmentInput struct {
	InvoiceID    uuid.UUID
	UploadedByID uuid.UUID
	Name         string
	Description  string
	IsPublic     bool
	Size         int64
	MimeType     string
	Content      io.Reader
}

// UploadAttachment stores the file and records it against the invoice
func (s *InvoiceService) UploadAttachment(ctx context.Context, input *UploadAttachmentInput) (*entity.InvoiceAttachment, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError("File name is required",
			apperror.FieldError{Field: "name", Message: "Name is required"})
	}
	if s.maxUploadSize > 0 && input.Size > s.maxUploadSize {
		return nil, apperror.NewBadRequestError("File exceeds the maximum upload size")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	path, err := s.files.Save(input.Name, input.Content)
	if err != nil {
		return nil, err
	}

	attachment := entity.InvoiceAttachment{
		InvoiceID:    input.InvoiceID,
		Name:         input.Name,
		Path:         path,
		Description:  input.Description,
		IsPublic:     input.IsPublic,
		UploadedByID: input.UploadedByID,
		Size:         input.Size,
		MimeType:     input.MimeType,
	}

	if err := s.invoiceRepo.AddAttachments(ctx, []entity.InvoiceAttachment{attachment}); err != nil {
		// Don't leave an orphaned file behind
		if delErr := s.files.Delete(path); delErr != nil {
			s.logger.Warn().Err(delErr).Str("path", path).Msg("failed to clean up orphaned attachment file")
		}
		return nil, err
	}

	return &attachment, nil
}

// AttachmentFile is one file in a batch upload
type AttachmentFile struct {
	Name        string
	Description string
	IsPublic    bool
	Size        int64
	MimeType    string
	Content     io.Reader
}

// UploadAttachments stores several files and records them against the
// invoice as one batch. When the batch cannot be recorded, every file
// already stored is removed so nothing is left orphaned.
func (s *InvoiceService) UploadAttachments(ctx context.Context, invoiceID, uploadedByID uuid.UUID, files []AttachmentFile) ([]entity.InvoiceAttachment, error) {
	if len(files) == 0 {
		return nil, apperror.NewValidationError("Files cannot be empty",
			apperror.FieldError{Field: "files", Message: "At least one file is required"})
	}
	for _, f := range files {
		if f.Name == "" {
			return nil, apperror.NewValidationError("File name is required",
				apperror.FieldError{Field: "files", Message: "Every file needs a name"})
		}
		if s.maxUploadSize > 0 && f.Size > s.maxUploadSize {
			return nil, apperror.NewBadRequestError("File exceeds the maximum upload size")
		}
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	attachments := make([]entity.InvoiceAttachment, 0, len(files))
	cleanup := func() {
		for _, a := range attachments {
			if delErr := s.files.Delete(a.Path); delErr != nil {
				s.logger.Warn().Err(delErr).Str("path", a.Path).Msg("failed to clean up orphaned attachment file")
			}
		}
	}

	for _, f := range files {
		path, err := s.files.Save(f.Name, f.Content)
		if err != nil {
			cleanup()
			return nil, err
		}
		attachments = append(attachments, entity.InvoiceAttachment{
			InvoiceID:    invoiceID,
			Name:         f.Name,
			Path:         path,
			Description:  f.Description,
			IsPublic:     f.IsPublic,
			UploadedByID: uploadedByID,
			Size:         f.Size,
			MimeType:     f.MimeType,
		})
	}

	if err := s.invoiceRepo.AddAttachments(ctx, attachments); err != nil {
		cleanup()
		return nil, err
	}

	return attachments, nil
}

// ListAttachments returns an invoice's attachments
func (s *InvoiceService) ListAttachments(ctx context.Context, invoiceID uuid.UUID) ([]entity.InvoiceAttachment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return s.invoiceRepo.ListAttachments(ctx, invoiceID)
}

// OpenAttachment returns the attachment record and a reader over its stored
// file. The caller owns closing the reader.
func (s *InvoiceService) OpenAttachment(ctx context.Context, invoiceID, attachmentID uuid.UUID) (*entity.InvoiceAttachment, io.ReadCloser, error) {
	attachment, err := s.invoiceRepo.GetAttachment(ctx, invoiceID, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if attachment == nil {
		return nil, nil, apperror.NewNotFoundError("Attachment")
	}

	reader, err := s.files.Open(attachment.Path)
	if err != nil {
		return nil, nil, apperror.NewNotFoundError("Attachment file")
	}
	return attachment, reader, nil
}

// DeleteAttachment removes an attachment record and its stored file
func (s *InvoiceService) DeleteAttachment(ctx context.Context, invoiceID, attachmentID uuid.UUID) error {
	attachment, err := s.invoiceRepo.GetAttachment(ctx, invoiceID, attachmentID)
	if err != nil {
		return err
	}
	if attachment == nil {
		return apperror.NewNotFoundError("Attachment")
	}

	if err := s.invoiceRepo.RemoveAttachment(ctx, invoiceID, attachmentID); err != nil {
		return err
	}

	if err := s.files.Delete(attachment.Path); err != nil {
		s.logger.Warn().Err(err).Str("path", attachment.Path).Msg("failed to delete attachment file")
	}
	return nil
}
