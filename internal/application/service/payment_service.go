package service

import (
	"context"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/billing"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PaymentService records payments against invoices and manages payment
// modes. Applying a payment is the only path that moves an invoice toward
// paid: it appends a ledger entry and folds the amount into the invoice's
// credit in one database-side update.
type PaymentService struct {
	paymentRepo     repository.PaymentRepository
	paymentModeRepo repository.PaymentModeRepository
	invoiceRepo     repository.InvoiceRepository
	notifier        *NotificationService
	logger          zerolog.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	paymentModeRepo repository.PaymentModeRepository,
	invoiceRepo repository.InvoiceRepository,
	notifier *NotificationService,
	logger zerolog.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:     paymentRepo,
		paymentModeRepo: paymentModeRepo,
		invoiceRepo:     invoiceRepo,
		notifier:        notifier,
		logger:          logger.With().Str("component", "payment_service").Logger(),
	}
}

// ApplyPaymentInput represents the apply payment input. Amount is a decimal
// and converted to cents on entry.
type ApplyPaymentInput struct {
	InvoiceID     uuid.UUID
	CreatedByID   uuid.UUID
	PaymentModeID *uuid.UUID
	Amount        float64
	Date          time.Time
	Ref           string
	Description   *string
}

// ApplyPayment records a payment against an invoice. The payment gets the
// next sequential number, the invoice's credit grows by the amount, its
// remaining total shrinks, and the payment status is re-derived.
func (s *PaymentService) ApplyPayment(ctx context.Context, input *ApplyPaymentInput) (*entity.Payment, error) {
	amount := billing.Cents(input.Amount)
	if amount <= 0 {
		return nil, apperror.NewValidationError("Amount must be greater than zero",
			apperror.FieldError{Field: "amount", Message: "Must be a positive amount"})
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	if invoice.IsRecurringTemplate {
		return nil, apperror.NewBadRequestError("Payments cannot be applied to a recurring template")
	}
	if invoice.PaymentStatus == enum.PaymentStatusPaid {
		return nil, apperror.NewConflictError("Invoice is already fully paid")
	}
	if amount > invoice.Total {
		return nil, apperror.NewValidationError("Amount exceeds the remaining balance",
			apperror.FieldError{Field: "amount", Message: "Cannot exceed the remaining balance"})
	}

	if input.PaymentModeID != nil {
		mode, err := s.paymentModeRepo.GetByID(ctx, *input.PaymentModeID)
		if err != nil {
			return nil, err
		}
		if mode == nil {
			return nil, apperror.NewNotFoundError("Payment mode")
		}
		if !mode.Enabled {
			return nil, apperror.NewBadRequestError("Payment mode is disabled")
		}
	}

	number, err := s.paymentRepo.NextNumber(ctx)
	if err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	payment := &entity.Payment{
		Number:        number,
		InvoiceID:     invoice.ID,
		CustomerID:    invoice.CustomerID,
		PaymentModeID: input.PaymentModeID,
		Amount:        amount,
		Date:          date,
		Ref:           input.Ref,
		Description:   input.Description,
		CreatedByID:   input.CreatedByID,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	newStatus := billing.ResolvePaymentStatus(invoice.Total-amount, invoice.Credit+amount)
	if err := s.invoiceRepo.AddCredit(ctx, invoice.ID, amount, newStatus); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("number", payment.Number).
		Str("invoice_id", invoice.ID.String()).
		Int64("amount_cents", amount).
		Str("payment_status", newStatus.String()).
		Msg("payment applied")

	if s.notifier != nil {
		if full, err := s.invoiceRepo.GetByID(ctx, invoice.ID); err == nil && full != nil {
			s.notifier.NotifyPaymentReceived(full, payment)
		}
	}

	return s.paymentRepo.GetByID(ctx, payment.ID)
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists payments with filtering and pagination
func (s *PaymentService) ListPayments(ctx context.Context, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.Payment], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	payments, total, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

// ListInvoicePayments returns every payment recorded against an invoice
func (s *PaymentService) ListInvoicePayments(ctx context.Context, invoiceID uuid.UUID) ([]entity.Payment, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return s.paymentRepo.ListByInvoice(ctx, invoiceID)
}

// UpdatePaymentInput represents the update payment input. Nil fields keep
// their stored values; Amount is a decimal like on apply.
type UpdatePaymentInput struct {
	PaymentID     uuid.UUID
	Amount        *float64
	Date          *time.Time
	PaymentModeID *uuid.UUID
	Ref           *string
	Description   *string
}

// UpdatePayment corrects a recorded payment. An amount change moves the
// invoice's credit and remaining total by the difference and re-derives the
// payment status, so the books stay balanced. The payment keeps its number.
func (s *PaymentService) UpdatePayment(ctx context.Context, input *UpdatePaymentInput) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, input.PaymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, payment.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	var delta int64
	if input.Amount != nil {
		amount := billing.Cents(*input.Amount)
		if amount <= 0 {
			return nil, apperror.NewValidationError("Amount must be greater than zero",
				apperror.FieldError{Field: "amount", Message: "Must be a positive amount"})
		}
		delta = amount - payment.Amount
		if delta > invoice.Total {
			return nil, apperror.NewValidationError("Amount exceeds the remaining balance",
				apperror.FieldError{Field: "amount", Message: "Cannot exceed the remaining balance"})
		}
		payment.Amount = amount
	}

	if input.PaymentModeID != nil {
		mode, err := s.paymentModeRepo.GetByID(ctx, *input.PaymentModeID)
		if err != nil {
			return nil, err
		}
		if mode == nil {
			return nil, apperror.NewNotFoundError("Payment mode")
		}
		payment.PaymentModeID = input.PaymentModeID
	}

	if input.Date != nil {
		payment.Date = *input.Date
	}
	if input.Ref != nil {
		payment.Ref = *input.Ref
	}
	if input.Description != nil {
		payment.Description = input.Description
	}

	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}

	if delta != 0 {
		newStatus := billing.ResolvePaymentStatus(invoice.Total-delta, invoice.Credit+delta)
		if err := s.invoiceRepo.AddCredit(ctx, invoice.ID, delta, newStatus); err != nil {
			return nil, err
		}
		s.logger.Info().
			Int64("number", payment.Number).
			Str("invoice_id", invoice.ID.String()).
			Int64("delta_cents", delta).
			Str("payment_status", newStatus.String()).
			Msg("payment amount corrected")
	}

	return s.paymentRepo.GetByID(ctx, payment.ID)
}

// DeletePayment removes a payment and gives the amount back to the
// invoice's remaining balance. The payment's number is never reused.
func (s *PaymentService) DeletePayment(ctx context.Context, id uuid.UUID) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if payment == nil {
		return apperror.NewNotFoundError("Payment")
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, payment.InvoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return apperror.NewNotFoundError("Invoice")
	}

	if err := s.paymentRepo.SoftDelete(ctx, payment.ID); err != nil {
		return err
	}

	newStatus := billing.ResolvePaymentStatus(invoice.Total+payment.Amount, invoice.Credit-payment.Amount)
	if err := s.invoiceRepo.AddCredit(ctx, invoice.ID, -payment.Amount, newStatus); err != nil {
		return err
	}

	s.logger.Info().
		Int64("number", payment.Number).
		Str("invoice_id", invoice.ID.String()).
		Int64("amount_cents", payment.Amount).
		Str("payment_status", newStatus.String()).
		Msg("payment removed, credit reversed")

	return nil
}

// CreatePaymentModeInput represents the create payment mode input
type CreatePaymentModeInput struct {
	Name        string
	Description *string
	Enabled     *bool
}

// CreatePaymentMode creates a new payment mode with a unique name
func (s *PaymentService) CreatePaymentMode(ctx context.Context, input *CreatePaymentModeInput) (*entity.PaymentMode, error) {
	if input.Name == "" {
		return nil, apperror.NewValidationError("Name is required",
			apperror.FieldError{Field: "name", Message: "Name is required"})
	}

	existing, err := s.paymentModeRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Payment mode already exists")
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	mode := &entity.PaymentMode{
		Name:        input.Name,
		Description: input.Description,
		Enabled:     enabled,
	}
	if err := s.paymentModeRepo.Create(ctx, mode); err != nil {
		return nil, err
	}
	return mode, nil
}

// ListPaymentModes returns all payment modes
func (s *PaymentService) ListPaymentModes(ctx context.Context) ([]entity.PaymentMode, error) {
	return s.paymentModeRepo.List(ctx)
}

// UpdatePaymentModeInput represents the update payment mode input
type UpdatePaymentModeInput struct {
	ID          uuid.UUID
	Name        *string
	Description *string
	Enabled     *bool
}

// UpdatePaymentMode updates a payment mode
func (s *PaymentService) UpdatePaymentMode(ctx context.Context, input *UpdatePaymentModeInput) (*entity.PaymentMode, error) {
	mode, err := s.paymentModeRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if mode == nil {
		return nil, apperror.NewNotFoundError("Payment mode")
	}

	if input.Name != nil && *input.Name != mode.Name {
		existing, err := s.paymentModeRepo.GetByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != mode.ID {
			return nil, apperror.NewConflictError("Payment mode already exists")
		}
		mode.Name = *input.Name
	}
	if input.Description != nil {
		mode.Description = input.Description
	}
	if input.Enabled != nil {
		mode.Enabled = *input.Enabled
	}

	if err := s.paymentModeRepo.Update(ctx, mode); err != nil {
		return nil, err
	}
	return mode, nil
}

// DeletePaymentMode removes a payment mode
func (s *PaymentService) DeletePaymentMode(ctx context.Context, id uuid.UUID) error {
	mode, err := s.paymentModeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if mode == nil {
		return apperror.NewNotFoundError("Payment mode")
	}
	return s.paymentModeRepo.Delete(ctx, id)
}
