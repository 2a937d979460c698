package service

import (
	"context"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/billing"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RecurringService materializes concrete invoices from recurring sources.
// Any invoice carrying a recurrence cycle acts as a generator; explicit
// templates additionally stay out of regular invoice listings.
type RecurringService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	notifier     *NotificationService
	logger       zerolog.Logger
}

// NewRecurringService creates a new recurring invoice service
func NewRecurringService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	notifier *NotificationService,
	logger zerolog.Logger,
) *RecurringService {
	return &RecurringService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		notifier:     notifier,
		logger:       logger.With().Str("component", "recurring_service").Logger(),
	}
}

// ShouldGenerate reports whether a recurring source is due for generation at
// the given instant. Elapsed time counts in whole days (floor) since the
// last generation, or since creation when nothing was generated yet.
func ShouldGenerate(source *entity.Invoice, now time.Time) bool {
	threshold := source.Recurring.ThresholdDays()
	if threshold == 0 {
		return false
	}

	last := source.CreatedAt
	if source.LastRecurringGenerated != nil {
		last = *source.LastRecurringGenerated
	}

	elapsedDays := int(now.Sub(last).Hours() / 24)
	return elapsedDays >= threshold
}

// Generate materializes one concrete invoice from the source. The new
// invoice starts with zero credit, status sent and payment status unpaid;
// it inherits the source's cycle and its due date follows that cycle,
// so a generated invoice keeps recurring on its own schedule. A child is
// never due at birth: its cursor starts at creation time, so the next
// sweep skips it until a full cycle elapses. The source's generation cursor
// advances in a separate write after the invoice exists, so a cursor
// failure can cause a duplicate on the next sweep but never a lost invoice.
func (s *RecurringService) Generate(ctx context.Context, source *entity.Invoice, now time.Time) (*entity.Invoice, error) {
	if source.Recurring == enum.RecurringNone {
		return nil, apperror.NewBadRequestError("Invoice has no recurrence cycle")
	}

	items := make([]entity.InvoiceItem, 0, len(source.Items))
	for _, item := range source.Items {
		items = append(items, entity.InvoiceItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Discount:    item.Discount,
			TaxRate:     item.TaxRate,
		})
	}

	generated := &entity.Invoice{
		CreatedByID:         source.CreatedByID,
		CustomerID:          source.CustomerID,
		Date:                now,
		ExpiredDate:         source.Recurring.NextDueDate(now),
		TaxRate:             source.TaxRate,
		Discount:            source.Discount,
		Currency:            source.Currency,
		Status:              enum.InvoiceStatusSent,
		Notes:               source.Notes,
		Recurring:           source.Recurring,
		RecurringTemplateID: &source.ID,
		Items:               items,
	}

	itemPtrs := make([]*entity.InvoiceItem, len(generated.Items))
	for i := range generated.Items {
		itemPtrs[i] = &generated.Items[i]
	}
	totals := billing.CalculateTotals(itemPtrs, generated.TaxRate, generated.Discount, 0)
	generated.SubTotal = totals.SubTotal
	generated.TaxTotal = totals.TaxTotal
	generated.Total = totals.Total
	generated.PaymentStatus = billing.ResolvePaymentStatus(totals.Total, 0)

	if err := s.invoiceRepo.Create(ctx, generated); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.UpdateLastGenerated(ctx, source.ID, now); err != nil {
		s.logger.Error().Err(err).
			Str("source_id", source.ID.String()).
			Msg("generated invoice created but cursor update failed, next sweep may duplicate")
		return nil, err
	}

	created, err := s.invoiceRepo.GetWithDetails(ctx, generated.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyInvoiceCreated(created)
	}

	return created, nil
}

// ProcessAllResult summarizes one recurring sweep.
type ProcessAllResult struct {
	Scanned   int `json:"scanned"`
	Generated int `json:"generated"`
	Failed    int `json:"failed"`
}

// ProcessAll sweeps every recurring source and generates the due ones. A
// failure on one source is logged and skipped; it never stops the sweep.
func (s *RecurringService) ProcessAll(ctx context.Context, now time.Time) (*ProcessAllResult, error) {
	sources, err := s.invoiceRepo.ListRecurring(ctx)
	if err != nil {
		return nil, err
	}

	result := &ProcessAllResult{Scanned: len(sources)}
	for i := range sources {
		source := &sources[i]
		if !ShouldGenerate(source, now) {
			continue
		}
		if _, err := s.Generate(ctx, source, now); err != nil {
			result.Failed++
			s.logger.Error().Err(err).
				Str("source_id", source.ID.String()).
				Str("cycle", source.Recurring.String()).
				Msg("recurring generation failed")
			continue
		}
		result.Generated++
	}

	s.logger.Info().
		Int("scanned", result.Scanned).
		Int("generated", result.Generated).
		Int("failed", result.Failed).
		Msg("recurring sweep complete")

	return result, nil
}

// CreateTemplateInput represents the create recurring template input
type CreateTemplateInput struct {
	CreatedByID uuid.UUID
	CustomerID  uuid.UUID
	Recurring   enum.RecurringCycle
	TaxRate     float64
	Discount    float64
	Currency    string
	Notes       *string
	Items       []InvoiceItemInput
}

// CreateTemplate creates a recurring template. Templates hold the blueprint
// for generated invoices and never appear in regular invoice listings.
func (s *RecurringService) CreateTemplate(ctx context.Context, input *CreateTemplateInput) (*entity.Invoice, error) {
	if input.Recurring == enum.RecurringNone {
		return nil, apperror.NewValidationError("Recurrence cycle is required",
			apperror.FieldError{Field: "recurring", Message: "Must be daily, weekly, monthly or yearly"})
	}
	if len(input.Items) == 0 {
		return nil, apperror.NewValidationError("Items cannot be empty",
			apperror.FieldError{Field: "items", Message: "At least one item is required"})
	}
	if fieldErrors := validateItems(input.Items); len(fieldErrors) > 0 {
		return nil, apperror.NewValidationError("Invalid invoice items", fieldErrors...)
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

	now := time.Now()
	template := &entity.Invoice{
		CreatedByID:         input.CreatedByID,
		CustomerID:          input.CustomerID,
		Date:                now,
		ExpiredDate:         input.Recurring.NextDueDate(now),
		TaxRate:             input.TaxRate,
		Discount:            billing.Cents(input.Discount),
		Currency:            currency,
		Status:              enum.InvoiceStatusDraft,
		Notes:               input.Notes,
		Recurring:           input.Recurring,
		IsRecurringTemplate: true,
		Items:               buildItems(input.Items),
	}
	stampTotals(template)

	if err := s.invoiceRepo.Create(ctx, template); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetWithDetails(ctx, template.ID)
}

// ListTemplates returns the caller's recurring templates
func (s *RecurringService) ListTemplates(ctx context.Context, createdBy uuid.UUID) ([]entity.Invoice, error) {
	return s.invoiceRepo.ListTemplates(ctx, createdBy)
}

// GetTemplate returns one of the caller's recurring templates
func (s *RecurringService) GetTemplate(ctx context.Context, id, createdBy uuid.UUID) (*entity.Invoice, error) {
	template, err := s.invoiceRepo.GetTemplate(ctx, id, createdBy)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperror.NewNotFoundError("Template")
	}
	return template, nil
}

// UpdateTemplateInput represents the update recurring template input. Nil
// fields keep their stored values; a non-nil Items replaces the full item
// list.
type UpdateTemplateInput struct {
	TemplateID  uuid.UUID
	UpdatedByID uuid.UUID
	CustomerID  *uuid.UUID
	Recurring   *enum.RecurringCycle
	TaxRate     *float64
	Discount    *float64
	Currency    *string
	Notes       *string
	Items       []InvoiceItemInput
}

// UpdateTemplate merges the given fields into one of the caller's templates
// and recomputes totals. Changing the cycle re-derives the due date from
// the template's date. Already-generated invoices are not touched.
func (s *RecurringService) UpdateTemplate(ctx context.Context, input *UpdateTemplateInput) (*entity.Invoice, error) {
	template, err := s.GetTemplate(ctx, input.TemplateID, input.UpdatedByID)
	if err != nil {
		return nil, err
	}

	if input.Recurring != nil && *input.Recurring == enum.RecurringNone {
		return nil, apperror.NewValidationError("Recurrence cycle is required",
			apperror.FieldError{Field: "recurring", Message: "Must be daily, weekly, monthly or yearly"})
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
		template.CustomerID = *input.CustomerID
	}

	if input.Recurring != nil {
		template.Recurring = *input.Recurring
		template.ExpiredDate = input.Recurring.NextDueDate(template.Date)
	}
	if input.TaxRate != nil {
		template.TaxRate = *input.TaxRate
	}
	if input.Discount != nil {
		template.Discount = billing.Cents(*input.Discount)
	}
	if input.Currency != nil {
		template.Currency = *input.Currency
	}
	if input.Notes != nil {
		template.Notes = input.Notes
	}

	if input.Items != nil {
		newItems := buildItems(input.Items)
		if err := s.invoiceRepo.ReplaceItems(ctx, template.ID, newItems); err != nil {
			return nil, err
		}
		template.Items = newItems
	}

	template.UpdatedByID = &input.UpdatedByID
	stampTotals(template)

	if err := s.invoiceRepo.Update(ctx, template); err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetTemplate(ctx, template.ID, input.UpdatedByID)
}

// TriggerTemplate generates an invoice from a template immediately,
// regardless of whether the cycle threshold has elapsed.
func (s *RecurringService) TriggerTemplate(ctx context.Context, id, createdBy uuid.UUID) (*entity.Invoice, error) {
	template, err := s.GetTemplate(ctx, id, createdBy)
	if err != nil {
		return nil, err
	}
	return s.Generate(ctx, template, time.Now())
}

// DeleteTemplate soft-removes one of the caller's recurring templates so it
// stops generating.
func (s *RecurringService) DeleteTemplate(ctx context.Context, id, createdBy uuid.UUID) error {
	template, err := s.GetTemplate(ctx, id, createdBy)
	if err != nil {
		return err
	}
	return s.invoiceRepo.SoftDelete(ctx, template.ID)
}
