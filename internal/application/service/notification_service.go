package service

import (
	"context"
	"sync"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/email"
	"github.com/rs/zerolog"
)

// Mailer is the outbound mail surface the notification service needs.
// Implemented by email.EmailService; faked in tests.
type Mailer interface {
	SendInvoiceCreatedEmail(mail email.InvoiceMail) error
	SendPaymentReceivedEmail(mail email.InvoiceMail) error
	SendInvoiceOverdueEmail(mail email.InvoiceMail) error
	SendPaymentReminderEmail(mail email.InvoiceMail) error
}

type mailKind int

const (
	mailInvoiceCreated mailKind = iota
	mailPaymentReceived
	mailInvoiceOverdue
	mailPaymentReminder
)

type mailJob struct {
	kind mailKind
	mail email.InvoiceMail
}

// NotificationService delivers customer-facing notifications. Sends are
// strictly best-effort: enqueue never blocks the calling operation, and a
// delivery failure is logged, not returned. A full queue drops the
// notification.
type NotificationService struct {
	invoiceRepo  repository.InvoiceRepository
	mailer       Mailer
	logger       zerolog.Logger
	reminderDays int

	queue chan mailJob
	wg    sync.WaitGroup
	once  sync.Once
}

// NewNotificationService creates a notification service with a bounded
// outbox of the given size. reminderDays is the look-ahead window for
// payment reminders.
func NewNotificationService(
	invoiceRepo repository.InvoiceRepository,
	mailer Mailer,
	logger zerolog.Logger,
	bufferSize int,
	reminderDays int,
) *NotificationService {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	if reminderDays <= 0 {
		reminderDays = 3
	}
	return &NotificationService{
		invoiceRepo:  invoiceRepo,
		mailer:       mailer,
		logger:       logger.With().Str("component", "notifier").Logger(),
		reminderDays: reminderDays,
		queue:        make(chan mailJob, bufferSize),
	}
}

// Start launches the background delivery worker.
func (s *NotificationService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for job := range s.queue {
			s.deliver(job)
		}
	}()
}

// Close stops accepting notifications and waits for queued ones to drain.
func (s *NotificationService) Close() {
	s.once.Do(func() {
		close(s.queue)
	})
	s.wg.Wait()
}

func (s *NotificationService) deliver(job mailJob) {
	var err error
	switch job.kind {
	case mailInvoiceCreated:
		err = s.mailer.SendInvoiceCreatedEmail(job.mail)
	case mailPaymentReceived:
		err = s.mailer.SendPaymentReceivedEmail(job.mail)
	case mailInvoiceOverdue:
		err = s.mailer.SendInvoiceOverdueEmail(job.mail)
	case mailPaymentReminder:
		err = s.mailer.SendPaymentReminderEmail(job.mail)
	}
	if err != nil {
		s.logger.Warn().Err(err).
			Str("to", job.mail.To).
			Str("invoice", job.mail.InvoiceRef).
			Msg("notification delivery failed")
	}
}

func (s *NotificationService) enqueue(job mailJob) {
	select {
	case s.queue <- job:
	default:
		s.logger.Warn().
			Str("to", job.mail.To).
			Str("invoice", job.mail.InvoiceRef).
			Msg("notification queue full, dropping")
	}
}

// invoiceMail builds the mail payload for an invoice. Returns false when the
// customer has no email address to deliver to.
func invoiceMail(inv *entity.Invoice) (email.InvoiceMail, bool) {
	if inv.Customer == nil || inv.Customer.Email == nil || *inv.Customer.Email == "" {
		return email.InvoiceMail{}, false
	}
	return email.InvoiceMail{
		To:           *inv.Customer.Email,
		CustomerName: inv.Customer.Name,
		InvoiceRef:   InvoiceRef(inv),
		Amount:       float64(inv.Total) / 100,
		Currency:     inv.Currency,
		DueDate:      inv.ExpiredDate,
	}, true
}

// InvoiceRef returns the human-facing reference for an invoice.
func InvoiceRef(inv *entity.Invoice) string {
	return "INV-" + inv.ID.String()[:8]
}

// NotifyInvoiceCreated queues an issuance mail for the invoice's customer.
// No-op when the customer has no email.
func (s *NotificationService) NotifyInvoiceCreated(inv *entity.Invoice) {
	if mail, ok := invoiceMail(inv); ok {
		s.enqueue(mailJob{kind: mailInvoiceCreated, mail: mail})
	}
}

// NotifyPaymentReceived queues a receipt confirmation for the paid amount.
func (s *NotificationService) NotifyPaymentReceived(inv *entity.Invoice, payment *entity.Payment) {
	mail, ok := invoiceMail(inv)
	if !ok {
		return
	}
	mail.Amount = float64(payment.Amount) / 100
	s.enqueue(mailJob{kind: mailPaymentReceived, mail: mail})
}

// NotifyOverdueInvoices queues an overdue notice for every invoice past its
// due date and not fully paid. Returns the number of notices queued.
func (s *NotificationService) NotifyOverdueInvoices(ctx context.Context, now time.Time) (int, error) {
	invoices, err := s.invoiceRepo.ListOverdue(ctx, now)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range invoices {
		if mail, ok := invoiceMail(&invoices[i]); ok {
			s.enqueue(mailJob{kind: mailInvoiceOverdue, mail: mail})
			sent++
		}
	}

	s.logger.Info().Int("queued", sent).Int("overdue", len(invoices)).Msg("overdue sweep complete")
	return sent, nil
}

// NotifyPaymentReminders queues a reminder for every unpaid invoice coming
// due within the configured look-ahead window. Returns the number queued.
func (s *NotificationService) NotifyPaymentReminders(ctx context.Context, now time.Time) (int, error) {
	invoices, err := s.invoiceRepo.ListDueWithin(ctx, now, s.reminderDays)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range invoices {
		if mail, ok := invoiceMail(&invoices[i]); ok {
			s.enqueue(mailJob{kind: mailPaymentReminder, mail: mail})
			sent++
		}
	}

	s.logger.Info().Int("queued", sent).Int("due_soon", len(invoices)).Msg("reminder sweep complete")
	return sent, nil
}
