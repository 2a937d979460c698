package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"
)

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
}

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config}
}

// InvoiceMail carries everything the invoice mail templates need. Amounts
// are decimals, not cents.
type InvoiceMail struct {
	To           string
	CustomerName string
	InvoiceRef   string
	Amount       float64
	Currency     string
	DueDate      time.Time
}

var invoiceCreatedTmpl = template.Must(template.New("invoice_created").Parse(`
<h2>New Invoice</h2>
<p>Hello {{.CustomerName}},</p>
<p>A new invoice <strong>{{.InvoiceRef}}</strong> for <strong>{{printf "%.2f" .Amount}} {{.Currency}}</strong> has been issued to you.</p>
<p>It is due on {{.DueDate.Format "02 Jan 2006"}}.</p>
`))

var paymentReceivedTmpl = template.Must(template.New("payment_received").Parse(`
<h2>Payment Received</h2>
<p>Hello {{.CustomerName}},</p>
<p>We received your payment of <strong>{{printf "%.2f" .Amount}} {{.Currency}}</strong> against invoice <strong>{{.InvoiceRef}}</strong>.</p>
<p>Thank you.</p>
`))

var invoiceOverdueTmpl = template.Must(template.New("invoice_overdue").Parse(`
<h2>Invoice Overdue</h2>
<p>Hello {{.CustomerName}},</p>
<p>Invoice <strong>{{.InvoiceRef}}</strong> for <strong>{{printf "%.2f" .Amount}} {{.Currency}}</strong> was due on {{.DueDate.Format "02 Jan 2006"}} and is still unpaid.</p>
<p>Please settle it at your earliest convenience.</p>
`))

var paymentReminderTmpl = template.Must(template.New("payment_reminder").Parse(`
<h2>Payment Reminder</h2>
<p>Hello {{.CustomerName}},</p>
<p>This is a friendly reminder that invoice <strong>{{.InvoiceRef}}</strong> for <strong>{{printf "%.2f" .Amount}} {{.Currency}}</strong> is due on {{.DueDate.Format "02 Jan 2006"}}.</p>
`))

// SendInvoiceCreatedEmail notifies a customer that an invoice was issued
func (s *EmailService) SendInvoiceCreatedEmail(mail InvoiceMail) error {
	return s.sendTemplate(mail, "New invoice "+mail.InvoiceRef, invoiceCreatedTmpl)
}

// SendPaymentReceivedEmail confirms a received payment to the customer
func (s *EmailService) SendPaymentReceivedEmail(mail InvoiceMail) error {
	return s.sendTemplate(mail, "Payment received for invoice "+mail.InvoiceRef, paymentReceivedTmpl)
}

// SendInvoiceOverdueEmail warns a customer about an overdue invoice
func (s *EmailService) SendInvoiceOverdueEmail(mail InvoiceMail) error {
	return s.sendTemplate(mail, "Invoice "+mail.InvoiceRef+" is overdue", invoiceOverdueTmpl)
}

// SendPaymentReminderEmail reminds a customer about an upcoming due date
func (s *EmailService) SendPaymentReminderEmail(mail InvoiceMail) error {
	return s.sendTemplate(mail, "Payment reminder for invoice "+mail.InvoiceRef, paymentReminderTmpl)
}

func (s *EmailService) sendTemplate(mail InvoiceMail, subject string, tmpl *template.Template) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, mail); err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	message := s.buildHTMLEmail(mail.To, subject, body.String())
	return s.sendEmail(mail.To, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)

	if err := smtp.SendMail(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)
	return []byte(headers + htmlBody)
}
