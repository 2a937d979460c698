package entity

import (
	"encoding/json"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice represents a billing document. SubTotal, TaxTotal, Total and
// PaymentStatus are computed server-side on every mutation and are never
// client-authored.
type Invoice struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index" json:"created_by"`
	UpdatedByID *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	CustomerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`

	Date        time.Time `gorm:"type:date;not null" json:"date"`
	ExpiredDate time.Time `gorm:"type:date;not null" json:"expired_date"`

	TaxRate  float64 `gorm:"default:0" json:"tax_rate"`
	SubTotal int64   `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TaxTotal int64   `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount int64   `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Credit   int64   `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total    int64   `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON

	Currency      string             `gorm:"size:3;default:'USD'" json:"currency"`
	Status        enum.InvoiceStatus `gorm:"default:0" json:"status"`
	PaymentStatus enum.PaymentStatus `gorm:"default:0" json:"payment_status"`
	Approved      bool               `gorm:"default:false" json:"approved"`
	Notes         *string            `gorm:"type:text" json:"notes,omitempty"`

	// Recurrence
	Recurring              enum.RecurringCycle `gorm:"default:0;index" json:"recurring"`
	IsRecurringTemplate    bool                `gorm:"default:false;index" json:"is_recurring_template"`
	RecurringTemplateID    *uuid.UUID          `gorm:"type:uuid;index" json:"recurring_template,omitempty"`
	LastRecurringGenerated *time.Time          `json:"last_recurring_generated,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Customer    *Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CreatedBy   User                `gorm:"foreignKey:CreatedByID" json:"-"`
	Items       []InvoiceItem       `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
	Payments    []Payment           `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
	Attachments []InvoiceAttachment `gorm:"foreignKey:InvoiceID" json:"attachments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i Invoice) MarshalJSON() ([]byte, error) {
	type Alias Invoice
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		TaxTotal float64 `json:"tax_total"`
		Discount float64 `json:"discount"`
		Credit   float64 `json:"credit"`
		Total    float64 `json:"total"`
		Overdue  bool    `json:"overdue"`
	}{
		Alias:    Alias(i),
		SubTotal: float64(i.SubTotal) / 100,
		TaxTotal: float64(i.TaxTotal) / 100,
		Discount: float64(i.Discount) / 100,
		Credit:   float64(i.Credit) / 100,
		Total:    float64(i.Total) / 100,
		Overdue:  i.IsOverdue(time.Now()),
	})
}

// IsOverdue reports whether the invoice is past due and not fully paid.
// Derived on read, never stored.
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.ExpiredDate.Before(now) && i.PaymentStatus != enum.PaymentStatusPaid
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// InvoiceItem represents one line item on an invoice. Discount and TaxRate
// are stored per item but the document-level adjustments drive the totals;
// invoice pricing is flat.
type InvoiceItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Quantity    int       `gorm:"not null;default:1" json:"quantity"`
	Price       int64     `gorm:"not null" json:"-"`  // Stored in cents, excluded from JSON
	Discount    int64     `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	TaxRate     float64   `gorm:"default:0" json:"tax_rate"`
	Total       int64     `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (it InvoiceItem) MarshalJSON() ([]byte, error) {
	type Alias InvoiceItem
	return json.Marshal(&struct {
		Alias
		Price    float64 `json:"price"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Alias:    Alias(it),
		Price:    float64(it.Price) / 100,
		Discount: float64(it.Discount) / 100,
		Total:    float64(it.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new invoice item
func (it *InvoiceItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceItem model
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// InvoiceAttachment is a file attached to one invoice. The stored file is
// owned by the invoice and deleted with the attachment row.
type InvoiceAttachment struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID    uuid.UUID `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Path         string    `gorm:"size:512;not null" json:"path"`
	Description  string    `gorm:"type:text" json:"description"`
	IsPublic     bool      `gorm:"default:false" json:"is_public"`
	UploadedByID uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	Size         int64     `gorm:"not null" json:"size"`
	MimeType     string    `gorm:"size:100" json:"mime_type"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new attachment
func (a *InvoiceAttachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceAttachment model
func (InvoiceAttachment) TableName() string {
	return "invoice_attachments"
}
