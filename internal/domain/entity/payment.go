package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment represents one recorded receipt of money against an invoice.
// The customer reference is denormalized from the invoice at creation time.
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Number        int64      `gorm:"not null;index" json:"number"`
	InvoiceID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"invoice_id"`
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"customer_id"`
	PaymentModeID *uuid.UUID `gorm:"type:uuid" json:"payment_mode_id,omitempty"`
	Amount        int64      `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Date          time.Time  `gorm:"not null" json:"date"`
	Ref           string     `gorm:"size:255" json:"ref"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	CreatedByID   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Invoice     *Invoice     `gorm:"foreignKey:InvoiceID" json:"invoice,omitempty"`
	Customer    *Customer    `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	PaymentMode *PaymentMode `gorm:"foreignKey:PaymentModeID" json:"payment_mode,omitempty"`
	CreatedBy   User         `gorm:"foreignKey:CreatedByID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// PaymentMode is a configurable way of receiving money (bank transfer,
// cash, card). Names are unique.
type PaymentMode struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:100;unique;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment mode
func (m *PaymentMode) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentMode model
func (PaymentMode) TableName() string {
	return "payment_modes"
}
