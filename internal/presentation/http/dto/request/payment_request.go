package request

import (
	"time"

	"github.com/google/uuid"
)

// ApplyPaymentRequest represents a payment application request
type ApplyPaymentRequest struct {
	Amount        float64    `json:"amount" binding:"required"`
	Date          *time.Time `json:"date"`
	PaymentModeID *uuid.UUID `json:"payment_mode_id"`
	Ref           string     `json:"ref" binding:"omitempty,max=255"`
	Description   *string    `json:"description"`
}

// UpdatePaymentRequest represents a payment correction request. Omitted
// fields keep their stored values.
type UpdatePaymentRequest struct {
	Amount        *float64   `json:"amount" binding:"omitempty,gt=0"`
	Date          *time.Time `json:"date"`
	PaymentModeID *uuid.UUID `json:"payment_mode_id"`
	Ref           *string    `json:"ref" binding:"omitempty,max=255"`
	Description   *string    `json:"description"`
}

// PaymentFilterRequest represents payment filter parameters
type PaymentFilterRequest struct {
	InvoiceID  string `form:"invoice_id"`
	CustomerID string `form:"customer_id"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CreatePaymentModeRequest represents a payment mode creation request
type CreatePaymentModeRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}

// UpdatePaymentModeRequest represents a payment mode update request
type UpdatePaymentModeRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Enabled     *bool   `json:"enabled"`
}
