package request

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceItemRequest represents one line item in an invoice request
type InvoiceItemRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	Quantity    int     `json:"quantity" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
	Discount    float64 `json:"discount" binding:"min=0"`
	TaxRate     float64 `json:"tax_rate" binding:"min=0,max=100"`
}

// CreateInvoiceRequest represents an invoice creation request
type CreateInvoiceRequest struct {
	CustomerID  uuid.UUID            `json:"customer_id" binding:"required"`
	Date        time.Time            `json:"date" binding:"required"`
	ExpiredDate time.Time            `json:"expired_date" binding:"required"`
	TaxRate     float64              `json:"tax_rate" binding:"min=0,max=100"`
	Discount    float64              `json:"discount" binding:"min=0"`
	Currency    string               `json:"currency" binding:"omitempty,len=3"`
	Status      string               `json:"status"`
	Notes       *string              `json:"notes"`
	Recurring   string               `json:"recurring"`
	Items       []InvoiceItemRequest `json:"items" binding:"required"`
}

// UpdateInvoiceRequest represents an invoice update request. Omitted fields
// keep their stored values.
type UpdateInvoiceRequest struct {
	CustomerID  *uuid.UUID           `json:"customer_id"`
	Date        *time.Time           `json:"date"`
	ExpiredDate *time.Time           `json:"expired_date"`
	TaxRate     *float64             `json:"tax_rate" binding:"omitempty,min=0,max=100"`
	Discount    *float64             `json:"discount" binding:"omitempty,min=0"`
	Currency    *string              `json:"currency" binding:"omitempty,len=3"`
	Status      *string              `json:"status"`
	Approved    *bool                `json:"approved"`
	Notes       *string              `json:"notes"`
	Recurring   *string              `json:"recurring"`
	Items       []InvoiceItemRequest `json:"items"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
	CustomerID    string `form:"customer_id"`
	StartDate     string `form:"start_date"`
	EndDate       string `form:"end_date"`
	Search        string `form:"search"`
	SortBy        string `form:"sort_by"`
	SortOrder     string `form:"sort_order"`
	Page          int    `form:"page"`
	PerPage       int    `form:"per_page"`
}

// CreateTemplateRequest represents a recurring template creation request
type CreateTemplateRequest struct {
	CustomerID uuid.UUID            `json:"customer_id" binding:"required"`
	Recurring  string               `json:"recurring" binding:"required"`
	TaxRate    float64              `json:"tax_rate" binding:"min=0,max=100"`
	Discount   float64              `json:"discount" binding:"min=0"`
	Currency   string               `json:"currency" binding:"omitempty,len=3"`
	Notes      *string              `json:"notes"`
	Items      []InvoiceItemRequest `json:"items" binding:"required"`
}

// UpdateTemplateRequest represents a recurring template update request.
// Omitted fields keep their stored values.
type UpdateTemplateRequest struct {
	CustomerID *uuid.UUID           `json:"customer_id"`
	Recurring  *string              `json:"recurring"`
	TaxRate    *float64             `json:"tax_rate" binding:"omitempty,min=0,max=100"`
	Discount   *float64             `json:"discount" binding:"omitempty,min=0"`
	Currency   *string              `json:"currency" binding:"omitempty,len=3"`
	Notes      *string              `json:"notes"`
	Items      []InvoiceItemRequest `json:"items"`
}

// UploadAttachmentRequest represents the form fields accompanying an
// attachment upload
type UploadAttachmentRequest struct {
	Description string `form:"description"`
	IsPublic    bool   `form:"is_public"`
}
