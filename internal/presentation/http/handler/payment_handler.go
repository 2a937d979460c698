package handler

import (
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/request"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles payment-related HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Apply handles recording a payment against an invoice
func (h *PaymentHandler) Apply(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.ApplyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.ApplyPaymentInput{
		InvoiceID:     invoiceID,
		CreatedByID:   *userID,
		PaymentModeID: req.PaymentModeID,
		Amount:        req.Amount,
		Ref:           req.Ref,
		Description:   req.Description,
	}
	if req.Date != nil {
		input.Date = *req.Date
	} else {
		input.Date = time.Now()
	}

	payment, err := h.paymentService.ApplyPayment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// Get handles retrieving a payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Update handles correcting a recorded payment
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	var req request.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), &service.UpdatePaymentInput{
		PaymentID:     id,
		Amount:        req.Amount,
		Date:          req.Date,
		PaymentModeID: req.PaymentModeID,
		Ref:           req.Ref,
		Description:   req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment updated successfully", payment)
}

// Delete handles removing a payment and reversing its credit
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment ID")
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment deleted successfully", nil)
}

// List handles listing payments with filtering
func (h *PaymentHandler) List(c *gin.Context) {
	var filter request.PaymentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PaymentFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.InvoiceID != "" {
		if invoiceID, err := uuid.Parse(filter.InvoiceID); err == nil {
			params.InvoiceID = &invoiceID
		}
	}
	if filter.CustomerID != "" {
		if customerID, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &customerID
		}
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Payments retrieved successfully", result)
}

// ListByInvoice handles listing every payment recorded against an invoice
func (h *PaymentHandler) ListByInvoice(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	payments, err := h.paymentService.ListInvoicePayments(c.Request.Context(), invoiceID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payments retrieved successfully", payments)
}

// CreateMode handles creating a payment mode
func (h *PaymentHandler) CreateMode(c *gin.Context) {
	var req request.CreatePaymentModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mode, err := h.paymentService.CreatePaymentMode(c.Request.Context(), &service.CreatePaymentModeInput{
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment mode created successfully", mode)
}

// ListModes handles listing payment modes
func (h *PaymentHandler) ListModes(c *gin.Context) {
	modes, err := h.paymentService.ListPaymentModes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment modes retrieved successfully", modes)
}

// UpdateMode handles updating a payment mode
func (h *PaymentHandler) UpdateMode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment mode ID")
		return
	}

	var req request.UpdatePaymentModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	mode, err := h.paymentService.UpdatePaymentMode(c.Request.Context(), &service.UpdatePaymentModeInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Enabled:     req.Enabled,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment mode updated successfully", mode)
}

// DeleteMode handles removing a payment mode
func (h *PaymentHandler) DeleteMode(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid payment mode ID")
		return
	}

	if err := h.paymentService.DeletePaymentMode(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment mode deleted successfully", nil)
}
