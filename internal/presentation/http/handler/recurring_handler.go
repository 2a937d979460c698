package handler

import (
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/request"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// RecurringHandler handles recurring template HTTP requests
type RecurringHandler struct {
	recurringService *service.RecurringService
}

// NewRecurringHandler creates a new recurring handler
func NewRecurringHandler(recurringService *service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// CreateTemplate handles creating a recurring template
func (h *RecurringHandler) CreateTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	template, err := h.recurringService.CreateTemplate(c.Request.Context(), &service.CreateTemplateInput{
		CreatedByID: *userID,
		CustomerID:  req.CustomerID,
		Recurring:   enum.ParseRecurringCycle(req.Recurring),
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		Currency:    req.Currency,
		Notes:       req.Notes,
		Items:       toItemInputs(req.Items),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Template created successfully", template)
}

// ListTemplates handles listing the caller's recurring templates
func (h *RecurringHandler) ListTemplates(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Templates retrieved successfully", templates)
}

// GetTemplate handles retrieving one of the caller's templates
func (h *RecurringHandler) GetTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid template ID")
		return
	}

	template, err := h.recurringService.GetTemplate(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template retrieved successfully", template)
}

// UpdateTemplate handles merging changes into one of the caller's templates
func (h *RecurringHandler) UpdateTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid template ID")
		return
	}

	var req request.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateTemplateInput{
		TemplateID:  id,
		UpdatedByID: *userID,
		CustomerID:  req.CustomerID,
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		Currency:    req.Currency,
		Notes:       req.Notes,
	}
	if req.Recurring != nil {
		cycle := enum.ParseRecurringCycle(*req.Recurring)
		input.Recurring = &cycle
	}
	if req.Items != nil {
		input.Items = toItemInputs(req.Items)
	}

	template, err := h.recurringService.UpdateTemplate(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template updated successfully", template)
}

// Trigger handles generating an invoice from a template immediately
func (h *RecurringHandler) Trigger(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid template ID")
		return
	}

	invoice, err := h.recurringService.TriggerTemplate(c.Request.Context(), id, *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice generated successfully", invoice)
}

// DeleteTemplate handles removing a template
func (h *RecurringHandler) DeleteTemplate(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid template ID")
		return
	}

	if err := h.recurringService.DeleteTemplate(c.Request.Context(), id, *userID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Template deleted successfully", nil)
}

// ProcessAll handles manually running the recurring sweep. Admin-only.
func (h *RecurringHandler) ProcessAll(c *gin.Context) {
	result, err := h.recurringService.ProcessAll(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recurring sweep complete", result)
}
