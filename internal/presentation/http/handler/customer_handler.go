package handler

import (
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/request"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
	invoiceService  *service.InvoiceService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService, invoiceService *service.InvoiceService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		invoiceService:  invoiceService,
	}
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		CreatedByID: *userID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Company:     req.Company,
		Address:     req.Address,
		Country:     req.Country,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles retrieving a customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// List handles listing customers with search
func (h *CustomerHandler) List(c *gin.Context) {
	var filter request.CustomerFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &pagination.PaginationParams{
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), params, filter.Search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	var req request.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		CustomerID: id,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Address:    req.Address,
		Country:    req.Country,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles soft-removing a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer deleted successfully", nil)
}

// Analyze handles the customer invoice analysis with AI commentary
func (h *CustomerHandler) Analyze(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid customer ID")
		return
	}

	analysis, err := h.invoiceService.AnalyzeCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer analysis retrieved successfully", analysis)
}
