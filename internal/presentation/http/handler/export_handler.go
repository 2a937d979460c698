package handler

import (
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/request"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles data export HTTP requests
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new export handler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Invoices streams the filtered invoices as an xlsx workbook
func (h *ExportHandler) Invoices(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status, err := enum.ParseInvoiceStatus(filter.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.Status = &status
	}
	if filter.PaymentStatus != "" {
		ps, err := enum.ParsePaymentStatus(filter.PaymentStatus)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		params.PaymentStatus = &ps
	}
	if filter.CustomerID != "" {
		if customerID, err := uuid.Parse(filter.CustomerID); err == nil {
			params.CustomerID = &customerID
		}
	}

	data, err := h.exportService.ExportInvoicesXLSX(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "invoices-" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, xlsxContentType, data)
}

// Customers streams all customers as a CSV file
func (h *ExportHandler) Customers(c *gin.Context) {
	data, err := h.exportService.ExportCustomersCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "customers-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv", data)
}

// Payments streams the filtered payments as a CSV file
func (h *ExportHandler) Payments(c *gin.Context) {
	var filter request.PaymentFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.PaymentFilterParams{
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

	data, err := h.exportService.ExportPaymentsCSV(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := "payments-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(200, "text/csv", data)
}
