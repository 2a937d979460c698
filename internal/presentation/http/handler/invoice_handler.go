package handler

import (
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/request"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func toItemInputs(items []request.InvoiceItemRequest) []service.InvoiceItemInput {
	inputs := make([]service.InvoiceItemInput, 0, len(items))
	for _, item := range items {
		inputs = append(inputs, service.InvoiceItemInput{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Discount:    item.Discount,
			TaxRate:     item.TaxRate,
		})
	}
	return inputs
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	status := enum.InvoiceStatusDraft
	if req.Status != "" {
		parsed, err := enum.ParseInvoiceStatus(req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		status = parsed
	}

	input := &service.CreateInvoiceInput{
		CreatedByID: *userID,
		CustomerID:  req.CustomerID,
		Date:        req.Date,
		ExpiredDate: req.ExpiredDate,
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		Currency:    req.Currency,
		Status:      status,
		Notes:       req.Notes,
		Recurring:   enum.ParseRecurringCycle(req.Recurring),
		Items:       toItemInputs(req.Items),
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles retrieving an invoice with its items, payments and attachments
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

// List handles listing invoices with filtering
func (h *InvoiceHandler) List(c *gin.Context) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.InvoiceFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    filter.Page,
			PerPage: filter.PerPage,
		},
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
		customerID, err := uuid.Parse(filter.CustomerID)
		if err == nil {
			params.CustomerID = &customerID
		}
	}

	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			params.StartDate = &start
		}
	}
	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			params.EndDate = &end
		}
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Update handles updating an invoice
func (h *InvoiceHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.UpdateInvoiceInput{
		InvoiceID:   id,
		UpdatedByID: *userID,
		CustomerID:  req.CustomerID,
		Date:        req.Date,
		ExpiredDate: req.ExpiredDate,
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		Currency:    req.Currency,
		Approved:    req.Approved,
		Notes:       req.Notes,
	}

	if req.Status != nil {
		status, err := enum.ParseInvoiceStatus(*req.Status)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		input.Status = &status
	}
	if req.Recurring != nil {
		cycle := enum.ParseRecurringCycle(*req.Recurring)
		input.Recurring = &cycle
	}
	if req.Items != nil {
		input.Items = toItemInputs(req.Items)
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

// Delete handles soft-removing an invoice and its payments
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice deleted successfully", nil)
}

// Summary handles the invoice summary aggregate
func (h *InvoiceHandler) Summary(c *gin.Context) {
	summary, err := h.invoiceService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice summary retrieved successfully", summary)
}

// UploadAttachment handles attaching a file to an invoice
func (h *InvoiceHandler) UploadAttachment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.UploadAttachmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid form fields")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	input := &service.UploadAttachmentInput{
		InvoiceID:    id,
		UploadedByID: *userID,
		Name:         fileHeader.Filename,
		Description:  req.Description,
		IsPublic:     req.IsPublic,
		Size:         fileHeader.Size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		Content:      file,
	}

	attachment, err := h.invoiceService.UploadAttachment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Attachment uploaded successfully", attachment)
}

// UploadAttachments handles attaching several files to an invoice at once.
// The form fields apply to every file in the batch.
func (h *InvoiceHandler) UploadAttachments(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	var req request.UploadAttachmentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "Invalid form fields")
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.BadRequest(c, "Invalid multipart form")
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		response.BadRequest(c, "At least one file is required")
		return
	}

	files := make([]service.AttachmentFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(c, "Unable to read uploaded file")
			return
		}
		defer f.Close()

		files = append(files, service.AttachmentFile{
			Name:        fh.Filename,
			Description: req.Description,
			IsPublic:    req.IsPublic,
			Size:        fh.Size,
			MimeType:    fh.Header.Get("Content-Type"),
			Content:     f,
		})
	}

	attachments, err := h.invoiceService.UploadAttachments(c.Request.Context(), id, *userID, files)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Attachments uploaded successfully", attachments)
}

// ListAttachments handles listing an invoice's attachments
func (h *InvoiceHandler) ListAttachments(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}

	attachments, err := h.invoiceService.ListAttachments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Attachments retrieved successfully", attachments)
}

// DownloadAttachment streams an attachment's file back to the client
func (h *InvoiceHandler) DownloadAttachment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		response.BadRequest(c, "Invalid attachment ID")
		return
	}

	attachment, reader, err := h.invoiceService.OpenAttachment(c.Request.Context(), invoiceID, attachmentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", `attachment; filename="`+attachment.Name+`"`)
	c.DataFromReader(200, attachment.Size, attachment.MimeType, reader, nil)
}

// DeleteAttachment removes an attachment and its stored file
func (h *InvoiceHandler) DeleteAttachment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid invoice ID")
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId")
	if !ok {
		response.BadRequest(c, "Invalid attachment ID")
		return
	}

	if err := h.invoiceService.DeleteAttachment(c.Request.Context(), invoiceID, attachmentID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Attachment deleted successfully", nil)
}
