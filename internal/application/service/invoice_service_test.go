package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceComputesTotals(t *testing.T) {
	env := newTestEnv(t)

	invoice := env.createInvoice(t)

	assert.Equal(t, int64(100000), invoice.SubTotal)
	assert.Equal(t, int64(10000), invoice.TaxTotal)
	assert.Equal(t, int64(5000), invoice.Discount)
	assert.Equal(t, int64(105000), invoice.Total)
	assert.Equal(t, enum.PaymentStatusUnpaid, invoice.PaymentStatus)
	assert.Equal(t, "USD", invoice.Currency)

	require.Len(t, invoice.Items, 1)
	assert.Equal(t, int64(50000), invoice.Items[0].Price)
	assert.Equal(t, int64(100000), invoice.Items[0].Total)
	require.NotNil(t, invoice.Customer)
	assert.Equal(t, env.customer.ID, invoice.Customer.ID)
}

func TestCreateInvoiceRejectsEmptyItems(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	_, err := env.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CreatedByID: env.user.ID,
		CustomerID:  env.customer.ID,
		Date:        now,
		ExpiredDate: now.AddDate(0, 1, 0),
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	require.Len(t, appErr.Errors, 1)
	assert.Equal(t, "items", appErr.Errors[0].Field)
}

func TestCreateInvoiceRejectsInvalidItems(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	_, err := env.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CreatedByID: env.user.ID,
		CustomerID:  env.customer.ID,
		Date:        now,
		ExpiredDate: now.AddDate(0, 1, 0),
		Items: []InvoiceItemInput{
			{Name: "", Quantity: 0, Price: -5},
		},
	})
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	assert.Len(t, appErr.Errors, 3)
}

func TestCreateInvoiceRejectsExpiryBeforeDate(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	_, err := env.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CreatedByID: env.user.ID,
		CustomerID:  env.customer.ID,
		Date:        now,
		ExpiredDate: now.AddDate(0, 0, -1),
		Items: []InvoiceItemInput{
			{Name: "Consulting", Quantity: 1, Price: 100},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestCreateInvoiceUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()

	_, err := env.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CreatedByID: env.user.ID,
		CustomerID:  uuid.New(),
		Date:        now,
		ExpiredDate: now.AddDate(0, 1, 0),
		Items: []InvoiceItemInput{
			{Name: "Consulting", Quantity: 1, Price: 100},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestUpdateInvoiceRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	taxRate := 20.0
	discount := 0.0
	updated, err := env.invoices.UpdateInvoice(context.Background(), &UpdateInvoiceInput{
		InvoiceID:   invoice.ID,
		UpdatedByID: env.user.ID,
		TaxRate:     &taxRate,
		Discount:    &discount,
		Items: []InvoiceItemInput{
			{Name: "Consulting", Quantity: 1, Price: 200},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), updated.SubTotal)
	assert.Equal(t, int64(4000), updated.TaxTotal)
	assert.Equal(t, int64(24000), updated.Total)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, int64(20000), updated.Items[0].Total)
	require.NotNil(t, updated.UpdatedByID)
	assert.Equal(t, env.user.ID, *updated.UpdatedByID)
}

func TestUpdateInvoicePreservesCredit(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	_, err := env.payments.ApplyPayment(context.Background(), &ApplyPaymentInput{
		InvoiceID:   invoice.ID,
		CreatedByID: env.user.ID,
		Amount:      400,
	})
	require.NoError(t, err)

	notes := "revised"
	updated, err := env.invoices.UpdateInvoice(context.Background(), &UpdateInvoiceInput{
		InvoiceID:   invoice.ID,
		UpdatedByID: env.user.ID,
		Notes:       &notes,
	})
	require.NoError(t, err)

	// 1000 + 100 - 50 - 400 paid
	assert.Equal(t, int64(40000), updated.Credit)
	assert.Equal(t, int64(65000), updated.Total)
	assert.Equal(t, enum.PaymentStatusPartial, updated.PaymentStatus)
}

func TestUpdateInvoiceRejectsEmptyItemList(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	_, err := env.invoices.UpdateInvoice(context.Background(), &UpdateInvoiceInput{
		InvoiceID:   invoice.ID,
		UpdatedByID: env.user.ID,
		Items:       []InvoiceItemInput{},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestDeleteInvoiceCascadesPayments(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	payment, err := env.payments.ApplyPayment(context.Background(), &ApplyPaymentInput{
		InvoiceID:   invoice.ID,
		CreatedByID: env.user.ID,
		Amount:      100,
	})
	require.NoError(t, err)

	require.NoError(t, env.invoices.DeleteInvoice(context.Background(), invoice.ID))

	_, err = env.invoices.GetInvoice(context.Background(), invoice.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	_, err = env.payments.GetPayment(context.Background(), payment.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestListInvoicesFiltersByPaymentStatus(t *testing.T) {
	env := newTestEnv(t)
	first := env.createInvoice(t)
	env.createInvoice(t)

	_, err := env.payments.ApplyPayment(context.Background(), &ApplyPaymentInput{
		InvoiceID:   first.ID,
		CreatedByID: env.user.ID,
		Amount:      1050,
	})
	require.NoError(t, err)

	paid := enum.PaymentStatusPaid
	result, err := env.invoices.ListInvoices(context.Background(), &repository.InvoiceFilterParams{
		PaymentStatus: &paid,
	})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, first.ID, result.Items[0].ID)
}

func TestUploadAndDownloadAttachment(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)
	ctx := context.Background()

	attachment, err := env.invoices.UploadAttachment(ctx, &UploadAttachmentInput{
		InvoiceID:    invoice.ID,
		UploadedByID: env.user.ID,
		Name:         "contract.pdf",
		Size:         12,
		MimeType:     "application/pdf",
		Content:      strings.NewReader("pdf-contents"),
	})
	require.NoError(t, err)
	assert.True(t, env.files.Exists(attachment.Path))

	listed, err := env.invoices.ListAttachments(ctx, invoice.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	got, reader, err := env.invoices.OpenAttachment(ctx, invoice.ID, attachment.ID)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "pdf-contents", string(data))
	assert.Equal(t, attachment.ID, got.ID)

	require.NoError(t, env.invoices.DeleteAttachment(ctx, invoice.ID, attachment.ID))
	assert.False(t, env.files.Exists(attachment.Path))

	_, _, err = env.invoices.OpenAttachment(ctx, invoice.ID, attachment.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestUploadAttachmentRejectsOversizedFile(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	_, err := env.invoices.UploadAttachment(context.Background(), &UploadAttachmentInput{
		InvoiceID:    invoice.ID,
		UploadedByID: env.user.ID,
		Name:         "huge.bin",
		Size:         (1 << 20) + 1,
		Content:      strings.NewReader("x"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestUploadAttachmentsStoresWholeBatch(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)
	ctx := context.Background()

	attachments, err := env.invoices.UploadAttachments(ctx, invoice.ID, env.user.ID, []AttachmentFile{
		{Name: "contract.pdf", Size: 12, MimeType: "application/pdf", Content: strings.NewReader("pdf-contents")},
		{Name: "timesheet.xlsx", Size: 9, MimeType: "application/vnd.ms-excel", Content: strings.NewReader("xlsx-data")},
	})
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	for _, a := range attachments {
		assert.True(t, env.files.Exists(a.Path))
		assert.Equal(t, invoice.ID, a.InvoiceID)
		assert.Equal(t, env.user.ID, a.UploadedByID)
	}

	listed, err := env.invoices.ListAttachments(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestUploadAttachmentsRejectsBatchWithOversizedFile(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)
	ctx := context.Background()

	// one bad file fails the whole batch before anything is stored
	_, err := env.invoices.UploadAttachments(ctx, invoice.ID, env.user.ID, []AttachmentFile{
		{Name: "small.txt", Size: 4, Content: strings.NewReader("tiny")},
		{Name: "huge.bin", Size: (1 << 20) + 1, Content: strings.NewReader("x")},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	listed, err := env.invoices.ListAttachments(ctx, invoice.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestUploadAttachmentsRequiresFiles(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	_, err := env.invoices.UploadAttachments(context.Background(), invoice.ID, env.user.ID, nil)
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Code)
	require.NotEmpty(t, appErr.Errors)
	assert.Equal(t, "files", appErr.Errors[0].Field)
}
