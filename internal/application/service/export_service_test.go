package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	infra "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestExportService(env *testEnv) *ExportService {
	return NewExportService(
		infra.NewInvoiceRepository(env.db),
		infra.NewCustomerRepository(env.db),
		infra.NewPaymentRepository(env.db),
	)
}

func TestExportInvoicesXLSX(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)
	exports := newTestExportService(env)

	data, err := exports.ExportInvoicesXLSX(context.Background(), &repository.InvoiceFilterParams{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Reference", rows[0][0])
	assert.Equal(t, InvoiceRef(invoice), rows[1][0])
	assert.Equal(t, env.customer.Name, rows[1][1])
	assert.Equal(t, "1050", rows[1][9])
}

func TestExportCustomersCSV(t *testing.T) {
	env := newTestEnv(t)
	exports := newTestExportService(env)

	data, err := exports.ExportCustomersCSV(context.Background())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Name", records[0][1])
	assert.Equal(t, env.customer.Name, records[1][1])
	assert.Equal(t, *env.customer.Email, records[1][2])
}

func TestExportPaymentsCSV(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)
	ctx := context.Background()

	_, err := env.payments.ApplyPayment(ctx, &ApplyPaymentInput{
		InvoiceID:   invoice.ID,
		CreatedByID: env.user.ID,
		Amount:      400,
		Ref:         "wire-001",
	})
	require.NoError(t, err)

	exports := newTestExportService(env)
	data, err := exports.ExportPaymentsCSV(ctx, &repository.PaymentFilterParams{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, "400.00", records[1][3])
	assert.Equal(t, "wire-001", records[1][5])
}
