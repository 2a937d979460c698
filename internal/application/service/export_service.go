package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

const exportPageSize = 1000

// ExportService renders invoices, customers and payments into downloadable
// files. Exports respect the same filters as the list endpoints.
type ExportService struct {
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	paymentRepo  repository.PaymentRepository
}

// NewExportService creates a new export service
func NewExportService(
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
) *ExportService {
	return &ExportService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
	}
}

// ExportInvoicesXLSX renders the filtered invoices into an xlsx workbook
func (s *ExportService) ExportInvoicesXLSX(ctx context.Context, params *repository.InvoiceFilterParams) ([]byte, error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{Page: 1, PerPage: exportPageSize}
	}

	invoices, _, err := s.invoiceRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Invoices"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Reference", "Customer", "Date", "Due Date", "Currency", "Sub Total", "Tax Total", "Discount", "Credit", "Total", "Status", "Payment Status"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, inv := range invoices {
		customerName := ""
		if inv.Customer != nil {
			customerName = inv.Customer.Name
		}
		values := []interface{}{
			InvoiceRef(&inv),
			customerName,
			inv.Date.Format("2006-01-02"),
			inv.ExpiredDate.Format("2006-01-02"),
			inv.Currency,
			float64(inv.SubTotal) / 100,
			float64(inv.TaxTotal) / 100,
			float64(inv.Discount) / 100,
			float64(inv.Credit) / 100,
			float64(inv.Total) / 100,
			inv.Status.String(),
			inv.PaymentStatus.String(),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportCustomersCSV renders all customers into a CSV file
func (s *ExportService) ExportCustomersCSV(ctx context.Context) ([]byte, error) {
	customers, err := s.customerRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"ID", "Name", "Email", "Phone", "Company", "Country", "Created At"}); err != nil {
		return nil, err
	}

	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	for _, c := range customers {
		record := []string{
			c.ID.String(),
			c.Name,
			deref(c.Email),
			deref(c.Phone),
			deref(c.Company),
			deref(c.Country),
			c.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportPaymentsCSV renders the filtered payments into a CSV file
func (s *ExportService) ExportPaymentsCSV(ctx context.Context, params *repository.PaymentFilterParams) ([]byte, error) {
	if params.Pagination == nil {
		params.Pagination = &pagination.PaginationParams{Page: 1, PerPage: exportPageSize}
	}

	payments, _, err := s.paymentRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Number", "Invoice", "Customer", "Amount", "Date", "Ref"}); err != nil {
		return nil, err
	}

	for _, p := range payments {
		customerName := ""
		if p.Customer != nil {
			customerName = p.Customer.Name
		}
		record := []string{
			strconv.FormatInt(p.Number, 10),
			p.InvoiceID.String(),
			customerName,
			fmt.Sprintf("%.2f", float64(p.Amount)/100),
			p.Date.Format("2006-01-02"),
			p.Ref,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
