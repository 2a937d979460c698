// Package billing holds the pure money math for invoices: totals
// calculation and payment-status resolution. Both functions are synchronous,
// allocation-free and safe to call repeatedly with the same inputs.
package billing

import (
	"math"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
)

// Cents converts a decimal amount to cents, rounding half away from zero.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Totals are the computed document-level amounts of an invoice, in cents.
type Totals struct {
	SubTotal int64
	TaxTotal int64
	Total    int64
}

// CalculateTotals computes an invoice's amounts from its line items and
// document-level adjustments, and stamps each item with its own line total
// (quantity x price). Per-item discount and tax rate are stored on the item
// but do not participate here; pricing is flat at the document level.
//
// Total may be negative (a fully credited or discounted document); callers
// must not assume Total >= 0.
func CalculateTotals(items []*entity.InvoiceItem, taxRate float64, discount, credit int64) Totals {
	var subTotal int64
	for _, item := range items {
		itemTotal := int64(item.Quantity) * item.Price
		item.Total = itemTotal
		subTotal += itemTotal
	}

	taxTotal := int64(float64(subTotal) * taxRate / 100)
	total := subTotal + taxTotal - discount - credit

	return Totals{
		SubTotal: subTotal,
		TaxTotal: taxTotal,
		Total:    total,
	}
}

// ResolvePaymentStatus derives an invoice's payment status from its
// post-adjustment total and the cumulative credit received. It must be
// re-invoked whenever either input changes.
func ResolvePaymentStatus(total, credit int64) enum.PaymentStatus {
	switch {
	case total <= 0:
		return enum.PaymentStatusPaid
	case credit > 0:
		return enum.PaymentStatusPartial
	default:
		return enum.PaymentStatusUnpaid
	}
}
