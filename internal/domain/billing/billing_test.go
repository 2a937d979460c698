package billing

import (
	"testing"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/stretchr/testify/assert"
)

func items(pairs ...[2]int64) []*entity.InvoiceItem {
	out := make([]*entity.InvoiceItem, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, &entity.InvoiceItem{Quantity: int(p[0]), Price: p[1]})
	}
	return out
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		items    []*entity.InvoiceItem
		taxRate  float64
		discount int64
		credit   int64
		want     Totals
	}{
		{
			name:  "empty item list yields zero totals",
			items: nil,
			want:  Totals{SubTotal: 0, TaxTotal: 0, Total: 0},
		},
		{
			name:     "two units at 500 with 10 percent tax and 50 discount",
			items:    items([2]int64{2, 50000}),
			taxRate:  10,
			discount: 5000,
			want:     Totals{SubTotal: 100000, TaxTotal: 10000, Total: 105000},
		},
		{
			name:    "multiple items sum quantity times price",
			items:   items([2]int64{3, 1000}, [2]int64{1, 2500}, [2]int64{2, 750}),
			taxRate: 0,
			want:    Totals{SubTotal: 7000, TaxTotal: 0, Total: 7000},
		},
		{
			name:     "credit and discount can push total negative",
			items:    items([2]int64{1, 1000}),
			discount: 500,
			credit:   1000,
			want:     Totals{SubTotal: 1000, TaxTotal: 0, Total: -500},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.items, tt.taxRate, tt.discount, tt.credit)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateTotalsMutatesItems(t *testing.T) {
	lines := items([2]int64{2, 50000}, [2]int64{4, 250})
	CalculateTotals(lines, 0, 0, 0)
	assert.Equal(t, int64(100000), lines[0].Total)
	assert.Equal(t, int64(1000), lines[1].Total)
}

func TestCalculateTotalsIsDeterministic(t *testing.T) {
	lines := items([2]int64{7, 1999}, [2]int64{3, 4999})
	first := CalculateTotals(lines, 18, 2000, 500)
	second := CalculateTotals(lines, 18, 2000, 500)
	assert.Equal(t, first, second)
}

func TestResolvePaymentStatus(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		credit int64
		want   enum.PaymentStatus
	}{
		{"zero total is paid", 0, 0, enum.PaymentStatusPaid},
		{"negative total is paid", -100, 0, enum.PaymentStatusPaid},
		{"positive total without credit is unpaid", 105000, 0, enum.PaymentStatusUnpaid},
		{"positive total with credit is partial", 105000, 40000, enum.PaymentStatusPartial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePaymentStatus(tt.total, tt.credit))
		})
	}
}

// Increasing credit on a fixed positive total must walk the status forward
// through unpaid -> partial -> paid and never backward.
func TestResolvePaymentStatusMonotonic(t *testing.T) {
	const total = int64(105000)
	rank := map[enum.PaymentStatus]int{
		enum.PaymentStatusUnpaid:  0,
		enum.PaymentStatusPartial: 1,
		enum.PaymentStatusPaid:    2,
	}

	prev := -1
	for credit := int64(0); credit <= total; credit += 15000 {
		remaining := total - credit
		status := ResolvePaymentStatus(remaining, credit)
		if rank[status] < prev {
			t.Fatalf("status went backward at credit=%d: %v", credit, status)
		}
		prev = rank[status]
	}
}
