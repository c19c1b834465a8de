package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizePayments(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		payments   []Payment
		wantPaid   float64
		wantStatus PaymentState
	}{
		{
			name:  "refunded payments are excluded, exact total is paid",
			total: 100,
			payments: []Payment{
				{Amount: 40, Status: PaymentCompleted},
				{Amount: 30, Status: PaymentRefunded},
				{Amount: 60, Status: PaymentCompleted},
			},
			wantPaid:   100,
			wantStatus: PaymentStatePaid,
		},
		{
			name:       "no payments is unpaid",
			total:      100,
			payments:   nil,
			wantPaid:   0,
			wantStatus: PaymentStateUnpaid,
		},
		{
			name:       "partial payment",
			total:      100,
			payments:   []Payment{{Amount: 50, Status: PaymentCompleted}},
			wantPaid:   50,
			wantStatus: PaymentStatePartial,
		},
		{
			name:       "overpayment is paid",
			total:      100,
			payments:   []Payment{{Amount: 120, Status: PaymentCompleted}},
			wantPaid:   120,
			wantStatus: PaymentStatePaid,
		},
		{
			name:       "everything refunded is unpaid",
			total:      100,
			payments:   []Payment{{Amount: 100, Status: PaymentRefunded}},
			wantPaid:   0,
			wantStatus: PaymentStateUnpaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := SummarizePayments(tt.total, tt.payments)
			assert.Equal(t, tt.wantPaid, summary.PaidAmount)
			assert.Equal(t, tt.wantStatus, summary.Status)
		})
	}
}

// Sums that drift under binary floating point must still hit the paid
// boundary exactly.
func TestSummarizePaymentsDecimalBoundary(t *testing.T) {
	payments := []Payment{
		{Amount: 0.1, Status: PaymentCompleted},
		{Amount: 0.2, Status: PaymentCompleted},
	}
	summary := SummarizePayments(0.3, payments)
	assert.Equal(t, PaymentStatePaid, summary.Status)
}
