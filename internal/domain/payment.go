package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
)

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment is one row of an order's append-only payment ledger. A refund is a
// status flip on an existing row, never a negative-amount row.
type Payment struct {
	ID        int64
	StoreID   int64
	OrderID   int64
	Amount    float64
	Method    PaymentMethod
	Status    PaymentStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PaymentState is the derived aggregate payment position of an order.
type PaymentState string

const (
	PaymentStateUnpaid  PaymentState = "unpaid"
	PaymentStatePartial PaymentState = "partial"
	PaymentStatePaid    PaymentState = "paid"
)

// PaymentSummary is derived from the ledger, never stored.
type PaymentSummary struct {
	PaidAmount float64
	Status     PaymentState
}

// SummarizePayments derives an order's payment position from its ledger.
// Arithmetic runs on decimals so that exact equality at the paid boundary
// cannot be missed by floating-point drift.
func SummarizePayments(total float64, payments []Payment) PaymentSummary {
	paid := decimal.Zero
	for _, p := range payments {
		if p.Status == PaymentRefunded {
			continue
		}
		paid = paid.Add(decimal.NewFromFloat(p.Amount))
	}

	totalDec := decimal.NewFromFloat(total)

	summary := PaymentSummary{PaidAmount: paid.InexactFloat64()}
	switch {
	case paid.LessThanOrEqual(decimal.Zero):
		summary.Status = PaymentStateUnpaid
	case paid.GreaterThanOrEqual(totalDec):
		summary.Status = PaymentStatePaid
	default:
		summary.Status = PaymentStatePartial
	}
	return summary
}
