package domain

import "time"

// LoyaltyTxType classifies a ledger entry. Earned and redeemed entries carry
// a positive magnitude in the API, with the direction encoded by the type;
// adjusted entries carry a signed delta as given.
type LoyaltyTxType string

const (
	LoyaltyEarned   LoyaltyTxType = "earned"
	LoyaltyRedeemed LoyaltyTxType = "redeemed"
	LoyaltyAdjusted LoyaltyTxType = "adjusted"
)

func (t LoyaltyTxType) Valid() bool {
	switch t {
	case LoyaltyEarned, LoyaltyRedeemed, LoyaltyAdjusted:
		return true
	}
	return false
}

// SignedPoints converts API-surface points into the ledger delta.
func (t LoyaltyTxType) SignedPoints(points int) int {
	if t == LoyaltyRedeemed {
		return -points
	}
	return points
}

// LoyaltyTransaction is one append-only ledger row. A customer's balance is
// always the BalanceAfter of their most recent row; it is never mutated
// independently, so the balance stays reconstructable from the ledger alone.
type LoyaltyTransaction struct {
	ID           int64
	StoreID      int64
	CustomerID   int64
	PaymentID    *int64
	Type         LoyaltyTxType
	Points       int // signed delta as applied to the balance
	BalanceAfter int
	Description  *string
	CreatedAt    time.Time
}

// Customer is the minimal customer projection the core needs: identity,
// contact for notifications, and the denormalized balance kept equal to the
// ledger head for fast reads.
type Customer struct {
	ID             int64
	StoreID        int64
	Name           string
	Email          *string
	Phone          *string
	LoyaltyBalance int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
