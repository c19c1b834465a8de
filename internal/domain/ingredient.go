package domain

import "time"

// Ingredient is a stocked inventory item.
type Ingredient struct {
	ID                int64
	StoreID           int64
	Name              string
	Unit              string
	Quantity          float64
	CostPerUnit       float64
	LowStockThreshold float64
	Supplier          *string
	Notes             *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsLowStock reports whether the current quantity is at or below the
// configured threshold.
func (i *Ingredient) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// AdjustmentType carries the direction of a stock adjustment; the quantity in
// the command is always a positive magnitude.
type AdjustmentType string

const (
	AdjustmentAddition   AdjustmentType = "addition"
	AdjustmentUsage      AdjustmentType = "usage"
	AdjustmentCorrection AdjustmentType = "adjustment" // stocktake write-off
)

// Valid reports whether the type is a known adjustment kind.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentAddition, AdjustmentUsage, AdjustmentCorrection:
		return true
	}
	return false
}

// SignedDelta converts a positive magnitude into the stock delta implied by
// the adjustment type. Additions increase stock; usage and stocktake
// write-offs decrease it.
func (t AdjustmentType) SignedDelta(quantity float64) float64 {
	if t == AdjustmentAddition {
		return quantity
	}
	return -quantity
}
