package event

import (
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
)

// Event is the bookable event as read by the booking calculator
type Event struct {
	ID         string    `json:"id" db:"id"`
	Route      string    `json:"route" db:"route"`
	Title      string    `json:"title" db:"title"`
	CategoryID string    `json:"category_id,omitempty" db:"category_id"`
	Currency   string    `json:"currency" db:"currency"`
	Tax        TaxPolicy `json:"tax"`
	types.BaseModel
}

// TaxPolicy is configured per event
type TaxPolicy struct {
	ApplyTax   bool            `json:"apply_tax"`
	Label      string          `json:"label"`
	Percentage decimal.Decimal `json:"percentage"`
	Inclusive  bool            `json:"inclusive"`
}

// IsEffective reports whether tax should be computed and shown
func (p TaxPolicy) IsEffective() bool {
	return p.ApplyTax && p.Percentage.IsPositive()
}
