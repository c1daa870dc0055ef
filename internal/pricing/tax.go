package pricing

import (
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/shopspring/decimal"
)

// TaxResult is the outcome of applying a tax rate to a base amount
type TaxResult struct {
	TaxAmount   decimal.Decimal `json:"tax_amount"`
	TaxableBase decimal.Decimal `json:"taxable_base"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTax applies percentage to base. Exclusive tax is added on top of
// base. Inclusive tax is extracted from base, leaving the total unchanged.
// Rounding happens once, on the tax amount.
func ComputeTax(base, percentage decimal.Decimal, inclusive bool) TaxResult {
	if !percentage.IsPositive() {
		return TaxResult{TaxAmount: decimal.Zero, TaxableBase: base, Total: base}
	}

	if inclusive {
		net := base.Div(decimal.NewFromInt(1).Add(percentage.Div(hundred)))
		tax := Round2(base.Sub(net))
		return TaxResult{
			TaxAmount:   tax,
			TaxableBase: base.Sub(tax),
			Total:       base,
		}
	}

	tax := Percent(base, percentage)
	return TaxResult{
		TaxAmount:   tax,
		TaxableBase: base,
		Total:       base.Add(tax),
	}
}

// ApplyTaxPolicy runs ComputeTax when the policy is in effect and returns a
// zero tax result otherwise
func ApplyTaxPolicy(base decimal.Decimal, policy event.TaxPolicy) TaxResult {
	if !policy.IsEffective() {
		return TaxResult{TaxAmount: decimal.Zero, TaxableBase: base, Total: base}
	}
	return ComputeTax(base, policy.Percentage, policy.Inclusive)
}
