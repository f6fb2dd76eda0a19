package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fixly-labs/backend-fixly/internal/tax"
)

// hundred is the percentage divisor for tax rates.
var hundred = decimal.NewFromInt(100)

// Amounts holds the derived values of a single priced line. The fields are
// kept unrounded so document folds do not compound rounding error; rounding
// happens once, at presentation, via Rounded.
type Amounts struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Rounded returns a presentation copy with every field rounded half-up to
// two decimal places.
func (a Amounts) Rounded() Amounts {
	return Amounts{
		Subtotal:  a.Subtotal.Round(2),
		TaxAmount: a.TaxAmount.Round(2),
		Total:     a.Total.Round(2),
	}
}

// ComputeLine derives subtotal, tax amount, and total for one line.
//
// The discount is an absolute amount subtracted from unitPrice×qty before tax.
// A discount larger than the raw amount yields a negative subtotal; the
// engine does not clamp it. Callers validate before submission.
func ComputeLine(unitPrice, qty, discount decimal.Decimal, code tax.Code) Amounts {
	rawAmount := unitPrice.Mul(qty)
	subtotal := rawAmount.Sub(discount)
	taxAmount := subtotal.Mul(tax.Rate(code)).Div(hundred)
	return Amounts{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// ComputeServiceLine prices a service entry, which has no explicit quantity.
func ComputeServiceLine(unitPrice, discount decimal.Decimal, code tax.Code) Amounts {
	return ComputeLine(unitPrice, decimal.NewFromInt(1), discount, code)
}

// ParseAmount converts free text from a form field into a decimal. Anything
// that does not parse is treated as zero so a half-typed field never breaks
// the running computation.
func ParseAmount(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero
	}
	return parsed
}

// ParseQuantity behaves like ParseAmount but substitutes 1 for anything that
// is missing or not positive, matching the default for single-unit lines.
func ParseQuantity(value string) decimal.Decimal {
	qty := ParseAmount(value)
	if qty.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return qty
}
