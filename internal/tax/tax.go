package tax

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Code identifies a tax category applied to a document line.
type Code string

const (
	// CodeNone applies no tax.
	CodeNone Code = "none"
	// CodeGST5 applies 5% GST.
	CodeGST5 Code = "gst5"
	// CodeGST18 applies 18% GST.
	CodeGST18 Code = "gst18"
	// CodeIGST18 applies 18% IGST for inter-state supply.
	CodeIGST18 Code = "igst18"
)

var rates = map[Code]decimal.Decimal{
	CodeNone:   decimal.Zero,
	CodeGST5:   decimal.NewFromInt(5),
	CodeGST18:  decimal.NewFromInt(18),
	CodeIGST18: decimal.NewFromInt(18),
}

// Codes returns every known tax code in a stable order.
func Codes() []Code {
	return []Code{CodeNone, CodeGST5, CodeGST18, CodeIGST18}
}

// Rate returns the percentage rate for the code. Unknown codes carry no tax.
func Rate(c Code) decimal.Decimal {
	if rate, ok := rates[c]; ok {
		return rate
	}
	return decimal.Zero
}

// Valid reports whether the code is one of the known tax categories.
func Valid(c Code) bool {
	_, ok := rates[c]
	return ok
}

// Parse normalises free text into a Code, falling back to CodeNone.
func Parse(value string) Code {
	c := Code(strings.ToLower(strings.TrimSpace(value)))
	if Valid(c) {
		return c
	}
	return CodeNone
}
