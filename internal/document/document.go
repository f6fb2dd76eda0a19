package document

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fixly-labs/backend-fixly/internal/pricing"
	"github.com/fixly-labs/backend-fixly/internal/tax"
)

// ErrLineNotFound indicates the referenced line does not exist on the document.
var ErrLineNotFound = errors.New("document line not found")

// ErrUnknownKind is returned for document kinds outside the supported set.
var ErrUnknownKind = errors.New("unknown document kind")

// Kind identifies which form a document originates from.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindPurchase  Kind = "purchase"
	KindSale      Kind = "sale"
	KindExpense   Kind = "expense"
)

var numberPrefixes = map[Kind]string{
	KindQuotation: "QT",
	KindPurchase:  "PO",
	KindSale:      "INV",
	KindExpense:   "EXP",
}

// ParseKind validates free text into a Kind.
func ParseKind(value string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := numberPrefixes[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, value)
	}
	return k, nil
}

// Line is one priced row on a document, a part or a service. The Amounts
// field is derived and replaced wholesale whenever an input changes.
type Line struct {
	ID          string
	Description string
	UnitPrice   decimal.Decimal
	Qty         decimal.Decimal
	Discount    decimal.Decimal
	TaxCode     tax.Code
	TaxRef      string
	Amounts     pricing.Amounts
}

// LineInput carries the user-entered fields for a new line.
type LineInput struct {
	Description string
	UnitPrice   decimal.Decimal
	Qty         decimal.Decimal
	Discount    decimal.Decimal
	TaxCode     tax.Code
	TaxRef      string
}

// LinePatch carries a partial update; nil fields are left untouched.
type LinePatch struct {
	Description *string
	UnitPrice   *decimal.Decimal
	Qty         *decimal.Decimal
	Discount    *decimal.Decimal
	TaxCode     *tax.Code
	TaxRef      *string
}

// Totals is the document-level fold over all current lines. Each field is
// produced by summing the unrounded per-line values and rounding once.
type Totals struct {
	Quantity  decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// Document is an ordered collection of lines for one quotation, purchase,
// sale, or expense entry. It is transient state: it exists in memory until
// submitted or abandoned. Lines are owned exclusively by their document.
type Document struct {
	ID        string
	Kind      Kind
	Number    string
	CreatedAt time.Time
	lines     []Line
}

// New creates an empty draft. The number is pre-generated for display only;
// the backend assigns the real number at submission.
func New(kind Kind) *Document {
	now := time.Now()
	return &Document{
		ID:        uuid.NewString(),
		Kind:      kind,
		Number:    draftNumber(kind, now),
		CreatedAt: now,
	}
}

func draftNumber(kind Kind, now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s-%s-%s", numberPrefixes[kind], now.Format("20060102"), suffix)
}

// AddLine appends a line with freshly computed amounts and a new unique id.
// A non-positive quantity defaults to 1, matching single-unit service rows.
func (d *Document) AddLine(in LineInput) Line {
	qty := in.Qty
	if qty.Sign() <= 0 {
		qty = decimal.NewFromInt(1)
	}
	line := Line{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(in.Description),
		UnitPrice:   in.UnitPrice,
		Qty:         qty,
		Discount:    in.Discount,
		TaxCode:     in.TaxCode,
		TaxRef:      strings.TrimSpace(in.TaxRef),
		Amounts:     pricing.ComputeLine(in.UnitPrice, qty, in.Discount, in.TaxCode),
	}
	d.lines = append(d.lines, line)
	return line
}

// UpdateLine merges the patch into the line and recomputes its amounts.
// Position and id are preserved.
func (d *Document) UpdateLine(id string, patch LinePatch) (Line, error) {
	for i := range d.lines {
		if d.lines[i].ID != id {
			continue
		}
		line := &d.lines[i]
		if patch.Description != nil {
			line.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.UnitPrice != nil {
			line.UnitPrice = *patch.UnitPrice
		}
		if patch.Qty != nil {
			qty := *patch.Qty
			if qty.Sign() <= 0 {
				qty = decimal.NewFromInt(1)
			}
			line.Qty = qty
		}
		if patch.Discount != nil {
			line.Discount = *patch.Discount
		}
		if patch.TaxCode != nil {
			line.TaxCode = *patch.TaxCode
		}
		if patch.TaxRef != nil {
			line.TaxRef = strings.TrimSpace(*patch.TaxRef)
		}
		line.Amounts = pricing.ComputeLine(line.UnitPrice, line.Qty, line.Discount, line.TaxCode)
		return *line, nil
	}
	return Line{}, ErrLineNotFound
}

// RemoveLine deletes the line by id. Remaining lines keep their order.
func (d *Document) RemoveLine(id string) error {
	for i := range d.lines {
		if d.lines[i].ID == id {
			d.lines = append(d.lines[:i], d.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// Lines returns a copy of the current lines in insertion order.
func (d *Document) Lines() []Line {
	return append([]Line(nil), d.lines...)
}

// Len reports the number of lines on the document.
func (d *Document) Len() int {
	return len(d.lines)
}

// Totals folds the unrounded per-line values and rounds the result once.
// The fold is recomputed from the lines on every call, so the aggregates can
// never drift from the rows they summarise.
func (d *Document) Totals() Totals {
	var t Totals
	t.Quantity = decimal.Zero
	t.Discount = decimal.Zero
	t.Subtotal = decimal.Zero
	t.TaxAmount = decimal.Zero
	t.Total = decimal.Zero
	for _, line := range d.lines {
		t.Quantity = t.Quantity.Add(line.Qty)
		t.Discount = t.Discount.Add(line.Discount)
		t.Subtotal = t.Subtotal.Add(line.Amounts.Subtotal)
		t.TaxAmount = t.TaxAmount.Add(line.Amounts.TaxAmount)
		t.Total = t.Total.Add(line.Amounts.Total)
	}
	return Totals{
		Quantity:  t.Quantity.Round(2),
		Discount:  t.Discount.Round(2),
		Subtotal:  t.Subtotal.Round(2),
		TaxAmount: t.TaxAmount.Round(2),
		Total:     t.Total.Round(2),
	}
}
