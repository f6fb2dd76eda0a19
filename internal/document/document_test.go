package document_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fixly-labs/backend-fixly/internal/document"
	"github.com/fixly-labs/backend-fixly/internal/tax"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseKind(t *testing.T) {
	for _, kind := range []string{"quotation", "purchase", "sale", "expense"} {
		parsed, err := document.ParseKind(" " + kind + " ")
		require.NoError(t, err)
		require.Equal(t, document.Kind(kind), parsed)
	}
	_, err := document.ParseKind("invoice")
	require.ErrorIs(t, err, document.ErrUnknownKind)
}

func TestTotalsMatchSumOfLines(t *testing.T) {
	doc := document.New(document.KindQuotation)
	first := doc.AddLine(document.LineInput{
		Description: "Screen replacement",
		UnitPrice:   dec("100"),
		Qty:         dec("2"),
		Discount:    dec("20"),
		TaxCode:     tax.CodeGST18,
		TaxRef:      "8517",
	})
	second := doc.AddLine(document.LineInput{
		Description: "Diagnostics",
		UnitPrice:   dec("50"),
		Qty:         dec("1"),
		Discount:    dec("0"),
		TaxCode:     tax.CodeGST5,
	})

	require.True(t, first.Amounts.Total.Round(2).Equal(dec("212.40")))
	require.True(t, second.Amounts.Total.Round(2).Equal(dec("52.50")))

	totals := doc.Totals()
	require.True(t, totals.Total.Equal(dec("264.90")), "got %s", totals.Total)
	require.True(t, totals.Quantity.Equal(dec("3")))
	require.True(t, totals.Discount.Equal(dec("20.00")))
	require.True(t, totals.Subtotal.Equal(dec("230.00")))
	require.True(t, totals.TaxAmount.Equal(dec("34.90")))
}

func TestTotalsNeverDriftFromLines(t *testing.T) {
	doc := document.New(document.KindSale)
	var ids []string
	inputs := []document.LineInput{
		{Description: "Battery", UnitPrice: dec("899.50"), Qty: dec("1"), TaxCode: tax.CodeGST18, TaxRef: "8507"},
		{Description: "Labour", UnitPrice: dec("250"), Qty: dec("1"), TaxCode: tax.CodeGST18},
		{Description: "Adhesive strips", UnitPrice: dec("49.99"), Qty: dec("3"), Discount: dec("10"), TaxCode: tax.CodeGST5},
		{Description: "Courier", UnitPrice: dec("120"), Qty: dec("1"), TaxCode: tax.CodeNone},
	}
	for _, in := range inputs {
		ids = append(ids, doc.AddLine(in).ID)
	}
	checkFold := func() {
		t.Helper()
		sum := decimal.Zero
		for _, line := range doc.Lines() {
			sum = sum.Add(line.Amounts.Total)
		}
		require.True(t, doc.Totals().Total.Equal(sum.Round(2)))
	}
	checkFold()

	price := dec("799")
	_, err := doc.UpdateLine(ids[0], document.LinePatch{UnitPrice: &price})
	require.NoError(t, err)
	checkFold()

	require.NoError(t, doc.RemoveLine(ids[1]))
	checkFold()

	discount := dec("5000")
	_, err = doc.UpdateLine(ids[2], document.LinePatch{Discount: &discount})
	require.NoError(t, err)
	checkFold()

	code := tax.CodeIGST18
	_, err = doc.UpdateLine(ids[3], document.LinePatch{TaxCode: &code})
	require.NoError(t, err)
	checkFold()
}

func TestUpdateLinePreservesOrderAndID(t *testing.T) {
	doc := document.New(document.KindPurchase)
	a := doc.AddLine(document.LineInput{Description: "A", UnitPrice: dec("10"), Qty: dec("1")})
	b := doc.AddLine(document.LineInput{Description: "B", UnitPrice: dec("20"), Qty: dec("1")})
	c := doc.AddLine(document.LineInput{Description: "C", UnitPrice: dec("30"), Qty: dec("1")})

	qty := dec("4")
	updated, err := doc.UpdateLine(b.ID, document.LinePatch{Qty: &qty})
	require.NoError(t, err)
	require.Equal(t, b.ID, updated.ID)

	lines := doc.Lines()
	require.Equal(t, []string{a.ID, b.ID, c.ID}, []string{lines[0].ID, lines[1].ID, lines[2].ID})
	require.True(t, lines[1].Amounts.Total.Equal(dec("80")))
}

func TestRemoveLineKeepsRemainingOrder(t *testing.T) {
	doc := document.New(document.KindExpense)
	a := doc.AddLine(document.LineInput{Description: "A", UnitPrice: dec("10"), Qty: dec("1")})
	b := doc.AddLine(document.LineInput{Description: "B", UnitPrice: dec("20"), Qty: dec("1")})
	c := doc.AddLine(document.LineInput{Description: "C", UnitPrice: dec("30"), Qty: dec("1")})

	require.NoError(t, doc.RemoveLine(b.ID))
	lines := doc.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, a.ID, lines[0].ID)
	require.Equal(t, c.ID, lines[1].ID)

	require.ErrorIs(t, doc.RemoveLine(b.ID), document.ErrLineNotFound)
	_, err := doc.UpdateLine(b.ID, document.LinePatch{})
	require.ErrorIs(t, err, document.ErrLineNotFound)
}

func TestQuantityDefaultsToOne(t *testing.T) {
	doc := document.New(document.KindQuotation)
	line := doc.AddLine(document.LineInput{Description: "Service", UnitPrice: dec("500"), TaxCode: tax.CodeGST18})
	require.True(t, line.Qty.Equal(dec("1")))
	require.True(t, line.Amounts.Total.Round(2).Equal(dec("590.00")))
}

func TestOversizedDiscountPropagates(t *testing.T) {
	doc := document.New(document.KindQuotation)
	doc.AddLine(document.LineInput{Description: "Part", UnitPrice: dec("100"), Qty: dec("1"), Discount: dec("150")})
	totals := doc.Totals()
	require.True(t, totals.Subtotal.Equal(dec("-50.00")), "got %s", totals.Subtotal)
	require.True(t, totals.Total.Equal(dec("-50.00")))
}

func TestDocumentsDoNotShareLineState(t *testing.T) {
	quote := document.New(document.KindQuotation)
	sale := document.New(document.KindSale)
	qLine := quote.AddLine(document.LineInput{Description: "X", UnitPrice: dec("10"), Qty: dec("1")})
	sLine := sale.AddLine(document.LineInput{Description: "X", UnitPrice: dec("10"), Qty: dec("1")})
	require.NotEqual(t, qLine.ID, sLine.ID)

	price := dec("99")
	_, err := quote.UpdateLine(qLine.ID, document.LinePatch{UnitPrice: &price})
	require.NoError(t, err)
	require.True(t, sale.Lines()[0].UnitPrice.Equal(dec("10")))
}

func TestLinesReturnsCopy(t *testing.T) {
	doc := document.New(document.KindSale)
	doc.AddLine(document.LineInput{Description: "A", UnitPrice: dec("10"), Qty: dec("1")})
	lines := doc.Lines()
	lines[0].Description = "mutated"
	require.Equal(t, "A", doc.Lines()[0].Description)
}
