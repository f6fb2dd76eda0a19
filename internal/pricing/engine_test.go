package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fixly-labs/backend-fixly/internal/pricing"
	"github.com/fixly-labs/backend-fixly/internal/tax"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLine(t *testing.T) {
	cases := []struct {
		name      string
		unitPrice string
		qty       string
		discount  string
		code      tax.Code
		subtotal  string
		taxAmount string
		total     string
	}{
		{"gst18 with discount", "100", "2", "20", tax.CodeGST18, "180.00", "32.40", "212.40"},
		{"gst5 single unit", "50", "1", "0", tax.CodeGST5, "50.00", "2.50", "52.50"},
		{"no tax", "99.99", "3", "0", tax.CodeNone, "299.97", "0.00", "299.97"},
		{"igst18", "1000", "1", "100", tax.CodeIGST18, "900.00", "162.00", "1062.00"},
		{"oversized discount propagates negative", "100", "1", "150", tax.CodeNone, "-50.00", "0.00", "-50.00"},
		{"zero price", "0", "5", "0", tax.CodeGST18, "0.00", "0.00", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.ComputeLine(dec(tc.unitPrice), dec(tc.qty), dec(tc.discount), tc.code).Rounded()
			require.True(t, got.Subtotal.Equal(dec(tc.subtotal)), "subtotal got %s", got.Subtotal)
			require.True(t, got.TaxAmount.Equal(dec(tc.taxAmount)), "tax got %s", got.TaxAmount)
			require.True(t, got.Total.Equal(dec(tc.total)), "total got %s", got.Total)
		})
	}
}

func TestComputeLineInvariants(t *testing.T) {
	prices := []string{"0", "0.01", "49.99", "100", "12345.67"}
	qtys := []string{"1", "2", "10", "0.5"}
	discounts := []string{"0", "5", "49.99"}
	for _, p := range prices {
		for _, q := range qtys {
			for _, d := range discounts {
				for _, code := range tax.Codes() {
					got := pricing.ComputeLine(dec(p), dec(q), dec(d), code)
					require.True(t, got.Total.Equal(got.Subtotal.Add(got.TaxAmount)),
						"total != subtotal + tax for p=%s q=%s d=%s code=%s", p, q, d, code)
					expectedTax := got.Subtotal.Mul(tax.Rate(code)).Div(decimal.NewFromInt(100))
					require.True(t, got.TaxAmount.Sub(expectedTax).Abs().LessThan(dec("0.01")))
				}
			}
		}
	}
}

func TestComputeLineIsIdempotent(t *testing.T) {
	first := pricing.ComputeLine(dec("100"), dec("2"), dec("20"), tax.CodeGST18)
	second := pricing.ComputeLine(dec("100"), dec("2"), dec("20"), tax.CodeGST18)
	require.True(t, first.Subtotal.Equal(second.Subtotal))
	require.True(t, first.TaxAmount.Equal(second.TaxAmount))
	require.True(t, first.Total.Equal(second.Total))
}

func TestComputeServiceLine(t *testing.T) {
	got := pricing.ComputeServiceLine(dec("500"), dec("0"), tax.CodeGST18).Rounded()
	require.True(t, got.Total.Equal(dec("590.00")))
}

func TestParseAmount(t *testing.T) {
	require.True(t, pricing.ParseAmount("12.50").Equal(dec("12.50")))
	require.True(t, pricing.ParseAmount("").IsZero())
	require.True(t, pricing.ParseAmount("abc").IsZero())
	require.True(t, pricing.ParseAmount("  7 ").Equal(dec("7")))
}

func TestParseQuantity(t *testing.T) {
	require.True(t, pricing.ParseQuantity("3").Equal(dec("3")))
	require.True(t, pricing.ParseQuantity("").Equal(dec("1")))
	require.True(t, pricing.ParseQuantity("-2").Equal(dec("1")))
	require.True(t, pricing.ParseQuantity("oops").Equal(dec("1")))
}
