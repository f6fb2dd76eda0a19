package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fixly-labs/backend-fixly/internal/tax"
)

func TestRateMappingIsTotal(t *testing.T) {
	expected := map[tax.Code]int64{
		tax.CodeNone:   0,
		tax.CodeGST5:   5,
		tax.CodeGST18:  18,
		tax.CodeIGST18: 18,
	}
	codes := tax.Codes()
	require.Len(t, codes, len(expected))
	for _, code := range codes {
		rate := tax.Rate(code)
		require.True(t, rate.Equal(decimal.NewFromInt(expected[code])), "rate for %s", code)
		require.True(t, rate.GreaterThanOrEqual(decimal.Zero))
		require.True(t, rate.LessThanOrEqual(decimal.NewFromInt(100)))
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want tax.Code
	}{
		{"gst18", tax.CodeGST18},
		{" GST5 ", tax.CodeGST5},
		{"igst18", tax.CodeIGST18},
		{"none", tax.CodeNone},
		{"", tax.CodeNone},
		{"vat20", tax.CodeNone},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, tax.Parse(tc.in), "input %q", tc.in)
	}
}

func TestUnknownCodeCarriesNoTax(t *testing.T) {
	require.False(t, tax.Valid(tax.Code("gst28")))
	require.True(t, tax.Rate(tax.Code("gst28")).IsZero())
}
