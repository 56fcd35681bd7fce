package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds d to 2 decimal places (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmounts computes the taxable base, the GST portion and the tax-inclusive total of a
// single line: base = qty * rate, gst = base * pct / 100.
func LineAmounts(qty int, rate, gstPct decimal.Decimal) (base, gst, total decimal.Decimal) {
	base = Round2(rate.Mul(decimal.NewFromInt(int64(qty))))
	gst = Round2(base.Mul(gstPct).Div(hundred))
	total = base.Add(gst)
	return base, gst, total
}

// SplitGST divides an intra-state GST amount into its central and state halves.
// Any odd paisa goes to CGST; the halves always add back up to gst.
func SplitGST(gst decimal.Decimal) (cgst, sgst decimal.Decimal) {
	cgst = Round2(gst.Div(decimal.NewFromInt(2)))
	sgst = gst.Sub(cgst)
	return cgst, sgst
}
