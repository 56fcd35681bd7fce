package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLineAmounts(t *testing.T) {
	tests := []struct {
		name              string
		qty               int
		rate, pct         string
		wantBase, wantGST string
		wantTotal         string
	}{
		{"18 percent", 4, "250", "18", "1000", "180", "1180"},
		{"zero rated", 3, "99.99", "0", "299.97", "0", "299.97"},
		{"rounding", 3, "33.33", "5", "99.99", "5", "104.99"},
		{"fractional rate", 1, "10.10", "12", "10.1", "1.21", "11.31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, gst, total := LineAmounts(tt.qty, d(tt.rate), d(tt.pct))
			assert.True(t, base.Equal(d(tt.wantBase)), "base %s", base)
			assert.True(t, gst.Equal(d(tt.wantGST)), "gst %s", gst)
			assert.True(t, total.Equal(d(tt.wantTotal)), "total %s", total)
		})
	}
}

func TestSplitGST(t *testing.T) {
	cgst, sgst := SplitGST(d("180"))
	assert.True(t, cgst.Equal(d("90")))
	assert.True(t, sgst.Equal(d("90")))

	cgst, sgst = SplitGST(d("0.05"))
	assert.True(t, cgst.Add(sgst).Equal(d("0.05")))
	assert.True(t, cgst.Equal(d("0.03")))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "10.13", Round2(d("10.125")).String())
	assert.Equal(t, "-1.01", Round2(d("-1.005")).String())
}
