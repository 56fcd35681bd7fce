package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type updateDTO struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Status   *string          `json:"status" gorm:"type:varchar(16);column:payment_status"`
	Ignored  *string          `json:"-"`
	Untagged *string
	Plain    string `json:"plain"`
}

func TestUpdatesFromPtrDTO(t *testing.T) {
	name := "Widget"
	price := d("12.50")
	status := "Advance"
	ignored := "x"
	dto := updateDTO{Name: &name, Price: &price, Status: &status, Ignored: &ignored, Untagged: &ignored, Plain: "p"}

	got := UpdatesFromPtrDTO(&dto)

	assert.Equal(t, map[string]any{
		"name":           "Widget",
		"price":          price,
		"payment_status": "Advance",
	}, got)
	assert.Empty(t, UpdatesFromPtrDTO(updateDTO{}))
	assert.Empty(t, UpdatesFromPtrDTO(&updateDTO{}))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault(" 5 ", 1))
	assert.Equal(t, 1, ParseIntDefault("-3", 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1))
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		limit, offset      string
		wantLimit, wantOff int
	}{
		{"", "", 50, 0},
		{"10", "20", 10, 20},
		{"0", "", 200, 0},
		{"5000", "-1", 200, 0},
		{"x", "y", 50, 0},
	}
	for _, tt := range tests {
		limit, offset := ParsePage(tt.limit, tt.offset, 50, 200)
		assert.Equal(t, tt.wantLimit, limit, "limit %q", tt.limit)
		assert.Equal(t, tt.wantOff, offset, "offset %q", tt.offset)
	}
}
