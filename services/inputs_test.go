package services

import (
	"encoding/json"
	"testing"
	"time"

	"gst-billing-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func strPtr(s string) *string {
	return &s
}

func TestSummaryResolveDefaults(t *testing.T) {
	s, err := SummaryInput{}.resolve(dec("100"), dec("18"))
	require.NoError(t, err)

	assert.True(t, s.Subtotal.Equal(dec("100")))
	assert.True(t, s.GSTAmount.Equal(dec("18")))
	assert.True(t, s.CGSTAmount.Equal(dec("9")))
	assert.True(t, s.SGSTAmount.Equal(dec("9")))
	assert.True(t, s.TotalAmount.Equal(dec("118")))
	assert.True(t, s.Discount.IsZero())
	assert.Equal(t, "Cash", s.PaymentType)
	assert.Equal(t, models.PaymentFull, s.PaymentStatus)
	assert.Nil(t, s.DueDate)
}

func TestSummaryResolveExplicit(t *testing.T) {
	due := NewDate(day("2026-04-01"))
	s, err := SummaryInput{
		Discount:        decPtr("10"),
		TransportCharge: decPtr("5.005"),
		PaymentType:     strPtr("UPI"),
		PaymentStatus:   strPtr("Advance"),
		AdvanceAmount:   decPtr("50"),
		DueDate:         &due,
	}.resolve(dec("100"), dec("18"))
	require.NoError(t, err)

	assert.True(t, s.TransportCharge.Equal(dec("5.01")))
	assert.True(t, s.TotalAmount.Equal(dec("113.01")))
	assert.Equal(t, "UPI", s.PaymentType)
	assert.Equal(t, models.PaymentAdvance, s.PaymentStatus)
	require.NotNil(t, s.DueDate)
	assert.Equal(t, "2026-04-01", s.DueDate.Format(dateLayout))
}

func TestSummaryResolveRejects(t *testing.T) {
	due := NewDate(day("2026-04-01"))
	tests := []struct {
		name string
		in   SummaryInput
	}{
		{name: "advance without due date", in: SummaryInput{PaymentStatus: strPtr("Advance")}},
		{name: "advance above total", in: SummaryInput{PaymentStatus: strPtr("Advance"), AdvanceAmount: decPtr("500"), DueDate: &due}},
		{name: "negative discount", in: SummaryInput{Discount: decPtr("-1")}},
		{name: "negative total", in: SummaryInput{TotalAmount: decPtr("-0.01")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.resolve(dec("100"), dec("18"))
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestDateJSON(t *testing.T) {
	var v struct {
		A *Date `json:"a"`
		B Date  `json:"b"`
		C Date  `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"2026-03-10","b":"2026-03-10T23:30:00+05:30","c":""}`), &v))
	require.NotNil(t, v.A)
	assert.Equal(t, "2026-03-10", v.A.Format(dateLayout))
	assert.Equal(t, "2026-03-10", v.B.Format(dateLayout))
	assert.True(t, v.C.IsZero())
	assert.Nil(t, v.C.Ptr())

	var bad Date
	assert.Error(t, json.Unmarshal([]byte(`"10/03/2026"`), &bad))

	out, err := json.Marshal(NewDate(time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `"2026-01-02"`, string(out))

	val, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, val)
}

func validDocumentInput() *CreateDocumentInput {
	return &CreateDocumentInput{
		CompanyID:      "c1",
		UserID:         "u1",
		DocumentNumber: " INV-001 ",
		Customer: CustomerInput{
			Name:      "Asha Traders",
			Mobile:    "98765 43210",
			GSTNumber: "27aapfu0939f1zv",
			City:      "Pune",
		},
		Products: []ProductLineInput{{ProductID: 1, Quantity: 4, Rate: dec("250")}},
	}
}

func TestCreateDocumentInputPrepare(t *testing.T) {
	in := validDocumentInput()
	require.NoError(t, in.prepare("IN"))

	assert.Equal(t, "INV-001", in.DocumentNumber)
	assert.Equal(t, "u1", in.CreatedBy)
	assert.Equal(t, "27AAPFU0939F1ZV", in.Customer.GSTNumber)
	assert.Equal(t, "+919876543210", in.Customer.Mobile)
	assert.Equal(t, "Asha Traders", in.Customer.ConsigneeName)
	assert.Equal(t, "+919876543210", in.Customer.ConsigneeMobile)
	assert.Equal(t, "27AAPFU0939F1ZV", in.Customer.ConsigneeGSTNumber)
	assert.Equal(t, "Pune", in.Customer.ConsigneeCity)
}

func TestCreateDocumentInputPrepareKeepsConsignee(t *testing.T) {
	in := validDocumentInput()
	in.Customer.ConsigneeName = "Warehouse 2"
	in.CreatedBy = "clerk-7"
	require.NoError(t, in.prepare("IN"))

	assert.Equal(t, "Warehouse 2", in.Customer.ConsigneeName)
	assert.Equal(t, "clerk-7", in.CreatedBy)
}

func TestCreateDocumentInputPrepareRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateDocumentInput)
	}{
		{name: "missing number", mutate: func(in *CreateDocumentInput) { in.DocumentNumber = "  " }},
		{name: "no products", mutate: func(in *CreateDocumentInput) { in.Products = nil }},
		{name: "zero quantity", mutate: func(in *CreateDocumentInput) { in.Products[0].Quantity = 0 }},
		{name: "missing product id", mutate: func(in *CreateDocumentInput) { in.Products[0].ProductID = 0 }},
		{name: "negative rate", mutate: func(in *CreateDocumentInput) { in.Products[0].Rate = dec("-1") }},
		{name: "gst over 100", mutate: func(in *CreateDocumentInput) { in.Products[0].GSTPercentage = decPtr("101") }},
		{name: "bad gstin", mutate: func(in *CreateDocumentInput) { in.Customer.GSTNumber = "27AAPFU0939" }},
		{name: "bad mobile", mutate: func(in *CreateDocumentInput) { in.Customer.Mobile = "12" }},
		{name: "missing customer name", mutate: func(in *CreateDocumentInput) { in.Customer.Name = "" }},
		{name: "unknown payment status", mutate: func(in *CreateDocumentInput) { in.Summary.PaymentStatus = strPtr("Partial") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validDocumentInput()
			tt.mutate(in)
			assert.ErrorIs(t, in.prepare("IN"), ErrValidation)
		})
	}
}
