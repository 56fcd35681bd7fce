package services

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gst-billing-backend/models"
	"gst-billing-backend/utils"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Date is a calendar date. It accepts "2006-01-02" or RFC3339 in JSON; "" and null decode to
// the zero Date.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: dateOnly(t)}
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	d.Time = dateOnly(t)
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// Value stores the date as a SQL date literal.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(dateLayout), nil
}

// Ptr returns nil for the zero Date.
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// dateOnly drops the clock, keeping the calendar date as seen in t's own location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CustomerInput is the billed party of a document. Blank consignee (ship-to) fields default to
// the matching billing field.
type CustomerInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	Mobile    string `json:"mobile" validate:"max=20"`
	Email     string `json:"email" validate:"omitempty,email"`
	GSTNumber string `json:"gst_number" validate:"omitempty,gstin"`
	Address   string `json:"address" validate:"max=500"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	Pincode   string `json:"pincode" validate:"omitempty,numeric,len=6"`

	ConsigneeName      string `json:"consignee_name" validate:"max=200"`
	ConsigneeMobile    string `json:"consignee_mobile" validate:"max=20"`
	ConsigneeGSTNumber string `json:"consignee_gst_number" validate:"omitempty,gstin"`
	ConsigneeAddress   string `json:"consignee_address" validate:"max=500"`
	ConsigneeCity      string `json:"consignee_city" validate:"max=100"`
	ConsigneeState     string `json:"consignee_state" validate:"max=100"`
	ConsigneePincode   string `json:"consignee_pincode" validate:"omitempty,numeric,len=6"`
}

func (in *CustomerInput) prepare(region string) error {
	const op = "PrepareCustomer"
	utils.NormalizeDTO(in)
	in.GSTNumber = strings.ToUpper(in.GSTNumber)
	in.ConsigneeGSTNumber = strings.ToUpper(in.ConsigneeGSTNumber)

	var err error
	if in.Mobile, err = utils.NormalizePhone(in.Mobile, region); err != nil {
		return validationError(op, "customer mobile is not a valid phone number", err)
	}
	if in.ConsigneeMobile, err = utils.NormalizePhone(in.ConsigneeMobile, region); err != nil {
		return validationError(op, "consignee mobile is not a valid phone number", err)
	}

	defaultTo(&in.ConsigneeName, in.Name)
	defaultTo(&in.ConsigneeMobile, in.Mobile)
	defaultTo(&in.ConsigneeGSTNumber, in.GSTNumber)
	defaultTo(&in.ConsigneeAddress, in.Address)
	defaultTo(&in.ConsigneeCity, in.City)
	defaultTo(&in.ConsigneeState, in.State)
	defaultTo(&in.ConsigneePincode, in.Pincode)
	return nil
}

func defaultTo(field *string, def string) {
	if *field == "" {
		*field = def
	}
}

// ProductLineInput is one submitted line. Amount fields are optional; missing ones are
// computed from quantity, rate and GST percentage.
type ProductLineInput struct {
	ProductID     uint             `json:"product_id" validate:"required"`
	Description   string           `json:"description" validate:"max=500"`
	Quantity      int              `json:"quantity" validate:"required,gt=0"`
	Rate          decimal.Decimal  `json:"rate"`
	GSTPercentage *decimal.Decimal `json:"gst_percentage"` // default: the product's gst_rate
	BaseAmount    *decimal.Decimal `json:"base_amount"`    // default: quantity * rate
	GSTAmount     *decimal.Decimal `json:"gst_amount"`     // default: base * gst_percentage / 100
	TotalAmount   *decimal.Decimal `json:"total_amount"`   // default: base + gst
}

// SummaryInput carries the document totals and payment terms. Every pointer field is optional
// and documents its default; resolve applies them.
type SummaryInput struct {
	Subtotal        *decimal.Decimal `json:"subtotal"`                                                         // default: sum of line base amounts
	GSTAmount       *decimal.Decimal `json:"gst_amount"`                                                       // default: sum of line GST amounts
	CGSTAmount      *decimal.Decimal `json:"cgst_amount"`                                                      // default: half of gst_amount
	SGSTAmount      *decimal.Decimal `json:"sgst_amount"`                                                      // default: gst_amount - cgst_amount
	Discount        *decimal.Decimal `json:"discount"`                                                         // default: 0
	TransportCharge *decimal.Decimal `json:"transport_charge"`                                                 // default: 0
	TotalAmount     *decimal.Decimal `json:"total_amount"`                                                     // default: subtotal + gst - discount + transport
	PaymentType     *string          `json:"payment_type" validate:"omitempty,max=32"`                         // default: "Cash"
	PaymentStatus   *string          `json:"payment_status" validate:"omitempty,oneof='Full Payment' Advance"` // default: "Full Payment"
	AdvanceAmount   *decimal.Decimal `json:"advance_amount"`                                                   // default: 0
	DueDate         *Date            `json:"due_date"`                                                         // required for Advance
}

// summary is SummaryInput with every default applied.
type summary struct {
	Subtotal        decimal.Decimal
	GSTAmount       decimal.Decimal
	CGSTAmount      decimal.Decimal
	SGSTAmount      decimal.Decimal
	Discount        decimal.Decimal
	TransportCharge decimal.Decimal
	TotalAmount     decimal.Decimal
	PaymentType     string
	PaymentStatus   models.PaymentStatus
	AdvanceAmount   decimal.Decimal
	DueDate         *time.Time
}

const defaultPaymentType = "Cash"

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return utils.Round2(*v)
}

// resolve applies the defaults given the already computed line totals.
func (in SummaryInput) resolve(lineBase, lineGST decimal.Decimal) (summary, error) {
	const op = "ResolveSummary"
	s := summary{
		Subtotal:        orDefault(in.Subtotal, lineBase),
		GSTAmount:       orDefault(in.GSTAmount, lineGST),
		Discount:        orDefault(in.Discount, decimal.Zero),
		TransportCharge: orDefault(in.TransportCharge, decimal.Zero),
		AdvanceAmount:   orDefault(in.AdvanceAmount, decimal.Zero),
		PaymentType:     defaultPaymentType,
		PaymentStatus:   models.PaymentFull,
	}

	cgst, sgst := utils.SplitGST(s.GSTAmount)
	s.CGSTAmount = orDefault(in.CGSTAmount, cgst)
	s.SGSTAmount = orDefault(in.SGSTAmount, sgst)
	s.TotalAmount = orDefault(in.TotalAmount,
		s.Subtotal.Add(s.GSTAmount).Sub(s.Discount).Add(s.TransportCharge))

	if in.PaymentType != nil && *in.PaymentType != "" {
		s.PaymentType = *in.PaymentType
	}
	if in.PaymentStatus != nil && *in.PaymentStatus != "" {
		s.PaymentStatus = models.PaymentStatus(*in.PaymentStatus)
	}
	if in.DueDate != nil {
		s.DueDate = in.DueDate.Ptr()
	}

	for name, v := range map[string]decimal.Decimal{
		"subtotal": s.Subtotal, "gst_amount": s.GSTAmount, "cgst_amount": s.CGSTAmount,
		"sgst_amount": s.SGSTAmount, "discount": s.Discount, "transport_charge": s.TransportCharge,
		"total_amount": s.TotalAmount, "advance_amount": s.AdvanceAmount,
	} {
		if v.IsNegative() {
			return summary{}, validationError(op, fmt.Sprintf("summaryData.%s must not be negative", name), nil)
		}
	}

	if s.PaymentStatus == models.PaymentAdvance {
		if s.DueDate == nil {
			return summary{}, validationError(op, "summaryData.due_date is required for Advance payments", nil)
		}
		if s.AdvanceAmount.GreaterThan(s.TotalAmount) {
			return summary{}, validationError(op, "summaryData.advance_amount exceeds total_amount", nil)
		}
	}
	return s, nil
}

// CreateDocumentInput is the payload of the invoice/bill creation endpoints. CompanyID and
// UserID come from the verified bearer token, never from the body.
type CreateDocumentInput struct {
	CompanyID      string             `json:"-"`
	UserID         string             `json:"-"`
	DocumentNumber string             `json:"document_number" validate:"required,max=64"`
	DocumentDate   *Date              `json:"document_date"` // default: today
	Customer       CustomerInput      `json:"customer"`
	Products       []ProductLineInput `json:"products" validate:"required,min=1,dive"`
	Summary        SummaryInput       `json:"summaryData"`
	CreatedBy      string             `json:"created_by" validate:"max=36"` // default: UserID
}

// prepare normalizes and validates everything that can be checked without the database.
func (in *CreateDocumentInput) prepare(region string) error {
	const op = "PrepareDocument"
	in.DocumentNumber = strings.TrimSpace(in.DocumentNumber)
	in.CreatedBy = strings.TrimSpace(in.CreatedBy)
	if in.CreatedBy == "" {
		in.CreatedBy = in.UserID
	}

	if err := in.Customer.prepare(region); err != nil {
		return err
	}
	if err := utils.ValidateStruct(in); err != nil {
		return validationError(op, "invalid document payload", err)
	}

	for i := range in.Products {
		line := &in.Products[i]
		line.Description = strings.TrimSpace(line.Description)
		line.Rate = utils.Round2(line.Rate)
		if line.Rate.IsNegative() {
			return validationError(op, fmt.Sprintf("products[%d].rate must not be negative", i), nil)
		}
		if p := line.GSTPercentage; p != nil && (p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100))) {
			return validationError(op, fmt.Sprintf("products[%d].gst_percentage must be between 0 and 100", i), nil)
		}
	}
	return nil
}

// PaymentUpdateInput holds the payment fields that may change after a document is created.
type PaymentUpdateInput struct {
	AdvanceAmount           *decimal.Decimal `json:"advance_amount"`
	DueDate                 *Date            `json:"due_date"`
	PaymentStatus           *string          `json:"payment_status" validate:"omitempty,oneof='Full Payment' Advance"`
	PaymentCompletionStatus *string          `json:"payment_completion_status" validate:"omitempty,oneof=Pending Completed"`
	PaymentSettlementDate   *Date            `json:"payment_settlement_date"`
}
