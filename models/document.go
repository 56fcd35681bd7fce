package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is the header of an invoice or a bill.
type Document struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	CompanyID      string         `json:"-" gorm:"type:varchar(36);not null;index:idx_documents_company_kind,priority:1"`
	Kind           DocumentKind   `json:"kind" gorm:"type:varchar(16);not null;index:idx_documents_company_kind,priority:2"`
	DocumentNumber string         `json:"document_number" gorm:"not null;index"`
	DocumentDate   time.Time      `json:"document_date" gorm:"type:date;not null"`
	CustomerID     uint           `json:"customer_id" gorm:"not null;index"`
	Customer       Customer       `json:"customer" gorm:"foreignKey:CustomerID"`
	Items          []DocumentItem `json:"items" gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`

	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	GSTAmount       decimal.Decimal `json:"gst_amount" gorm:"column:gst_amount;type:numeric(12,2);not null"`
	CGSTAmount      decimal.Decimal `json:"cgst_amount" gorm:"column:cgst_amount;type:numeric(12,2);not null"`
	SGSTAmount      decimal.Decimal `json:"sgst_amount" gorm:"column:sgst_amount;type:numeric(12,2);not null"`
	Discount        decimal.Decimal `json:"discount" gorm:"type:numeric(12,2);not null"`
	TransportCharge decimal.Decimal `json:"transport_charge" gorm:"type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`

	PaymentType             string           `json:"payment_type"`
	PaymentStatus           PaymentStatus    `json:"payment_status" gorm:"type:varchar(16);not null"`
	AdvanceAmount           decimal.Decimal  `json:"advance_amount" gorm:"type:numeric(12,2);not null"`
	DueDate                 *time.Time       `json:"due_date" gorm:"type:date"`
	PaymentCompletionStatus CompletionStatus `json:"payment_completion_status" gorm:"type:varchar(16);not null"`
	PaymentSettlementDate   *time.Time       `json:"payment_settlement_date" gorm:"type:date"`

	CreatedBy string    `json:"created_by" gorm:"type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentItem is written once with its header and never updated.
type DocumentItem struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CompanyID     string          `json:"-" gorm:"type:varchar(36);not null"`
	DocumentID    uint            `json:"document_id" gorm:"not null;index"`
	ProductID     uint            `json:"product_id" gorm:"not null;index"`
	Product       Product         `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	Rate          decimal.Decimal `json:"rate" gorm:"type:numeric(12,2);not null"`
	GSTPercentage decimal.Decimal `json:"gst_percentage" gorm:"column:gst_percentage;type:numeric(5,2);not null"`
	BaseAmount    decimal.Decimal `json:"base_amount" gorm:"type:numeric(12,2);not null"`
	GSTAmount     decimal.Decimal `json:"gst_amount" gorm:"column:gst_amount;type:numeric(12,2);not null"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
}
