package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product stock is only ever changed together with a StockMovement row.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CompanyID     string          `json:"-" gorm:"type:varchar(36);not null;index"`
	Name          string          `json:"name" gorm:"not null"`
	HSNCode       string          `json:"hsn_code" gorm:"column:hsn_code"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null;default:0"`
	GSTRate       decimal.Decimal `json:"gst_rate" gorm:"column:gst_rate;type:numeric(5,2);not null;default:0"`
	CGSTRate      decimal.Decimal `json:"cgst_rate" gorm:"column:cgst_rate;type:numeric(5,2);not null;default:0"`
	SGSTRate      decimal.Decimal `json:"sgst_rate" gorm:"column:sgst_rate;type:numeric(5,2);not null;default:0"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockMovement is an append-only ledger row. Rows are never updated or deleted.
type StockMovement struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CompanyID       string          `json:"-" gorm:"type:varchar(36);not null;index"`
	ProductID       uint            `json:"product_id" gorm:"not null;index"`
	Product         Product         `json:"-" gorm:"foreignKey:ProductID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	ChangeType      StockChangeType `json:"change_type" gorm:"type:varchar(8);not null"`
	QuantityChanged int             `json:"quantity_changed" gorm:"not null"`
	OldStock        int             `json:"old_stock" gorm:"not null"`
	NewStock        int             `json:"new_stock" gorm:"not null"`
	Reason          string          `json:"reason"`
	ReferenceID     *uint           `json:"reference_id" gorm:"index"`
	UpdatedBy       string          `json:"updated_by" gorm:"type:varchar(36)"`
	CreatedAt       time.Time       `json:"created_at"`
}
