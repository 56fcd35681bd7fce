package models

import "time"

// Customer is deduplicated within a company by GSTNumber. Consignee fields describe the
// ship-to party and are the only fields refreshed when an existing customer is reused.
type Customer struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	CompanyID string `json:"-" gorm:"type:varchar(36);not null;index:idx_customers_company_gst,priority:1"`
	Name      string `json:"name" gorm:"not null"`
	Mobile    string `json:"mobile"`
	Email     string `json:"email"`
	GSTNumber string `json:"gst_number" gorm:"column:gst_number;index:idx_customers_company_gst,priority:2"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Pincode   string `json:"pincode"`

	ConsigneeName      string `json:"consignee_name"`
	ConsigneeMobile    string `json:"consignee_mobile"`
	ConsigneeGSTNumber string `json:"consignee_gst_number" gorm:"column:consignee_gst_number"`
	ConsigneeAddress   string `json:"consignee_address"`
	ConsigneeCity      string `json:"consignee_city"`
	ConsigneeState     string `json:"consignee_state"`
	ConsigneePincode   string `json:"consignee_pincode"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
