package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BillingDetails is the letterhead/bank block printed on every rendered document.
type BillingDetails struct {
	BankName      string   `json:"bank_name,omitempty"`
	AccountName   string   `json:"account_name,omitempty"`
	AccountNumber string   `json:"account_number,omitempty"`
	IFSC          string   `json:"ifsc,omitempty"`
	UPIID         string   `json:"upi_id,omitempty"`
	Terms         []string `json:"terms,omitempty"`
}

// Company is a tenant. All tenant data is keyed by Company.Id.
type Company struct {
	Id               string                             `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CompanyName      string                             `json:"company_name" gorm:"not null;unique"`
	Address          string                             `json:"address"`
	City             string                             `json:"city"`
	State            string                             `json:"state"`
	Pincode          string                             `json:"pincode"`
	Email            string                             `json:"email"`
	Mobile           string                             `json:"mobile"`
	GSTNumber        string                             `json:"gst_number" gorm:"column:gst_number"`
	SubscriptionType SubscriptionType                   `json:"subscription_type" gorm:"type:varchar(16);not null"`
	BillingDetails   datatypes.JSONType[BillingDetails] `json:"billing_details" gorm:"type:jsonb"`
	CreatedAt        time.Time                          `json:"created_at"`
	UpdatedAt        time.Time                          `json:"updated_at"`
}

func (company *Company) BeforeCreate(tx *gorm.DB) (err error) {
	if company.Id == "" {
		company.Id = uuid.NewString()
	}
	return
}
