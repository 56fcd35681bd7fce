package services

import (
	"errors"
	"fmt"

	"gst-billing-backend/database"
	"gst-billing-backend/models"

	"gorm.io/gorm"
)

// UpsertCustomer resolves the billed customer of a new document inside tx.
//
// A non-empty GST number that already exists for the company reuses that row and refreshes only
// its consignee fields; billing fields are left untouched. Anything else inserts a new row, so a
// customer without a GST number never matches an earlier one.
func UpsertCustomer(tx *gorm.DB, companyID string, in CustomerInput) (id uint, created bool, err error) {
	if in.GSTNumber != "" {
		var existing models.Customer
		err := tx.Scopes(database.ForTenant(companyID)).
			Where("gst_number = ?", in.GSTNumber).
			Order("id").
			First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]any{
				"consignee_name":       in.ConsigneeName,
				"consignee_mobile":     in.ConsigneeMobile,
				"consignee_gst_number": in.ConsigneeGSTNumber,
				"consignee_address":    in.ConsigneeAddress,
				"consignee_city":       in.ConsigneeCity,
				"consignee_state":      in.ConsigneeState,
				"consignee_pincode":    in.ConsigneePincode,
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return 0, false, fmt.Errorf("update consignee of customer %d: %w", existing.ID, err)
			}
			return existing.ID, false, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return 0, false, fmt.Errorf("lookup customer by gst number: %w", err)
		}
	}

	customer := models.Customer{
		CompanyID:          companyID,
		Name:               in.Name,
		Mobile:             in.Mobile,
		Email:              in.Email,
		GSTNumber:          in.GSTNumber,
		Address:            in.Address,
		City:               in.City,
		State:              in.State,
		Pincode:            in.Pincode,
		ConsigneeName:      in.ConsigneeName,
		ConsigneeMobile:    in.ConsigneeMobile,
		ConsigneeGSTNumber: in.ConsigneeGSTNumber,
		ConsigneeAddress:   in.ConsigneeAddress,
		ConsigneeCity:      in.ConsigneeCity,
		ConsigneeState:     in.ConsigneeState,
		ConsigneePincode:   in.ConsigneePincode,
	}
	if err := tx.Create(&customer).Error; err != nil {
		return 0, false, fmt.Errorf("insert customer: %w", err)
	}
	return customer.ID, true, nil
}

// ListCustomers returns a page of the company's customers, newest first.
func ListCustomers(db *gorm.DB, companyID string, limit, offset int) ([]models.Customer, error) {
	var customers []models.Customer
	err := db.Scopes(database.ForTenant(companyID)).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&customers).Error
	return customers, err
}

func GetCustomer(db *gorm.DB, companyID string, id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := db.Scopes(database.ForTenant(companyID)).First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("GetCustomer", fmt.Sprintf("customer %d not found", id))
		}
		return nil, err
	}
	return &customer, nil
}
