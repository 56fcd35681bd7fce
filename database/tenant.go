package database

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// LocalsTx is the fiber.Ctx locals key under which TenantTx stores the request transaction.
const LocalsTx = "tx"

// GetTenantDB returns the per-request transaction opened by middlewares.TenantTx.
func GetTenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	if v := c.Locals(LocalsTx); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx, nil
		}
	}
	return nil, errors.New("request transaction missing")
}

// ForTenant scopes a query to one company's rows.
func ForTenant(companyID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("company_id = ?", companyID)
	}
}
