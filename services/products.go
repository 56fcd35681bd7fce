package services

import (
	"errors"
	"fmt"

	"gst-billing-backend/database"
	"gst-billing-backend/models"
	"gst-billing-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput creates one product. OpeningStock is recorded as an IN movement so the ledger
// always explains the current stock.
type ProductInput struct {
	Name         string           `json:"name" validate:"required,max=200"`
	HSNCode      string           `json:"hsn_code" validate:"max=16"`
	Price        decimal.Decimal  `json:"price"`
	GSTRate      decimal.Decimal  `json:"gst_rate"`
	CGSTRate     *decimal.Decimal `json:"cgst_rate"` // default: gst_rate / 2
	SGSTRate     *decimal.Decimal `json:"sgst_rate"` // default: gst_rate - cgst_rate
	OpeningStock int              `json:"stock_quantity" validate:"gte=0"`
}

// ProductUpdateInput changes catalogue fields. Stock is never updated here; use Restock.
type ProductUpdateInput struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	HSNCode  *string          `json:"hsn_code" validate:"omitempty,max=16"`
	Price    *decimal.Decimal `json:"price"`
	GSTRate  *decimal.Decimal `json:"gst_rate"`
	CGSTRate *decimal.Decimal `json:"cgst_rate"`
	SGSTRate *decimal.Decimal `json:"sgst_rate"`
}

var hundred = decimal.NewFromInt(100)

func checkRate(op, field string, v decimal.Decimal) error {
	if v.IsNegative() || v.GreaterThan(hundred) {
		return validationError(op, field+" must be between 0 and 100", nil)
	}
	return nil
}

// CreateProducts inserts the batch inside tx. Any invalid entry rejects the whole batch.
func CreateProducts(tx *gorm.DB, companyID, userID string, in []ProductInput) ([]models.Product, error) {
	const op = "CreateProducts"
	if len(in) == 0 {
		return nil, validationError(op, "at least one product is required", nil)
	}

	products := make([]models.Product, 0, len(in))
	for i := range in {
		p := &in[i]
		utils.NormalizeDTO(p)
		if err := utils.ValidateStruct(p); err != nil {
			return nil, validationError(op, fmt.Sprintf("invalid product at index %d", i), err)
		}
		if p.Price.IsNegative() {
			return nil, validationError(op, fmt.Sprintf("products[%d].price must not be negative", i), nil)
		}
		if err := checkRate(op, fmt.Sprintf("products[%d].gst_rate", i), p.GSTRate); err != nil {
			return nil, err
		}

		cgst, sgst := utils.SplitGST(p.GSTRate)
		if p.CGSTRate != nil {
			cgst = utils.Round2(*p.CGSTRate)
		}
		if p.SGSTRate != nil {
			sgst = utils.Round2(*p.SGSTRate)
		}

		product := models.Product{
			CompanyID: companyID,
			Name:      p.Name,
			HSNCode:   p.HSNCode,
			Price:     p.Price,
			GSTRate:   p.GSTRate,
			CGSTRate:  cgst,
			SGSTRate:  sgst,
		}
		if err := tx.Create(&product).Error; err != nil {
			return nil, fmt.Errorf("insert product %q: %w", p.Name, err)
		}

		if p.OpeningStock > 0 {
			if _, err := applyMovement(tx, &product, movement{
				changeType: models.StockIn,
				quantity:   p.OpeningStock,
				reason:     "Opening stock",
				updatedBy:  userID,
			}); err != nil {
				return nil, err
			}
		}
		products = append(products, product)
	}
	return products, nil
}

// UpdateProduct applies only the fields present in the payload.
func UpdateProduct(tx *gorm.DB, companyID string, id uint, in *ProductUpdateInput) (*models.Product, error) {
	const op = "UpdateProduct"
	utils.NormalizePtrDTO(in)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, validationError(op, "invalid product payload", err)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, validationError(op, "price must not be negative", nil)
	}
	for field, v := range map[string]*decimal.Decimal{"gst_rate": in.GSTRate, "cgst_rate": in.CGSTRate, "sgst_rate": in.SGSTRate} {
		if v == nil {
			continue
		}
		if err := checkRate(op, field, *v); err != nil {
			return nil, err
		}
	}

	var product models.Product
	if err := tx.Scopes(database.ForTenant(companyID)).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError(op, fmt.Sprintf("product %d not found", id))
		}
		return nil, err
	}

	updates := utils.UpdatesFromPtrDTO(in)
	if len(updates) == 0 {
		return &product, nil
	}
	if err := tx.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}
	if err := tx.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func ListProducts(db *gorm.DB, companyID string, limit, offset int) ([]models.Product, error) {
	var products []models.Product
	err := db.Scopes(database.ForTenant(companyID)).
		Order("name").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	return products, err
}
