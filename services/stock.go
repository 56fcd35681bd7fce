package services

import (
	"errors"
	"fmt"

	"gst-billing-backend/database"
	"gst-billing-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockProduct reads a product row with SELECT ... FOR UPDATE. The lock is held until tx ends,
// which serializes every stock change against the same product.
func lockProduct(tx *gorm.DB, companyID string, productID uint) (*models.Product, error) {
	var product models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(database.ForTenant(companyID)).
		First(&product, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundError("LockProduct", fmt.Sprintf("product %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("lock product %d: %w", productID, err)
	}
	return &product, nil
}

// movement describes one signed change to a locked product's stock.
type movement struct {
	changeType  models.StockChangeType
	quantity    int
	reason      string
	referenceID *uint
	updatedBy   string
}

// applyMovement updates the locked product's stock and appends the matching ledger row.
// An OUT movement that would leave stock below zero returns *InsufficientStockError and writes
// nothing.
func applyMovement(tx *gorm.DB, product *models.Product, m movement) (*models.StockMovement, error) {
	if m.quantity <= 0 {
		return nil, validationError("ApplyMovement", "quantity must be positive", nil)
	}

	oldStock := product.StockQuantity
	newStock := oldStock + m.quantity
	if m.changeType == models.StockOut {
		newStock = oldStock - m.quantity
	}
	if newStock < 0 {
		return nil, &InsufficientStockError{ProductID: product.ID, Available: oldStock, Requested: m.quantity}
	}

	if err := tx.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("stock_quantity", newStock).Error; err != nil {
		return nil, fmt.Errorf("update stock of product %d: %w", product.ID, err)
	}
	product.StockQuantity = newStock

	row := models.StockMovement{
		CompanyID:       product.CompanyID,
		ProductID:       product.ID,
		ChangeType:      m.changeType,
		QuantityChanged: m.quantity,
		OldStock:        oldStock,
		NewStock:        newStock,
		Reason:          m.reason,
		ReferenceID:     m.referenceID,
		UpdatedBy:       m.updatedBy,
	}
	if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("append stock movement for product %d: %w", product.ID, err)
	}
	return &row, nil
}

// Restock adds qty units to a product under its row lock and records an IN movement.
func Restock(tx *gorm.DB, companyID string, productID uint, qty int, reason, userID string) (*models.StockMovement, error) {
	if qty <= 0 {
		return nil, validationError("Restock", "quantity must be greater than zero", nil)
	}
	product, err := lockProduct(tx, companyID, productID)
	if err != nil {
		return nil, err
	}
	if reason == "" {
		reason = "Stock added"
	}
	return applyMovement(tx, product, movement{
		changeType: models.StockIn,
		quantity:   qty,
		reason:     reason,
		updatedBy:  userID,
	})
}

// ListMovements returns a product's ledger, newest first.
func ListMovements(db *gorm.DB, companyID string, productID uint, limit, offset int) ([]models.StockMovement, error) {
	var rows []models.StockMovement
	err := db.Scopes(database.ForTenant(companyID)).
		Where("product_id = ?", productID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}
