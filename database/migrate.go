package database

import (
	"fmt"

	"gst-billing-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/index tags)
// - stock CHECK constraints backing the ledger invariant
// - composite indexes for tenant-scoped reads
func Migrate(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.Company{},
			&models.User{},
			&models.Product{},
			&models.Customer{},
			&models.Document{},
			&models.DocumentItem{},
			&models.StockMovement{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_documents_company_number ON documents (company_id, kind, document_number)`,
			`CREATE INDEX IF NOT EXISTS idx_documents_pending_due ON documents (company_id, due_date) WHERE payment_completion_status = 'Pending'`,
			`CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements (product_id, created_at)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		checks := []struct{ table, name, expr string }{
			{"products", "chk_products_stock_nonneg", "stock_quantity >= 0"},
			{"products", "chk_products_price_nonneg", "price >= 0"},
			{"stock_movements", "chk_stock_movements_new_nonneg", "new_stock >= 0"},
			{"stock_movements", "chk_stock_movements_arithmetic",
				"(change_type = 'OUT' AND new_stock = old_stock - quantity_changed) OR " +
					"(change_type = 'IN' AND new_stock = old_stock + quantity_changed)"},
			{"stock_movements", "chk_stock_movements_qty_pos", "quantity_changed > 0"},
			{"document_items", "chk_document_items_qty_pos", "quantity > 0"},
			{"companies", "chk_companies_subscription", "subscription_type IN ('invoice', 'bill')"},
		}
		for _, c := range checks {
			stmt := fmt.Sprintf(`DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
	END IF;
END $$;`, c.table, c.name, c.table, c.name, c.expr)
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint %s failed: %w", c.name, err)
			}
		}

		return nil
	})
}
