package middlewares

import (
	"gst-billing-backend/database"
	"gst-billing-backend/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TenantTx opens a per-request DB transaction for the tenant routes.
// Order: run AFTER IsAuthenticatedHeader() (so tenantID/userID are present),
// and AFTER Idempotency() (so idempotency records aren't tied to the handler TX).
// The transaction is rolled back when the handler returns an error or a 4xx/5xx status.
func TenantTx(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		if TenantID(c) == "" {
			return c.Next()
		}

		tx := db.WithContext(c.UserContext()).Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log := logger.WithRequestID(RequestID(c))
				log.Error().Err(e).Msg("tx commit failed")
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		c.Locals(database.LocalsTx, tx)

		err = c.Next()
		return err
	}
}
