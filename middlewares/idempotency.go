package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gst-billing-backend/logger"
	"gst-billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const idempotencyHeader = "Idempotency-Key"

// Idempotency processes Idempotency-Key for mutating HTTP methods, scoped to the caller's company.
// It uses its own short transactions so the stored response survives independently of the
// handler transaction.
func Idempotency(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(idempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		tenantID := TenantID(c)
		userID := UserID(c)
		if tenantID == "" || userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}

		path := c.OriginalURL() // includes query string
		reqHash := requestHash(method, path, c.Body(), tenantID, userID)
		scoped := func(tx *gorm.DB) *gorm.DB {
			return tx.Where("company_id = ? AND key = ?", tenantID, key)
		}

		// ---- Phase 1: read or create the pending record
		var existing models.IdempotencyKey
		replayed := false
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Scopes(scoped).First(&existing).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					CompanyID:   tenantID,
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
					UserID:      userID,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// unique race: another request created it first
					if e3 := tx.Scopes(scoped).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					existing = rec
					return nil
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			if existing.ResponseStatus == 0 {
				return fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress")
			}
			replayed = true
			return nil
		})
		if err != nil {
			return err
		}
		if replayed {
			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Status(existing.ResponseStatus).Send(existing.ResponseBody)
		}

		// ---- Run the handler once. Failures release the key so the client can retry.
		if err := c.Next(); err != nil {
			release(db, tenantID, key)
			return err
		}
		status := c.Response().StatusCode()
		if status >= fiber.StatusInternalServerError {
			release(db, tenantID, key)
			return nil
		}

		// ---- Phase 2: store the response (best-effort)
		now := time.Now().UTC()
		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		if err := db.Model(&models.IdempotencyKey{}).
			Scopes(scoped).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   blob,
				"completed_at":    &now,
			}).Error; err != nil {
			log := logger.WithRequestID(RequestID(c))
			log.Warn().Err(err).Str("key", key).Msg("idempotency response not stored")
		}
		return nil
	}
}

// requestHash is sha256 of method|path|body|tenant|user.
func requestHash(method, path string, body []byte, tenantID, userID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(tenantID))
	h.Write([]byte{'\n'})
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

func release(db *gorm.DB, tenantID, key string) {
	_ = db.Where("company_id = ? AND key = ? AND response_status = 0", tenantID, key).
		Delete(&models.IdempotencyKey{}).Error
}
