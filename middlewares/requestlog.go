package middlewares

import (
	"time"

	"gst-billing-backend/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	LocalsRequestID = "requestID"
)

// RequestLogger assigns a request id (reusing X-Request-ID when sent) and logs one line per
// request once the handler chain has finished.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(LocalsRequestID, id)
		c.Set(requestIDHeader, id)

		start := time.Now()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log := logger.WithRequestID(id)
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Str("tenant_id", TenantID(c)).
			Msg("request")
		return nil
	}
}

func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsRequestID).(string)
	return id
}
