package controllers

import (
	"context"
	"time"

	"gst-billing-backend/middlewares"
	"gst-billing-backend/services"

	"github.com/gofiber/fiber/v2"
)

// ReminderLister is satisfied by *services.ReminderService.
type ReminderLister interface {
	Scan(ctx context.Context, companyID string, now time.Time) (services.Buckets, error)
}

type ReminderController struct {
	reminders ReminderLister
	now       func() time.Time
}

func NewReminderController(reminders ReminderLister) *ReminderController {
	return &ReminderController{reminders: reminders, now: time.Now}
}

func (rc *ReminderController) List(c *fiber.Ctx) error {
	b, err := rc.reminders.Scan(c.UserContext(), middlewares.TenantID(c), rc.now())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"reminders": b.Reminders,
		"overdue":   b.Overdue,
	})
}
