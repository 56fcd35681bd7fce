package controllers

import (
	"gst-billing-backend/database"
	"gst-billing-backend/middlewares"
	"gst-billing-backend/services"

	"github.com/gofiber/fiber/v2"
)

// Customers are created by the document transaction; the directory itself is read-only.

func GetCustomers(c *fiber.Ctx) error {
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	customers, err := services.ListCustomers(tx, middlewares.TenantID(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "customers": customers})
}

func GetCustomer(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}
	customer, err := services.GetCustomer(tx, middlewares.TenantID(c), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "customer": customer})
}
