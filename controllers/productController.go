package controllers

import (
	"gst-billing-backend/database"
	"gst-billing-backend/middlewares"
	"gst-billing-backend/services"

	"github.com/gofiber/fiber/v2"
)

// CreateProducts accepts a JSON array and creates all products or none.
func CreateProducts(c *fiber.Ctx) error {
	var inputs []services.ProductInput
	if err := parseBody(c, &inputs); err != nil {
		return err
	}
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}

	created, err := services.CreateProducts(tx, middlewares.TenantID(c), middlewares.UserID(c), inputs)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "products": created})
}

func GetProducts(c *fiber.Ctx) error {
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	products, err := services.ListProducts(tx, middlewares.TenantID(c), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "products": products})
}

func UpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var input services.ProductUpdateInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}

	product, err := services.UpdateProduct(tx, middlewares.TenantID(c), id, &input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "product": product})
}

type restockRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason" validate:"max=255"`
}

func RestockProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req restockRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}

	mv, err := services.Restock(tx, middlewares.TenantID(c), id, req.Quantity, req.Reason, middlewares.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "movement": mv})
}

func GetProductMovements(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	tx, err := database.GetTenantDB(c)
	if err != nil {
		return err
	}
	limit, offset := page(c)
	rows, err := services.ListMovements(tx, middlewares.TenantID(c), id, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "movements": rows})
}
