package controllers

import (
	"context"
	"fmt"
	"time"

	"gst-billing-backend/database"
	"gst-billing-backend/middlewares"
	"gst-billing-backend/models"
	"gst-billing-backend/services"

	"github.com/gofiber/fiber/v2"
)

// DocumentCreator is satisfied by *services.DocumentService.
type DocumentCreator interface {
	Create(ctx context.Context, kind models.DocumentKind, in *services.CreateDocumentInput) (*services.CreateResult, error)
}

type DocumentController struct {
	creator DocumentCreator
	now     func() time.Time
}

func NewDocumentController(creator DocumentCreator) *DocumentController {
	return &DocumentController{creator: creator, now: time.Now}
}

// Create handles POST /invoices and POST /bills. Tenant and user always come from the token.
func (dc *DocumentController) Create(kind models.DocumentKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in services.CreateDocumentInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		in.CompanyID = middlewares.TenantID(c)
		in.UserID = middlewares.UserID(c)

		res, err := dc.creator.Create(c.UserContext(), kind, &in)
		if err != nil {
			return err
		}

		body := fiber.Map{
			"success":         true,
			"message":         fmt.Sprintf("%s created successfully", kind.Title()),
			"id":              res.Document.ID,
			"document_number": res.Document.DocumentNumber,
		}
		if res.Warning != "" {
			body["warning"] = res.Warning
		}
		return c.Status(fiber.StatusCreated).JSON(body)
	}
}

func (dc *DocumentController) List(kind models.DocumentKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx, err := database.GetTenantDB(c)
		if err != nil {
			return err
		}
		limit, offset := page(c)
		docs, err := services.ListDocuments(tx, middlewares.TenantID(c), kind, limit, offset)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "documents": docs})
	}
}

func (dc *DocumentController) Get(kind models.DocumentKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		tx, err := database.GetTenantDB(c)
		if err != nil {
			return err
		}
		doc, err := services.GetDocument(tx, middlewares.TenantID(c), kind, id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"success": true, "document": doc})
	}
}

// UpdatePayment handles PUT /invoices/:id and PUT /bills/:id.
func (dc *DocumentController) UpdatePayment(kind models.DocumentKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := paramID(c)
		if err != nil {
			return err
		}
		var in services.PaymentUpdateInput
		if err := parseBody(c, &in); err != nil {
			return err
		}
		tx, err := database.GetTenantDB(c)
		if err != nil {
			return err
		}

		doc, err := services.UpdatePayment(tx, middlewares.TenantID(c), kind, id, &in, dc.now())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"message":  fmt.Sprintf("%s payment updated", kind.Title()),
			"document": doc,
		})
	}
}
