package routes

import (
	"gst-billing-backend/controllers"
	"gst-billing-backend/middlewares"
	"gst-billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps are the long-lived collaborators the handlers need.
type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte
	Auth      *controllers.AuthController
	Documents *controllers.DocumentController
	Reminders *controllers.ReminderController
}

// chain appends handler to a copy of mw.
func chain(mw []fiber.Handler, handler fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(mw)+1)
	return append(append(out, mw...), handler)
}

// Register wires all HTTP routes.
//
// Middleware is attached per route rather than with Group.Use, because Fiber applies Use to every
// route under the same prefix.
func Register(app *fiber.App, d Deps) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Public auth endpoints
	api.Post("/login", d.Auth.Login)

	auth := middlewares.IsAuthenticatedHeader(d.JWTSecret)

	// Platform admin
	api.Post("/admin/companies", auth, middlewares.RequireRole(models.RoleAdmin), d.Auth.CreateCompany)

	// Tenant endpoints: JWT, then idempotency guard (not tied to request TX).
	tenant := []fiber.Handler{auth, middlewares.RequireTenant(), middlewares.Idempotency(d.DB)}
	// Then per-request transaction (commits/rolls back with the response).
	tenantTx := chain(tenant, middlewares.TenantTx(d.DB))

	// Products
	api.Post("/products", chain(tenantTx, controllers.CreateProducts)...) // batch create
	api.Get("/products", chain(tenantTx, controllers.GetProducts)...)
	api.Put("/products/:id", chain(tenantTx, controllers.UpdateProduct)...)
	api.Post("/products/:id/stock", chain(tenantTx, controllers.RestockProduct)...)
	api.Get("/products/:id/movements", chain(tenantTx, controllers.GetProductMovements)...)

	// Customers
	api.Get("/customers", chain(tenantTx, controllers.GetCustomers)...)
	api.Get("/customers/:id", chain(tenantTx, controllers.GetCustomer)...)

	// Invoices and bills. Creation runs its own transaction so events go out after commit.
	for _, r := range []struct {
		path string
		kind models.DocumentKind
	}{
		{"/invoices", models.KindInvoice},
		{"/bills", models.KindBill},
	} {
		api.Post(r.path, chain(tenant, d.Documents.Create(r.kind))...)
		api.Get(r.path, chain(tenantTx, d.Documents.List(r.kind))...)
		api.Get(r.path+"/:id", chain(tenantTx, d.Documents.Get(r.kind))...)
		api.Put(r.path+"/:id", chain(tenantTx, d.Documents.UpdatePayment(r.kind))...)
	}

	// Reminders
	api.Get("/reminders", chain(tenant, d.Reminders.List)...)
}
