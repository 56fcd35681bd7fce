package controllers

import (
	"errors"
	"time"

	"gst-billing-backend/middlewares"
	"gst-billing-backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AuthController struct {
	db          *gorm.DB
	secret      []byte
	ttl         time.Duration
	phoneRegion string
}

func NewAuthController(db *gorm.DB, secret []byte, ttl time.Duration, phoneRegion string) *AuthController {
	return &AuthController{db: db, secret: secret, ttl: ttl, phoneRegion: phoneRegion}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := services.Authenticate(ac.db, req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return err
	}

	token, err := middlewares.GenerateJWT(ac.secret, ac.ttl, user.Id, user.TenantID(), user.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"token":     token,
		"tenant_id": user.TenantID(),
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// CreateCompany provisions a tenant and its owner. Admin only.
func (ac *AuthController) CreateCompany(c *fiber.Ctx) error {
	var req services.CompanyInput
	if err := parseBody(c, &req); err != nil {
		return err
	}

	company, owner, err := services.ProvisionCompany(ac.db.WithContext(c.UserContext()), &req, ac.phoneRegion)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"company": company,
		"owner": fiber.Map{
			"id":    owner.Id,
			"email": owner.Email,
			"role":  owner.Role,
		},
	})
}
