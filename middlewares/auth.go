package middlewares

import (
	"errors"
	"strings"
	"time"

	"gst-billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "

	LocalsUserID   = "userID"
	LocalsTenantID = "tenantID"
	LocalsRole     = "role"
)

// Claims is our custom JWT payload (subject=userID, plus tenant and role).
type Claims struct {
	TenantID string      `json:"tenant_id,omitempty"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// IsAuthenticatedHeader validates a Bearer token, enforces HS256, and populates
// c.Locals("userID","tenantID","role").
func IsAuthenticatedHeader(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if len(secret) == 0 {
			return fiber.NewError(fiber.StatusInternalServerError, "server auth not configured")
		}

		h := c.Get(authHeader)
		if h == "" || !strings.HasPrefix(strings.ToLower(h), strings.ToLower(bearerPrefix)) {
			return fiber.NewError(fiber.StatusUnauthorized, "missing/invalid Authorization header")
		}
		raw := strings.TrimSpace(h[len(bearerPrefix):])
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid bearer token")
		}

		parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		var claims Claims
		token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		if strings.TrimSpace(claims.Subject) == "" || claims.Role == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token missing subject/role")
		}

		c.Locals(LocalsUserID, claims.Subject)
		c.Locals(LocalsTenantID, claims.TenantID)
		c.Locals(LocalsRole, claims.Role)

		return c.Next()
	}
}

// RequireTenant rejects tokens without a tenant, e.g. platform admins calling tenant routes.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if TenantID(c) == "" {
			return fiber.NewError(fiber.StatusForbidden, "Tenant context missing")
		}
		return c.Next()
	}
}

// RequireRole allows only the listed roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalsRole).(models.Role)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

func TenantID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsTenantID).(string)
	return id
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsUserID).(string)
	return id
}

// GenerateJWT signs a new HS256 token for the given user. tenantID is empty for platform admins.
func GenerateJWT(secret []byte, ttl time.Duration, userID, tenantID string, role models.Role) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT secret not configured")
	}
	now := time.Now()
	claims := &Claims{
		TenantID: tenantID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
