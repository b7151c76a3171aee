package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mansoorceksport/estatemedia/internal/domain"
)

// Context keys for storing user info
const (
	UserIDKey = "userID"
	RolesKey  = "roles"
)

// VerifyToken validates the bearer JWT issued by the auth service and stores
// the caller's identity in the request locals. Upload routes trust it blindly.
func VerifyToken(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "missing authorization token")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return unauthorized(c, "invalid authorization header format, expected 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &domain.AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
			// Verify signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			return unauthorized(c, "invalid or expired token")
		}

		claims, ok := token.Claims.(*domain.AccessClaims)
		if !ok || !token.Valid || claims.UserID == "" {
			return unauthorized(c, "invalid token claims")
		}

		c.Locals(UserIDKey, claims.UserID)
		c.Locals(RolesKey, claims.Roles)

		return c.Next()
	}
}

// GetUserID extracts the user ID from Fiber context
// Should only be called after VerifyToken
func GetUserID(c *fiber.Ctx) string {
	userID, ok := c.Locals(UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
