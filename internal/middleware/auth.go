package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/arnold/okrtrack-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Groups []string  `json:"groups"`
	jwt.RegisteredClaims
}

// Identity is what the guard and state machine consume: an opaque user id
// plus group memberships. Tokens are never re-verified past this point.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Groups []string
}

func (i Identity) HasGroup(name string) bool {
	for _, g := range i.Groups {
		if g == name {
			return true
		}
	}
	return false
}

func (i Identity) IsLeader() bool  { return i.HasGroup(models.GroupLeader) }
func (i Identity) IsManager() bool { return i.HasGroup(models.GroupManager) }

// IsPrivileged reports whether ownership checks are skipped for this caller.
func (i Identity) IsPrivileged() bool { return i.IsLeader() || i.IsManager() }

func secret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "your-secret-key-change-in-production"
	}
	return []byte(s)
}

func GenerateToken(user models.User) (string, error) {
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Groups: user.GroupList(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)), // 7 days
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization format",
			})
		}

		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
			return secret(), nil
		})

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		c.Locals("identity", Identity{
			UserID: claims.UserID,
			Email:  claims.Email,
			Groups: claims.Groups,
		})

		return c.Next()
	}
}

// GetIdentity extracts the authenticated identity from context.
func GetIdentity(c *fiber.Ctx) Identity {
	id, ok := c.Locals("identity").(Identity)
	if !ok {
		return Identity{}
	}
	return id
}
