// Package middleware contains HTTP middleware functions for request processing
package middleware

import (
	"errors"
	"strings"

	"github.com/amirphl/concept-studio/app/dto"
	"github.com/amirphl/concept-studio/app/services"
	"github.com/gofiber/fiber/v3"
)

// DefaultAnonKeyHeader is the header clients put the anonymous key in
const DefaultAnonKeyHeader = "apikey"

// AnonKeyMiddleware guards the store-backed API with the shared anonymous key
type AnonKeyMiddleware struct {
	anonKeyService services.AnonKeyService
	header         string
}

// NewAnonKeyMiddleware creates a new anonymous key middleware
func NewAnonKeyMiddleware(anonKeyService services.AnonKeyService, header string) *AnonKeyMiddleware {
	if strings.TrimSpace(header) == "" {
		header = DefaultAnonKeyHeader
	}
	return &AnonKeyMiddleware{
		anonKeyService: anonKeyService,
		header:         header,
	}
}

// Authenticate accepts the key from the configured header or as a bearer token
func (m *AnonKeyMiddleware) Authenticate() fiber.Handler {
	return func(c fiber.Ctx) error {
		token := strings.TrimSpace(c.Get(m.header))
		if token == "" {
			authHeader := c.Get("Authorization")
			if authHeader != "" && !strings.HasPrefix(authHeader, "Bearer ") {
				return unauthorized(c, "Invalid authorization header format. Expected 'Bearer <token>'", "INVALID_AUTHORIZATION_FORMAT")
			}
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}
		if token == "" {
			return unauthorized(c, "Anonymous key is required", "MISSING_ANON_KEY")
		}

		claims, err := m.anonKeyService.ValidateAnonKey(token)
		if err != nil {
			if errors.Is(err, services.ErrAnonKeyExpired) {
				return unauthorized(c, "Anonymous key has expired", "ANON_KEY_EXPIRED")
			}
			return unauthorized(c, "Invalid anonymous key", "ANON_KEY_INVALID")
		}

		c.Locals("role", claims.Role)
		c.Locals("anon_key_claims", claims)

		return c.Next()
	}
}

func unauthorized(c fiber.Ctx, message, code string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code: code,
		},
	})
}
