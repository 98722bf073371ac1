package middleware

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/tenant"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const tokenKey = "user"

// Authenticate resolves the owning principal for every request.
//
//	CLERK_ENABLED  -> RS256 tokens verified against the Clerk JWKS
//	JWT_SECRET     -> HS256 tokens signed with the shared secret
//	neither        -> every request runs as DEV_OWNER_ID
func Authenticate(cfg *config.Config) fiber.Handler {
	switch {
	case cfg.ClerkEnabled:
		return jwtware.New(jwtware.Config{
			JWKSetURLs:     []string{cfg.ResolveJWKSURL()},
			ContextKey:     tokenKey,
			SuccessHandler: ownerFromToken,
			ErrorHandler:   tokenError,
		})
	case cfg.JWTSecret != "":
		return jwtware.New(jwtware.Config{
			SigningKey:     jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
			ContextKey:     tokenKey,
			SuccessHandler: ownerFromToken,
			ErrorHandler:   tokenError,
		})
	default:
		slog.Warn("authentication disabled, all requests use the development owner", "owner_id", cfg.DevOwnerID)
		return DevOwner(cfg.DevOwnerID)
	}
}

// DevOwner assigns a fixed owner to every request.
func DevOwner(ownerID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenant.SetOwnerID(c, ownerID)
		return c.Next()
	}
}

func ownerFromToken(c *fiber.Ctx) error {
	token, _ := c.Locals(tokenKey).(*jwt.Token)
	sub, err := tenant.SubjectFromToken(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Unauthorized: " + err.Error(),
		})
	}
	tenant.SetOwnerID(c, sub)
	return c.Next()
}

func tokenError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}
