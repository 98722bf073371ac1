package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const ownerKey = "owner_id"

var ErrNoOwner = errors.New("no authenticated owner in context")

// SetOwnerID stores the authenticated principal on the request.
func SetOwnerID(c *fiber.Ctx, ownerID string) {
	c.Locals(ownerKey, ownerID)
}

// GetOwnerID returns the principal set by the authentication middleware.
func GetOwnerID(c *fiber.Ctx) (string, error) {
	if ownerID, ok := c.Locals(ownerKey).(string); ok && ownerID != "" {
		return ownerID, nil
	}
	return "", ErrNoOwner
}

// SubjectFromToken extracts the sub claim from a verified token. The value is
// treated as an opaque identifier.
func SubjectFromToken(token *jwt.Token) (string, error) {
	if token == nil {
		return "", errors.New("invalid token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}
