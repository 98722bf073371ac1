package tenant

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjectFromToken(t *testing.T) {
	sub, err := SubjectFromToken(&jwt.Token{Claims: jwt.MapClaims{"sub": "user_2abc"}})
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", sub)

	for name, tok := range map[string]*jwt.Token{
		"nil token":      nil,
		"missing sub":    {Claims: jwt.MapClaims{}},
		"empty sub":      {Claims: jwt.MapClaims{"sub": ""}},
		"non-string sub": {Claims: jwt.MapClaims{"sub": 42}},
		"other claims":   {Claims: &jwt.RegisteredClaims{Subject: "x"}},
	} {
		_, err := SubjectFromToken(tok)
		assert.Error(t, err, name)
	}
}

func TestOwnerIDRoundTrip(t *testing.T) {
	app := fiber.New()
	app.Get("/set", func(c *fiber.Ctx) error {
		SetOwnerID(c, "user_a")
		owner, err := GetOwnerID(c)
		if err != nil {
			return err
		}
		return c.SendString(owner)
	})
	app.Get("/unset", func(c *fiber.Ctx) error {
		_, err := GetOwnerID(c)
		assert.ErrorIs(t, err, ErrNoOwner)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/set", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/unset", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
