package http

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simstock-api/internal/application/dto"
)

// HeaderAPIKey header de la API pública.
const HeaderAPIKey = "X-API-KEY"

// RequireAPIKey protege la API pública con una clave compartida.
//
// Comportamiento:
//   - 503 Service Unavailable → no hay clave configurada (API pública deshabilitada).
//   - 401 Unauthorized → header ausente o clave distinta.
func RequireAPIKey(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey == "" {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "PUBLIC_API_DISABLED",
				Message: "la API pública no está configurada",
			})
		}
		got := c.Get(HeaderAPIKey)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "INVALID_API_KEY",
				Message: "X-API-KEY inválida",
			})
		}
		return c.Next()
	}
}
