package auth

import (
	"github.com/gofiber/fiber/v2"
)

// OnlyRoles deja pasar solo si el rol del token está en la lista.
// Debe montarse después de AuthJWT (lee LocRol de Locals).
func OnlyRoles(mensaje string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rol, ok := c.Locals(LocRol).(string)
		if !ok || rol == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "No autorizado: falta el rol en el token",
			})
		}

		for _, permitido := range roles {
			if rol == permitido {
				return c.Next()
			}
		}

		if mensaje == "" {
			mensaje = "Prohibido: no tienes permiso para este recurso"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": mensaje,
		})
	}
}
