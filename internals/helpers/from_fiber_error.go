// file: internals/helpers/from_fiber_error.go
package helper

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"asistencia_backend/internals/helpers/storageerr"
)

// FromError traduce cualquier error de servicio/almacén a la respuesta
// JSON estándar. Un fallo fatal de almacenamiento corta la sesión con 503
// (el cliente debe re-sincronizar antes de seguir escribiendo).
func FromError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return JsonError(c, fe.Code, fe.Message)
	}
	if ve, ok := err.(validator.ValidationErrors); ok {
		fields := make(map[string][]string, len(ve))
		for _, fieldErr := range ve {
			fields[fieldErr.Field()] = append(fields[fieldErr.Field()], fieldErr.Tag())
		}
		return JsonValidationError(c, fields)
	}
	if storageerr.EsFatal(err) {
		return JsonError(c, fiber.StatusServiceUnavailable,
			"Almacenamiento local dañado o lleno; la sesión se cierra para proteger el historial")
	}
	if storageerr.EsTransitorio(err) {
		return JsonErrorWithCode(c, fiber.StatusServiceUnavailable,
			"Almacenamiento temporalmente no disponible, reintente", "STORAGE_RETRYABLE")
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}
