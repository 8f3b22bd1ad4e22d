// internals/features/asistencia/marcas/route/marcas_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asistencia_backend/internals/configs"
	"asistencia_backend/internals/features/asistencia/marcas/controller"
	"asistencia_backend/internals/features/asistencia/marcas/repository"
	"asistencia_backend/internals/helpers/civilday"
	"asistencia_backend/internals/middlewares"
)

/* ===================== USER (PRIVATE) ===================== */
// Marcado y consulta del día: cualquier usuario autenticado (el lector
// biométrico entra con un token de servicio).
func MarcasUserRoutes(r fiber.Router, db *gorm.DB, cal *civilday.Proveedor) {
	ctrl := controller.NewMarcaAsistenciaController(
		repository.NewGormMarkStore(db), cal, configs.Tolerancias,
	)

	grp := r.Group("/asistencia/marcas")
	grp.Post("/", middlewares.MarcacionRateLimiter(), ctrl.MarcarAsistencia)
	grp.Get("/hoy", ctrl.ConsultarHoy)
}
