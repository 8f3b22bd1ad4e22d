// internals/features/asistencia/registro/route/registro_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asistencia_backend/internals/features/asistencia/registro/controller"
	"asistencia_backend/internals/features/asistencia/registro/repository"
)

/* ===================== ADMIN ===================== */
func RegistroAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := controller.NewRegistroController(repository.NewGormRecordProvider(db))

	grp := r.Group("/asistencia/registros")
	grp.Post("/", ctrl.AsignarRegistro)
	grp.Get("/", ctrl.ObtenerRegistro)
}
