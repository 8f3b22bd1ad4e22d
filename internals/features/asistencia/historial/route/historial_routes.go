// internals/features/asistencia/historial/route/historial_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asistencia_backend/internals/configs"
	"asistencia_backend/internals/features/asistencia/historial/controller"
	"asistencia_backend/internals/features/asistencia/historial/repository"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	registroRepo "asistencia_backend/internals/features/asistencia/registro/repository"
	"asistencia_backend/internals/helpers/civilday"
)

func newHistorialController(db, localDB *gorm.DB, cal *civilday.Proveedor) *controller.HistorialController {
	return controller.NewHistorialController(
		repository.NewGormAggregateStore(localDB),
		marcasRepo.NewGormMarkStore(db),
		registroRepo.NewGormRecordProvider(db),
		cal,
		configs.Tolerancias,
	)
}

/* ===================== USER (PRIVATE) ===================== */
func HistorialUserRoutes(r fiber.Router, db, localDB *gorm.DB, cal *civilday.Proveedor) {
	ctrl := newHistorialController(db, localDB, cal)

	grp := r.Group("/asistencia/historial")
	grp.Get("/", ctrl.ObtenerHistorial)
	grp.Get("/dia", ctrl.ObtenerDia)
}

/* ===================== ADMIN ===================== */
func HistorialAdminRoutes(r fiber.Router, db, localDB *gorm.DB, cal *civilday.Proveedor) {
	ctrl := newHistorialController(db, localDB, cal)

	grp := r.Group("/asistencia/historial")
	grp.Get("/mes", ctrl.ListarPorMes)
	grp.Put("/", ctrl.ActualizarMensual)
	grp.Delete("/", ctrl.EliminarMensual)
}
