// internals/features/asistencia/conciliacion/route/conciliacion_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asistencia_backend/internals/configs"
	"asistencia_backend/internals/features/asistencia/conciliacion/controller"
	"asistencia_backend/internals/features/asistencia/conciliacion/service"
	historialRepo "asistencia_backend/internals/features/asistencia/historial/repository"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	registroRepo "asistencia_backend/internals/features/asistencia/registro/repository"
	"asistencia_backend/internals/helpers/civilday"
	"asistencia_backend/internals/middlewares"
)

/* ===================== ADMIN ===================== */
// La conciliación vuelca el snapshot del día al historial durable;
// solo administración la dispara.
func ConciliacionAdminRoutes(r fiber.Router, db, localDB *gorm.DB, cal *civilday.Proveedor) {
	conciliador := &service.Conciliador{
		Marcas:      marcasRepo.NewGormMarkStore(db),
		Historial:   historialRepo.NewGormAggregateStore(localDB),
		Registro:    registroRepo.NewGormRecordProvider(db),
		Calendario:  cal,
		Tolerancias: configs.Tolerancias,
	}
	ctrl := controller.NewConciliacionController(conciliador, cal)

	r.Post("/asistencia/conciliar", middlewares.ConciliacionRateLimiter(), ctrl.Conciliar)
}
