// internals/features/asistencia/anulacion/route/anulacion_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asistencia_backend/internals/configs"
	"asistencia_backend/internals/features/asistencia/anulacion/controller"
	"asistencia_backend/internals/features/asistencia/anulacion/service"
	historialRepo "asistencia_backend/internals/features/asistencia/historial/repository"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	"asistencia_backend/internals/helpers/civilday"
)

/* ===================== USER (PRIVATE) ===================== */
// La anulación corrige una marcación equivocada dentro de la ventana
// corta; pasada la ventana el propio servicio la rechaza.
func AnulacionUserRoutes(r fiber.Router, db, localDB *gorm.DB, cal *civilday.Proveedor) {
	anulador := &service.Anulador{
		Marcas:     marcasRepo.NewGormMarkStore(db),
		Historial:  historialRepo.NewGormAggregateStore(localDB),
		Calendario: cal,
		MaxMinutos: configs.AnulacionMaxMin,
	}
	ctrl := controller.NewAnulacionController(anulador)

	r.Delete("/asistencia/marcas", ctrl.AnularAsistencia)
}
