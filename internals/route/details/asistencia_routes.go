// internals/route/details/asistencia_routes.go
package details

import (
	AnulacionRoutes "asistencia_backend/internals/features/asistencia/anulacion/route"
	ConciliacionRoutes "asistencia_backend/internals/features/asistencia/conciliacion/route"
	HistorialRoutes "asistencia_backend/internals/features/asistencia/historial/route"
	MarcasRoutes "asistencia_backend/internals/features/asistencia/marcas/route"
	RegistroRoutes "asistencia_backend/internals/features/asistencia/registro/route"

	"asistencia_backend/internals/helpers/civilday"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

/* ===================== USER (PRIVATE) ===================== */
// Endpoints con login de usuario normal (personal o lector de marcado)
func AsistenciaUserRoutes(r fiber.Router, db, localDB *gorm.DB, cal *civilday.Proveedor) {
	MarcasRoutes.MarcasUserRoutes(r, db, cal)
	HistorialRoutes.HistorialUserRoutes(r, db, localDB, cal)
	AnulacionRoutes.AnulacionUserRoutes(r, db, localDB, cal)
}

/* ===================== ADMIN ===================== */
// Endpoints de administración (conciliar, listar el mes, borrar, registros)
func AsistenciaAdminRoutes(r fiber.Router, db, localDB *gorm.DB, cal *civilday.Proveedor) {
	ConciliacionRoutes.ConciliacionAdminRoutes(r, db, localDB, cal)
	HistorialRoutes.HistorialAdminRoutes(r, db, localDB, cal)
	RegistroRoutes.RegistroAdminRoutes(r, db)
}
