// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"asistencia_backend/internals/configs"
	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/helpers/civilday"
	authMiddleware "asistencia_backend/internals/middlewares/auth"
	routeDetails "asistencia_backend/internals/route/details"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db, localDB *gorm.DB) {
	startTime = time.Now()

	// Calendario civil compartido por todos los endpoints de asistencia.
	cal, err := civilday.NuevoProveedor(configs.ZonaHoraria, configs.CorteDiario)
	if err != nil {
		log.Fatalf("❌ Calendario civil no válido (%s / %s): %v",
			configs.ZonaHoraria, configs.CorteDiario, err)
	}

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
	)

	// ===================== ADMIN =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
			Secret:              configs.JWTSecret,
			AllowCookieFallback: true,
		}),
		authMiddleware.OnlyRoles(
			constants.RolErrorAdministracion("asistencia"),
			constants.RolesAdministracion...,
		),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Asistencia routes...")
	routeDetails.AsistenciaUserRoutes(private, db, localDB, cal)
	routeDetails.AsistenciaAdminRoutes(admin, db, localDB, cal)
}
