package middlewares

import (
	"github.com/gofiber/fiber/v2"

	loggerMiddleware "asistencia_backend/internals/middlewares/logger"
)

// SetupMiddlewares registra los middlewares base de la app en orden:
// recovery primero (atrapa panics de todo lo demás), luego CORS,
// logging y el limiter global.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(loggerMiddleware.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
