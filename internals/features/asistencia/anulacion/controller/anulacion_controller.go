// internals/features/asistencia/anulacion/controller/anulacion_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"asistencia_backend/internals/features/asistencia/anulacion/service"
	"asistencia_backend/internals/features/asistencia/marcas/dto"
	marcasModel "asistencia_backend/internals/features/asistencia/marcas/model"
	helper "asistencia_backend/internals/helpers"
)

type AnulacionController struct {
	Anulador *service.Anulador
}

func NewAnulacionController(anulador *service.Anulador) *AnulacionController {
	return &AnulacionController{Anulador: anulador}
}

// DELETE /api/u/asistencia/marcas
// La ventana vencida o la marca ausente no son errores HTTP: el body
// lleva success=false con el motivo.
func (ctrl *AnulacionController) AnularAsistencia(c *fiber.Ctx) error {
	var req dto.AnularAsistenciaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload no válido")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.FromError(c, err)
	}

	clave, err := marcasModel.ParseClave(req.Clave)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	ahora := req.AhoraMillis
	if ahora == 0 {
		ahora = time.Now().UnixMilli()
	}

	res, err := ctrl.Anulador.Anular(c.UserContext(), clave, ahora)
	if err != nil {
		if res.MarcaEliminada {
			// Fallo parcial: la marca ya salió, el historial quedó
			// pendiente. El caller reintenta solo ese lado.
			return helper.JsonOK(c, "Anulación incompleta", res)
		}
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, res.Motivo, res)
}
