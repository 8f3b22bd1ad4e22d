// internals/features/asistencia/registro/controller/registro_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/registro/repository"
	helper "asistencia_backend/internals/helpers"
)

type RegistroController struct {
	Registro repository.RecordIDProvider
}

func NewRegistroController(registro repository.RecordIDProvider) *RegistroController {
	return &RegistroController{Registro: registro}
}

type asignarRegistroRequest struct {
	Rol       string `json:"rol" validate:"required"`
	Modo      string `json:"modo" validate:"required,oneof=entrada salida"`
	Identidad string `json:"identidad" validate:"required,min=6,max=20"`
	Mes       string `json:"mes" validate:"required,datetime=2006-01"`
}

// POST /api/a/asistencia/registros
// Asigna (o devuelve, si ya existe) el id autoritativo del mes.
func (ctrl *RegistroController) AsignarRegistro(c *fiber.Ctx) error {
	var req asignarRegistroRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload no válido")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.FromError(c, err)
	}
	kind, err := constants.RolAPersonKind(req.Rol)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	id, err := ctrl.Registro.AsignarID(c.UserContext(), kind, estado.Modo(req.Modo), req.Identidad, req.Mes)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Registro mensual asignado", fiber.Map{"registro_id": id})
}

// GET /api/a/asistencia/registros?rol=&modo=&identidad=&mes=
func (ctrl *RegistroController) ObtenerRegistro(c *fiber.Ctx) error {
	kind, err := constants.RolAPersonKind(c.Query("rol"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	modo := estado.Modo(c.Query("modo", string(estado.ModoEntrada)))
	if !modo.Valido() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Modo no válido")
	}
	identidad := c.Query("identidad")
	mes := c.Query("mes")
	if identidad == "" || mes == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Identidad y mes requeridos")
	}

	id, err := ctrl.Registro.ObtenerID(c.UserContext(), kind, modo, identidad, mes)
	if err != nil {
		return helper.FromError(c, err)
	}
	if id == nil {
		// Sin id autoritativo todavía: agregado "nuevo" para el caller.
		return helper.JsonOK(c, "", fiber.Map{"registro_id": nil})
	}
	return helper.JsonOK(c, "", fiber.Map{"registro_id": id})
}
