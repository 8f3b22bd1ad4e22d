// internals/features/asistencia/conciliacion/controller/conciliacion_controller.go
package controller

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/conciliacion/service"
	"asistencia_backend/internals/features/asistencia/estado"
	helper "asistencia_backend/internals/helpers"
	"asistencia_backend/internals/helpers/civilday"
)

type ConciliacionController struct {
	Conciliador *service.Conciliador
	Calendario  *civilday.Proveedor
}

func NewConciliacionController(conciliador *service.Conciliador, cal *civilday.Proveedor) *ConciliacionController {
	return &ConciliacionController{Conciliador: conciliador, Calendario: cal}
}

type conciliarRequest struct {
	Fecha string `json:"fecha" validate:"omitempty,datetime=2006-01-02"`
	Modo  string `json:"modo" validate:"required,oneof=entrada salida"`
	Actor string `json:"actor" validate:"required"`

	// Con pares vacíos el snapshot se arma desde el almacén efímero.
	Pares []service.ParSnapshot `json:"pares"`
}

// POST /api/a/asistencia/conciliar
func (ctrl *ConciliacionController) Conciliar(c *fiber.Ctx) error {
	var req conciliarRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload no válido")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.FromError(c, err)
	}

	fecha := req.Fecha
	if fecha == "" {
		fecha = ctrl.Calendario.FechaCivil(time.Now())
	}
	modo := estado.Modo(req.Modo)

	var (
		res service.ResultadoConciliacion
		err error
	)
	if len(req.Pares) > 0 {
		res, err = ctrl.Conciliador.Conciliar(c.UserContext(), fecha, modo, req.Actor, req.Pares)
	} else {
		res, err = ctrl.Conciliador.ConciliarDesdeMarcas(c.UserContext(), fecha, modo, req.Actor)
	}
	if err != nil {
		if errors.Is(err, constants.ErrRolNoSoportado) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Conciliación completada", res)
}
