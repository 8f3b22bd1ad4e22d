// internals/features/asistencia/marcas/controller/marca_asistencia_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/marcas/dto"
	"asistencia_backend/internals/features/asistencia/marcas/repository"
	helper "asistencia_backend/internals/helpers"
	"asistencia_backend/internals/helpers/civilday"
)

/* ===============================
   Controller & Constructor
=============================== */

type MarcaAsistenciaController struct {
	Marcas      repository.MarkStore
	Calendario  *civilday.Proveedor
	Tolerancias estado.Tolerancias
}

func NewMarcaAsistenciaController(marcas repository.MarkStore, cal *civilday.Proveedor, tol estado.Tolerancias) *MarcaAsistenciaController {
	return &MarcaAsistenciaController{Marcas: marcas, Calendario: cal, Tolerancias: tol}
}

/* ===============================
   MARCAR (write-once por día)
=============================== */

// POST /api/u/asistencia/marcas
func (ctrl *MarcaAsistenciaController) MarcarAsistencia(c *fiber.Ctx) error {
	var req dto.MarcarAsistenciaRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload no válido")
	}
	if err := validator.New().Struct(req); err != nil {
		return helper.FromError(c, err)
	}

	clave := req.ToClave()
	if err := clave.Validar(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	// TTL hasta el corte diario; si el corte de hoy ya pasó, apunta al de
	// mañana (nunca un TTL casi cero).
	ttl := ctrl.Calendario.SegundosHastaCorte(time.Now())

	valor := req.ToValor(ctrl.Tolerancias)
	creada, existente, err := ctrl.Marcas.Put(c.UserContext(), clave, valor, ttl)
	if err != nil {
		return helper.FromError(c, err)
	}

	if !creada {
		if existente == nil {
			// Carrera entre el conflicto y la relectura (la fila venció en
			// medio): reintentable, nunca un pánico.
			return helper.JsonErrorWithCode(c, fiber.StatusServiceUnavailable,
				"Conflicto transitorio al registrar la marca, reintente", "STORAGE_RETRYABLE")
		}
		// Doble marcado: no es fallo, se devuelve lo ya registrado.
		return helper.JsonOK(c, "La asistencia ya estaba registrada", dto.MarcarAsistenciaResponse{
			Created: false,
			Clave:   clave.String(),
			Valor:   *existente,
			Estado:  estado.DerivarMarca(clave.Modo, existente.TimestampMillis, existente.OffsetSegundos, ctrl.Tolerancias),
		})
	}

	return helper.JsonCreated(c, "Asistencia registrada", dto.MarcarAsistenciaResponse{
		Created: true,
		Clave:   clave.String(),
		Valor:   valor,
		Estado:  estado.DerivarMarca(clave.Modo, valor.TimestampMillis, valor.OffsetSegundos, ctrl.Tolerancias),
	})
}

/* ===============================
   CONSULTAR HOY
=============================== */

// GET /api/u/asistencia/marcas/hoy?fecha=&modo=&actor=&identidad=
// Sin identidad lista todo el (fecha, modo, actor); con identidad filtra
// (útil para estudiantes cuando no se conocen nivel/grado/sección).
func (ctrl *MarcaAsistenciaController) ConsultarHoy(c *fiber.Ctx) error {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = ctrl.Calendario.FechaCivil(time.Now())
	}
	modo := estado.Modo(c.Query("modo", string(estado.ModoEntrada)))
	if !modo.Valido() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Modo no válido")
	}
	actor := c.Query("actor")
	if actor == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "Actor requerido")
	}

	var identidad *string
	if v := c.Query("identidad"); v != "" {
		identidad = &v
	}

	filas, err := ctrl.Marcas.ListByPrefix(c.UserContext(), fecha, modo, actor, identidad)
	if err != nil {
		return helper.FromError(c, err)
	}

	out := make([]dto.MarcaResponse, 0, len(filas))
	for _, fila := range filas {
		out = append(out, dto.FromMarcaModel(fila, ctrl.Tolerancias))
	}
	return helper.JsonOK(c, "", out)
}
