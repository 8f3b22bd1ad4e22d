// internals/features/asistencia/historial/controller/historial_controller.go
package controller

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/historial/dto"
	historialModel "asistencia_backend/internals/features/asistencia/historial/model"
	"asistencia_backend/internals/features/asistencia/historial/repository"
	marcasModel "asistencia_backend/internals/features/asistencia/marcas/model"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	registroRepo "asistencia_backend/internals/features/asistencia/registro/repository"
	helper "asistencia_backend/internals/helpers"
	"asistencia_backend/internals/helpers/civilday"
)

/* ===============================
   Controller & Constructor
=============================== */

type HistorialController struct {
	Historial   repository.AggregateStore
	Marcas      marcasRepo.MarkStore
	Registro    registroRepo.RecordIDProvider
	Calendario  *civilday.Proveedor
	Tolerancias estado.Tolerancias
}

func NewHistorialController(
	historial repository.AggregateStore,
	marcas marcasRepo.MarkStore,
	registro registroRepo.RecordIDProvider,
	cal *civilday.Proveedor,
	tol estado.Tolerancias,
) *HistorialController {
	return &HistorialController{
		Historial: historial, Marcas: marcas, Registro: registro,
		Calendario: cal, Tolerancias: tol,
	}
}

// parseFiltro lee rol/modo/identidad/mes comunes a las consultas.
func (ctrl *HistorialController) parseFiltro(c *fiber.Ctx) (constants.PersonKind, string, estado.Modo, string, string, error) {
	rol := c.Query("rol")
	kind, err := constants.RolAPersonKind(rol)
	if err != nil {
		return "", "", "", "", "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	modo := estado.Modo(c.Query("modo", string(estado.ModoEntrada)))
	if !modo.Valido() {
		return "", "", "", "", "", fiber.NewError(fiber.StatusBadRequest, "Modo no válido")
	}
	identidad := c.Query("identidad")
	if identidad == "" {
		return "", "", "", "", "", fiber.NewError(fiber.StatusBadRequest, "Identidad requerida")
	}
	mes := c.Query("mes")
	if mes == "" {
		mes = ctrl.Calendario.MesCivil(time.Now())
	} else if _, err := time.Parse(civilday.FormatoMes, mes); err != nil {
		return "", "", "", "", "", fiber.NewError(fiber.StatusBadRequest, "Mes no válido, use YYYY-MM")
	}
	return kind, rol, modo, identidad, mes, nil
}

/* ===============================
   HISTORIAL MENSUAL
=============================== */

// GET /api/u/asistencia/historial?rol=&modo=&identidad=&mes=
// Lee del historial durable; los días de hoy aún no conciliados se
// completan en vivo desde el almacén efímero (sin escribirlos).
func (ctrl *HistorialController) ObtenerHistorial(c *fiber.Ctx) error {
	kind, rol, modo, identidad, mes, err := ctrl.parseFiltro(c)
	if err != nil {
		return helper.FromError(c, err)
	}

	// Camino rápido por id autoritativo cuando el proveedor lo conoce.
	knownID, err := ctrl.Registro.ObtenerID(c.UserContext(), kind, modo, identidad, mes)
	if err != nil {
		return helper.FromError(c, err)
	}

	ag, err := ctrl.Historial.GetMonthly(c.UserContext(), kind, modo, identidad, mes, knownID)
	if err != nil {
		return helper.FromError(c, err)
	}

	var resp dto.AgregadoMensualResponse
	if ag != nil {
		resp = dto.FromAgregadoModel(*ag)
	} else {
		resp = dto.AgregadoMensualResponse{
			RegistroID: knownID, PersonKind: kind, Modo: string(modo),
			Identidad: identidad, Mes: mes, Dias: historialModel.MapaDias{},
		}
	}

	// Fallback en vivo: solo aplica al día de hoy del mes corriente.
	ahora := time.Now()
	if mes == ctrl.Calendario.MesCivil(ahora) {
		dia := ctrl.Calendario.DiaDelMes(ahora)
		if _, ok := resp.Dias[dia]; !ok {
			if vivo := ctrl.marcaEnVivo(c, rol, modo, identidad, ahora); vivo != nil {
				resp.DiasEnVivo = historialModel.MapaDias{dia: *vivo}
			}
		}
	}

	if ag == nil && len(resp.DiasEnVivo) == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Sin historial para ese mes")
	}
	return helper.JsonOK(c, "", resp)
}

func (ctrl *HistorialController) marcaEnVivo(c *fiber.Ctx, rol string, modo estado.Modo, identidad string, ahora time.Time) *historialModel.RegistroDiario {
	clave := marcasModel.ClaveMarca{
		Fecha:     ctrl.Calendario.FechaCivil(ahora),
		Modo:      modo,
		Actor:     rol,
		Identidad: identidad,
	}
	valor, err := ctrl.Marcas.Get(c.UserContext(), clave)
	if err != nil || valor == nil {
		return nil
	}
	return &historialModel.RegistroDiario{
		TimestampMillis: valor.TimestampMillis,
		OffsetSegundos:  valor.OffsetSegundos,
		Estado:          estado.DerivarMarca(modo, valor.TimestampMillis, valor.OffsetSegundos, ctrl.Tolerancias),
	}
}

/* ===============================
   DÍA PUNTUAL
=============================== */

// GET /api/u/asistencia/historial/dia?rol=&modo=&identidad=&mes=&dia=
func (ctrl *HistorialController) ObtenerDia(c *fiber.Ctx) error {
	kind, rol, modo, identidad, mes, err := ctrl.parseFiltro(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	dia := c.QueryInt("dia")
	if dia < 1 || dia > 31 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Día fuera de rango")
	}

	reg, err := ctrl.Historial.GetDaily(c.UserContext(), kind, modo, identidad, mes, dia)
	if err != nil {
		return helper.FromError(c, err)
	}
	if reg == nil {
		ahora := time.Now()
		if mes == ctrl.Calendario.MesCivil(ahora) && dia == ctrl.Calendario.DiaDelMes(ahora) {
			reg = ctrl.marcaEnVivo(c, rol, modo, identidad, ahora)
		}
	}
	if reg == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Sin registro para ese día")
	}
	return helper.JsonOK(c, "", reg)
}

/* ===============================
   LISTADO ADMIN POR MES
=============================== */

// GET /api/a/asistencia/historial/mes?rol=&modo=&mes=&page=&per_page=
func (ctrl *HistorialController) ListarPorMes(c *fiber.Ctx) error {
	rol := c.Query("rol")
	kind, err := constants.RolAPersonKind(rol)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	modo := estado.Modo(c.Query("modo", string(estado.ModoEntrada)))
	if !modo.Valido() {
		return helper.JsonError(c, fiber.StatusBadRequest, "Modo no válido")
	}
	mes := c.Query("mes")
	if mes == "" {
		mes = ctrl.Calendario.MesCivil(time.Now())
	} else if _, err := time.Parse(civilday.FormatoMes, mes); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Mes no válido, use YYYY-MM")
	}

	page, perPage, offset := helper.ResolvePaging(c, 20, 100)
	filas, total, err := ctrl.Historial.ListMonthlyByMonth(c.UserContext(), kind, modo, mes, perPage, offset)
	if err != nil {
		return helper.FromError(c, err)
	}

	out := make([]dto.AgregadoMensualResponse, 0, len(filas))
	for _, fila := range filas {
		out = append(out, dto.FromAgregadoModel(fila))
	}
	return helper.JsonList(c, "", out, helper.BuildPagination(total, page, perPage))
}

/* ===============================
   UPSERT DESDE EL FEED DEFINITIVO
=============================== */

// PUT /api/a/asistencia/historial
// Vuelca un agregado del feed definitivo sobre el historial local: los
// días enviados reemplazan a los locales, los no enviados se conservan.
// Es la única vía de entrada del estado "inactivo".
func (ctrl *HistorialController) ActualizarMensual(c *fiber.Ctx) error {
	var req dto.ActualizarMensualRequest
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
	for dia := range req.Dias {
		if dia < 1 || dia > 31 {
			return helper.JsonError(c, fiber.StatusBadRequest, "Día fuera de rango")
		}
	}

	modo := estado.Modo(req.Modo)
	ag, err := ctrl.Historial.GetMonthly(c.UserContext(), kind, modo, req.Identidad, req.Mes, req.RegistroID)
	if err != nil {
		return helper.FromError(c, err)
	}
	if ag == nil {
		ag = &historialModel.AgregadoMensualModel{
			AgregadoRegistroID: req.RegistroID,
			AgregadoPersonKind: kind,
			AgregadoModo:       req.Modo,
			AgregadoIdentidad:  req.Identidad,
			AgregadoMes:        req.Mes,
		}
	} else if ag.AgregadoRegistroID == nil && req.RegistroID != nil {
		ag.AgregadoRegistroID = req.RegistroID
	}

	dias := ag.Dias()
	for dia, d := range req.Dias {
		dias[dia] = historialModel.RegistroDiario{
			TimestampMillis: d.TimestampMillis,
			OffsetSegundos:  d.OffsetSegundos,
			Estado:          estado.Estado(d.Estado),
		}
	}
	ag.SetDias(dias)

	if err := ctrl.Historial.PutMonthly(c.UserContext(), ag); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Historial mensual actualizado", dto.FromAgregadoModel(*ag))
}

/* ===============================
   BORRADO ADMIN
=============================== */

// DELETE /api/a/asistencia/historial?rol=&modo=&identidad=&mes=
func (ctrl *HistorialController) EliminarMensual(c *fiber.Ctx) error {
	kind, _, modo, identidad, mes, err := ctrl.parseFiltro(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	eliminado, err := ctrl.Historial.DeleteMonthly(c.UserContext(), kind, modo, identidad, mes)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !eliminado {
		return helper.JsonError(c, fiber.StatusNotFound, "Sin historial para ese mes")
	}
	return helper.JsonDeleted(c, "Historial mensual eliminado", fiber.Map{
		"identidad": identidad, "mes": mes, "modo": string(modo),
	})
}
