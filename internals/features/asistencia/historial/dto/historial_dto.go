// internals/features/asistencia/historial/dto/historial_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/historial/model"
)

/* ===============================
   Requests
=============================== */

type DiaDefinitivo struct {
	TimestampMillis int64  `json:"timestamp_millis" validate:"min=0"`
	OffsetSegundos  int64  `json:"offset_segundos"`
	Estado          string `json:"estado" validate:"required,oneof=puntual tardanza_tolerada tardanza temprano cumplido salida_anticipada_tolerada salida_anticipada falta inactivo"`
}

// ActualizarMensualRequest es el volcado del feed definitivo para un mes:
// única vía por la que entra el estado "inactivo" (licencias, bajas), que
// la derivación local nunca produce.
type ActualizarMensualRequest struct {
	Rol        string                `json:"rol" validate:"required"`
	Modo       string                `json:"modo" validate:"required,oneof=entrada salida"`
	Identidad  string                `json:"identidad" validate:"required,min=6,max=20"`
	Mes        string                `json:"mes" validate:"required,datetime=2006-01"`
	RegistroID *uuid.UUID            `json:"registro_id"`
	Dias       map[int]DiaDefinitivo `json:"dias" validate:"required,min=1"`
}

/* ===============================
   Responses
=============================== */

type AgregadoMensualResponse struct {
	AgregadoID uuid.UUID            `json:"agregado_id"`
	RegistroID *uuid.UUID           `json:"registro_id,omitempty"`
	PersonKind constants.PersonKind `json:"person_kind"`
	Modo       string               `json:"modo"`
	Identidad  string               `json:"identidad"`
	Mes        string               `json:"mes"`
	Dias       model.MapaDias       `json:"dias"`

	// Días de hoy aún sin conciliar que se respondieron en vivo desde el
	// almacén efímero (solo lectura, no persistidos todavía).
	DiasEnVivo model.MapaDias `json:"dias_en_vivo,omitempty"`

	CreadoEn      time.Time  `json:"creado_en"`
	ActualizadoEn *time.Time `json:"actualizado_en,omitempty"`
}

func FromAgregadoModel(m model.AgregadoMensualModel) AgregadoMensualResponse {
	return AgregadoMensualResponse{
		AgregadoID:    m.AgregadoID,
		RegistroID:    m.AgregadoRegistroID,
		PersonKind:    m.AgregadoPersonKind,
		Modo:          m.AgregadoModo,
		Identidad:     m.AgregadoIdentidad,
		Mes:           m.AgregadoMes,
		Dias:          m.Dias(),
		CreadoEn:      m.AgregadoCreadoEn,
		ActualizadoEn: m.AgregadoActualizadoEn,
	}
}
