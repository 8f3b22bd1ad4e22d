package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
)

// RegistroDiario es el hecho consolidado de un día. El estado siempre es
// función de (modo, offset); nunca se fija a mano salvo los estados del
// feed definitivo (inactivo).
type RegistroDiario struct {
	TimestampMillis int64         `json:"timestamp_millis"`
	OffsetSegundos  int64         `json:"offset_segundos"`
	Estado          estado.Estado `json:"estado"`
}

// MapaDias mapea día del mes (1..31) → registro. Se serializa como JSON
// en una sola columna: el agregado se lee y escribe siempre completo.
type MapaDias map[int]RegistroDiario

// Un agregado por (partición, modo, identidad, mes). Entrada y salida son
// filas independientes: se escriben, concilian y consultan sin bloquearse
// entre sí.
type AgregadoMensualModel struct {
	AgregadoID uuid.UUID `gorm:"type:uuid;primaryKey;column:agregado_id" json:"agregado_id"`

	// ID autoritativo del registro mensual definitivo. NULL significa
	// "agregado nuevo, aún sin id asignado por el proveedor".
	AgregadoRegistroID *uuid.UUID `gorm:"type:uuid;column:agregado_registro_id;index:idx_agregados_registro" json:"agregado_registro_id,omitempty"`

	AgregadoPersonKind constants.PersonKind `gorm:"type:varchar(30);not null;column:agregado_person_kind;uniqueIndex:uq_agregados_clave,priority:1" json:"agregado_person_kind"`
	AgregadoModo       string               `gorm:"type:varchar(10);not null;column:agregado_modo;uniqueIndex:uq_agregados_clave,priority:2" json:"agregado_modo"`
	AgregadoIdentidad  string               `gorm:"type:varchar(20);not null;column:agregado_identidad;uniqueIndex:uq_agregados_clave,priority:3" json:"agregado_identidad"`
	AgregadoMes        string               `gorm:"type:varchar(7);not null;column:agregado_mes;uniqueIndex:uq_agregados_clave,priority:4;index:idx_agregados_mes" json:"agregado_mes"`

	AgregadoDias datatypes.JSONType[MapaDias] `gorm:"column:agregado_dias" json:"agregado_dias"`

	AgregadoCreadoEn      time.Time  `gorm:"column:agregado_creado_en;autoCreateTime" json:"agregado_creado_en"`
	AgregadoActualizadoEn *time.Time `gorm:"column:agregado_actualizado_en;autoUpdateTime" json:"agregado_actualizado_en,omitempty"`
}

func (AgregadoMensualModel) TableName() string {
	return "agregados_mensuales"
}

// Dias devuelve una copia del mapa: el agregado solo se muta vía SetDias
// y una escritura completa, nunca aliasando el estado interno.
func (a *AgregadoMensualModel) Dias() MapaDias {
	m := a.AgregadoDias.Data()
	out := make(MapaDias, len(m))
	for dia, reg := range m {
		out[dia] = reg
	}
	return out
}

func (a *AgregadoMensualModel) SetDias(m MapaDias) {
	a.AgregadoDias = datatypes.NewJSONType(m)
}
