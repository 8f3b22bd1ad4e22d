package model

import (
	"time"

	"github.com/google/uuid"

	"asistencia_backend/internals/constants"
)

// Registro mensual definitivo: la fuente autoritativa de ids de agregado.
// Este backend solo lo consume como generador/consulta de ids; los totales
// definitivos del mes viven aguas arriba.
type RegistroMensualModel struct {
	RegistroID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:registro_id" json:"registro_id"`

	RegistroPersonKind constants.PersonKind `gorm:"type:varchar(30);not null;column:registro_person_kind;uniqueIndex:uq_registros_clave,priority:1" json:"registro_person_kind"`
	RegistroModo       string               `gorm:"type:varchar(10);not null;column:registro_modo;uniqueIndex:uq_registros_clave,priority:2" json:"registro_modo"`
	RegistroIdentidad  string               `gorm:"type:varchar(20);not null;column:registro_identidad;uniqueIndex:uq_registros_clave,priority:3" json:"registro_identidad"`
	RegistroMes        string               `gorm:"type:varchar(7);not null;column:registro_mes;uniqueIndex:uq_registros_clave,priority:4" json:"registro_mes"`

	RegistroCreadoEn time.Time `gorm:"column:registro_creado_en;autoCreateTime" json:"registro_creado_en"`
}

func (RegistroMensualModel) TableName() string {
	return "registros_mensuales"
}
