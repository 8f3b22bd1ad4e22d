package model

import (
	"time"

	"github.com/google/uuid"

	"asistencia_backend/internals/features/asistencia/estado"
)

// Una fila por marca del día. La clave canónica (colon-delimited) lleva un
// índice único: el "solo se escribe una vez por día" vive en el motor, no
// en código de aplicación (ON CONFLICT DO NOTHING).
type MarcaAsistenciaModel struct {
	MarcaID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:marca_id" json:"marca_id"`

	MarcaClave string `gorm:"type:text;not null;uniqueIndex:uq_marcas_clave;column:marca_clave" json:"marca_clave"`

	// Componentes de la clave, desnormalizados para listar por prefijo.
	MarcaFecha     string  `gorm:"type:varchar(10);not null;column:marca_fecha;index:idx_marcas_dia,priority:1" json:"marca_fecha"`
	MarcaModo      string  `gorm:"type:varchar(10);not null;column:marca_modo;index:idx_marcas_dia,priority:2" json:"marca_modo"`
	MarcaActor     string  `gorm:"type:varchar(30);not null;column:marca_actor;index:idx_marcas_dia,priority:3" json:"marca_actor"`
	MarcaIdentidad string  `gorm:"type:varchar(20);not null;column:marca_identidad;index:idx_marcas_dia,priority:4" json:"marca_identidad"`
	MarcaNivel     *string `gorm:"type:varchar(20);column:marca_nivel" json:"marca_nivel,omitempty"`
	MarcaGrado     *string `gorm:"type:varchar(10);column:marca_grado" json:"marca_grado,omitempty"`
	MarcaSeccion   *string `gorm:"type:varchar(10);column:marca_seccion" json:"marca_seccion,omitempty"`

	// timestamp_millis == 0 junto con offset == 0 es el centinela de
	// falta explícita, no un error.
	MarcaTimestampMillis int64 `gorm:"not null;column:marca_timestamp_millis" json:"marca_timestamp_millis"`
	MarcaOffsetSegundos  int64 `gorm:"not null;column:marca_offset_segundos" json:"marca_offset_segundos"`

	// Solo estudiantes guardan estado precalculado; para personal el
	// estado se deriva al leer y esta columna queda NULL.
	MarcaEstado *estado.Estado `gorm:"type:varchar(30);column:marca_estado" json:"marca_estado,omitempty"`

	// Vencimiento de la marca (corte diario). Las lecturas filtran
	// marca_expira_en > now(); el scheduler purga lo vencido.
	MarcaExpiraEn time.Time `gorm:"type:timestamptz;not null;column:marca_expira_en;index:idx_marcas_expira" json:"marca_expira_en"`

	MarcaCreadaEn time.Time `gorm:"column:marca_creada_en;autoCreateTime" json:"marca_creada_en"`
}

func (MarcaAsistenciaModel) TableName() string {
	return "marcas_asistencia"
}

// ValorMarca es la parte "valor" de una marca (lo que se concilia luego
// hacia el historial durable).
type ValorMarca struct {
	TimestampMillis int64          `json:"timestamp_millis"`
	OffsetSegundos  int64          `json:"offset_segundos"`
	Estado          *estado.Estado `json:"estado,omitempty"`
}

// EsFaltaExplicita detecta el centinela reservado (ambos campos en cero).
func (v ValorMarca) EsFaltaExplicita() bool {
	return v.TimestampMillis == 0 && v.OffsetSegundos == 0
}

func (m *MarcaAsistenciaModel) Valor() ValorMarca {
	return ValorMarca{
		TimestampMillis: m.MarcaTimestampMillis,
		OffsetSegundos:  m.MarcaOffsetSegundos,
		Estado:          m.MarcaEstado,
	}
}
