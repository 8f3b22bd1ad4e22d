// internals/features/asistencia/marcas/dto/marca_dto.go
package dto

import (
	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/marcas/model"
)

/* ===============================
   Requests
=============================== */

type MarcarAsistenciaRequest struct {
	Fecha     string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Modo      string `json:"modo" validate:"required,oneof=entrada salida"`
	Actor     string `json:"actor" validate:"required,max=30"`
	Identidad string `json:"identidad" validate:"required,min=6,max=20"`

	// Solo estudiantes; van juntos o no van.
	Nivel   string `json:"nivel" validate:"omitempty,max=20"`
	Grado   string `json:"grado" validate:"omitempty,max=10"`
	Seccion string `json:"seccion" validate:"omitempty,max=10"`

	// timestamp_millis=0 y offset_segundos=0 registra falta explícita.
	TimestampMillis int64 `json:"timestamp_millis" validate:"min=0"`
	OffsetSegundos  int64 `json:"offset_segundos"`
}

func (r *MarcarAsistenciaRequest) ToClave() model.ClaveMarca {
	return model.ClaveMarca{
		Fecha:     r.Fecha,
		Modo:      estado.Modo(r.Modo),
		Actor:     r.Actor,
		Identidad: r.Identidad,
		Nivel:     r.Nivel,
		Grado:     r.Grado,
		Seccion:   r.Seccion,
	}
}

// ToValor arma el valor a almacenar. Para estudiantes el estado se
// precalcula al escribir; para personal queda NULL y se deriva al leer.
func (r *MarcarAsistenciaRequest) ToValor(tol estado.Tolerancias) model.ValorMarca {
	v := model.ValorMarca{
		TimestampMillis: r.TimestampMillis,
		OffsetSegundos:  r.OffsetSegundos,
	}
	if r.ToClave().EsEstudiante() {
		e := estado.DerivarMarca(estado.Modo(r.Modo), r.TimestampMillis, r.OffsetSegundos, tol)
		v.Estado = &e
	}
	return v
}

type AnularAsistenciaRequest struct {
	Clave string `json:"clave" validate:"required"`

	// Instante de la solicitud en millis; 0 = usar el reloj del servidor.
	AhoraMillis int64 `json:"ahora_millis" validate:"min=0"`
}

/* ===============================
   Responses
=============================== */

type MarcaResponse struct {
	Clave           string        `json:"clave"`
	Fecha           string        `json:"fecha"`
	Modo            string        `json:"modo"`
	Actor           string        `json:"actor"`
	Identidad       string        `json:"identidad"`
	TimestampMillis int64         `json:"timestamp_millis"`
	OffsetSegundos  int64         `json:"offset_segundos"`
	Estado          estado.Estado `json:"estado"`
}

// FromMarcaModel proyecta una fila a response. El estado del personal se
// deriva siempre del offset crudo (lo almacenado no se confía); el de
// estudiantes viene precalculado en la fila.
func FromMarcaModel(m model.MarcaAsistenciaModel, tol estado.Tolerancias) MarcaResponse {
	modo := estado.Modo(m.MarcaModo)
	var e estado.Estado
	if m.MarcaEstado != nil {
		e = *m.MarcaEstado
	} else {
		e = estado.DerivarMarca(modo, m.MarcaTimestampMillis, m.MarcaOffsetSegundos, tol)
	}
	return MarcaResponse{
		Clave:           m.MarcaClave,
		Fecha:           m.MarcaFecha,
		Modo:            m.MarcaModo,
		Actor:           m.MarcaActor,
		Identidad:       m.MarcaIdentidad,
		TimestampMillis: m.MarcaTimestampMillis,
		OffsetSegundos:  m.MarcaOffsetSegundos,
		Estado:          e,
	}
}

type MarcarAsistenciaResponse struct {
	Created bool             `json:"created"`
	Clave   string           `json:"clave"`
	Valor   model.ValorMarca `json:"valor"`
	Estado  estado.Estado    `json:"estado"`
}
