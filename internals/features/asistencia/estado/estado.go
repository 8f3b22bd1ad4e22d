// internals/features/asistencia/estado/estado.go
package estado

/* ===============================
   Modo de marcación
=============================== */

type Modo string

const (
	ModoEntrada Modo = "entrada"
	ModoSalida  Modo = "salida"
)

func (m Modo) Valido() bool {
	return m == ModoEntrada || m == ModoSalida
}

/* ===============================
   Estados de puntualidad
=============================== */

// Mapping estado (TEXT en DB y en el JSON del agregado):
// entrada → puntual | tardanza_tolerada | tardanza
// salida  → cumplido | salida_anticipada_tolerada | salida_anticipada
// especiales → temprano (feed externo), falta (centinela), inactivo (feed externo)
type Estado string

const (
	EstadoPuntual                  Estado = "puntual"
	EstadoTardanzaTolerada         Estado = "tardanza_tolerada"
	EstadoTardanza                 Estado = "tardanza"
	EstadoTemprano                 Estado = "temprano"
	EstadoCumplido                 Estado = "cumplido"
	EstadoSalidaAnticipadaTolerada Estado = "salida_anticipada_tolerada"
	EstadoSalidaAnticipada         Estado = "salida_anticipada"
	EstadoFalta                    Estado = "falta"
	// EstadoInactivo nunca se deriva localmente: solo llega desde el
	// registro definitivo (persona sin actividad ese día, distinto de falta).
	EstadoInactivo Estado = "inactivo"
)

/* ===============================
   Tolerancias
=============================== */

// Tolerancias en segundos. Ambas deben ser >= 0.
type Tolerancias struct {
	Tardanza         int64 // margen después de la hora programada de entrada
	SalidaAnticipada int64 // margen antes de la hora programada de salida
}

// Valores por defecto: 5 min de tardanza tolerada, 15 min de salida tolerada.
func ToleranciasPorDefecto() Tolerancias {
	return Tolerancias{Tardanza: 300, SalidaAnticipada: 900}
}

/* ===============================
   Derivación de estado
=============================== */

// Derivar clasifica un offset (actual − programado, en segundos) según el
// modo. Es una función total: cualquier combinación de entradas produce un
// estado, nunca un error. Se usa idéntica al escribir (estudiantes, estado
// precalculado) y al leer (personal, que solo guarda el offset crudo).
func Derivar(modo Modo, offsetSegundos int64, tol Tolerancias) Estado {
	switch modo {
	case ModoEntrada:
		switch {
		case offsetSegundos <= 0:
			return EstadoPuntual
		case offsetSegundos <= tol.Tardanza:
			return EstadoTardanzaTolerada
		default:
			return EstadoTardanza
		}
	case ModoSalida:
		switch {
		case offsetSegundos >= 0:
			return EstadoCumplido
		case offsetSegundos >= -tol.SalidaAnticipada:
			return EstadoSalidaAnticipadaTolerada
		default:
			return EstadoSalidaAnticipada
		}
	}
	// Modo desconocido se trata como entrada (no debería pasar los DTO).
	if offsetSegundos <= 0 {
		return EstadoPuntual
	}
	return EstadoTardanza
}

// DerivarMarca aplica primero el centinela de falta explícita:
// timestamp == 0 y offset == 0 significa "falta registrada", sin aritmética.
func DerivarMarca(modo Modo, timestampMillis, offsetSegundos int64, tol Tolerancias) Estado {
	if timestampMillis == 0 && offsetSegundos == 0 {
		return EstadoFalta
	}
	return Derivar(modo, offsetSegundos, tol)
}
