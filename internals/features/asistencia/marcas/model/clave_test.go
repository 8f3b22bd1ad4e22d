package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
)

func TestClavePersonalIdaYVuelta(t *testing.T) {
	k := ClaveMarca{
		Fecha:     "2025-03-10",
		Modo:      estado.ModoEntrada,
		Actor:     constants.RolAuxiliar,
		Identidad: "12345678",
	}
	require.NoError(t, k.Validar())
	assert.Equal(t, "2025-03-10:entrada:auxiliar:12345678", k.String())

	parseada, err := ParseClave(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, parseada)
	assert.False(t, parseada.EsEstudiante())
}

func TestClaveEstudianteConDiscriminadores(t *testing.T) {
	k := ClaveMarca{
		Fecha:     "2025-03-10",
		Modo:      estado.ModoSalida,
		Actor:     constants.RolEstudiante,
		Identidad: "87654321",
		Nivel:     "secundaria",
		Grado:     "3",
		Seccion:   "B",
	}
	require.NoError(t, k.Validar())
	assert.Equal(t, "2025-03-10:salida:estudiante:87654321:secundaria:3:B", k.String())

	parseada, err := ParseClave(k.String())
	require.NoError(t, err)
	assert.Equal(t, k, parseada)
	assert.True(t, parseada.EsEstudiante())
}

func TestClaveInvalida(t *testing.T) {
	cases := []struct {
		nombre string
		k      ClaveMarca
	}{
		{"fecha mala", ClaveMarca{Fecha: "10/03/2025", Modo: estado.ModoEntrada, Actor: "auxiliar", Identidad: "1"}},
		{"modo malo", ClaveMarca{Fecha: "2025-03-10", Modo: "recreo", Actor: "auxiliar", Identidad: "1"}},
		{"sin identidad", ClaveMarca{Fecha: "2025-03-10", Modo: estado.ModoEntrada, Actor: "auxiliar"}},
		{"dos puntos en segmento", ClaveMarca{Fecha: "2025-03-10", Modo: estado.ModoEntrada, Actor: "auxiliar", Identidad: "12:34"}},
		{"personal con discriminadores", ClaveMarca{Fecha: "2025-03-10", Modo: estado.ModoEntrada, Actor: "auxiliar", Identidad: "1", Nivel: "primaria", Grado: "1", Seccion: "A"}},
		{"discriminadores incompletos", ClaveMarca{Fecha: "2025-03-10", Modo: estado.ModoEntrada, Actor: constants.RolEstudiante, Identidad: "1", Nivel: "primaria"}},
	}
	for _, c := range cases {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Error(t, c.k.Validar())
		})
	}
}

func TestParseClaveSegmentos(t *testing.T) {
	_, err := ParseClave("2025-03-10:entrada:auxiliar")
	assert.Error(t, err)

	_, err = ParseClave("2025-03-10:entrada:auxiliar:123:primaria:1:A")
	assert.Error(t, err, "discriminadores con actor no estudiante")

	// Estudiante sin discriminadores (búsqueda por prefijo) es válido.
	k, err := ParseClave("2025-03-10:entrada:estudiante:123")
	require.NoError(t, err)
	assert.True(t, k.EsEstudiante())
	assert.Empty(t, k.Nivel)
}

func TestValorMarcaCentinela(t *testing.T) {
	assert.True(t, ValorMarca{}.EsFaltaExplicita())
	assert.False(t, ValorMarca{TimestampMillis: 1}.EsFaltaExplicita())
	assert.False(t, ValorMarca{OffsetSegundos: -1}.EsFaltaExplicita())
}
