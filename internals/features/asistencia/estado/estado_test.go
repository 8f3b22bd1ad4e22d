package estado

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerivarEntrada(t *testing.T) {
	tol := ToleranciasPorDefecto()

	cases := []struct {
		nombre string
		offset int64
		want   Estado
	}{
		{"muy temprano", -3600, EstadoPuntual},
		{"exacto", 0, EstadoPuntual},
		{"dentro de tolerancia", 240, EstadoTardanzaTolerada},
		{"borde de tolerancia", 300, EstadoTardanzaTolerada},
		{"un segundo tarde de mas", 301, EstadoTardanza},
		{"muy tarde", 600, EstadoTardanza},
	}
	for _, c := range cases {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.want, Derivar(ModoEntrada, c.offset, tol))
		})
	}
}

func TestDerivarSalida(t *testing.T) {
	tol := ToleranciasPorDefecto()

	cases := []struct {
		nombre string
		offset int64
		want   Estado
	}{
		{"sale despues", 3600, EstadoCumplido},
		{"exacto", 0, EstadoCumplido},
		{"diez minutos antes", -600, EstadoSalidaAnticipadaTolerada},
		{"borde de tolerancia", -900, EstadoSalidaAnticipadaTolerada},
		{"un segundo antes de mas", -901, EstadoSalidaAnticipada},
		{"media hora antes", -1800, EstadoSalidaAnticipada},
	}
	for _, c := range cases {
		t.Run(c.nombre, func(t *testing.T) {
			assert.Equal(t, c.want, Derivar(ModoSalida, c.offset, tol))
		})
	}
}

func TestDerivarMarcaCentinelaFalta(t *testing.T) {
	tol := ToleranciasPorDefecto()

	// timestamp 0 + offset 0 es falta explícita, no puntualidad.
	assert.Equal(t, EstadoFalta, DerivarMarca(ModoEntrada, 0, 0, tol))
	assert.Equal(t, EstadoFalta, DerivarMarca(ModoSalida, 0, 0, tol))

	// offset 0 con timestamp real sí pasa por la aritmética.
	assert.Equal(t, EstadoPuntual, DerivarMarca(ModoEntrada, 1735689600000, 0, tol))
	assert.Equal(t, EstadoCumplido, DerivarMarca(ModoSalida, 1735689600000, 0, tol))
}

func TestDerivarToleranciaCero(t *testing.T) {
	tol := Tolerancias{Tardanza: 0, SalidaAnticipada: 0}

	assert.Equal(t, EstadoPuntual, Derivar(ModoEntrada, 0, tol))
	assert.Equal(t, EstadoTardanza, Derivar(ModoEntrada, 1, tol))
	assert.Equal(t, EstadoCumplido, Derivar(ModoSalida, 0, tol))
	assert.Equal(t, EstadoSalidaAnticipada, Derivar(ModoSalida, -1, tol))
}

func TestModoValido(t *testing.T) {
	assert.True(t, ModoEntrada.Valido())
	assert.True(t, ModoSalida.Valido())
	assert.False(t, Modo("almuerzo").Valido())
	assert.False(t, Modo("").Valido())
}
