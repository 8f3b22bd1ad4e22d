package civilday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proveedorLima(t *testing.T) *Proveedor {
	t.Helper()
	p, err := NuevoProveedor("America/Lima", "23:59:59")
	require.NoError(t, err)
	return p
}

func TestFechaCivilCruceDeMedianoche(t *testing.T) {
	p := proveedorLima(t)

	// 2025-03-10 04:30 UTC = 2025-03-09 23:30 en Lima (UTC-5):
	// el día civil sigue siendo el 9.
	instante := time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-09", p.FechaCivil(instante))
	assert.Equal(t, "2025-03", p.MesCivil(instante))
	assert.Equal(t, 9, p.DiaDelMes(instante))
}

func TestSegundosHastaCorte(t *testing.T) {
	p := proveedorLima(t)
	loc := p.Ubicacion()

	// A las 23:00 locales faltan 3599s para el corte 23:59:59.
	a23 := time.Date(2025, 3, 9, 23, 0, 0, 0, loc)
	assert.Equal(t, int64(3599), p.SegundosHastaCorte(a23))

	// Medio segundo después del corte: el TTL apunta al corte de mañana,
	// no a un valor casi cero.
	pasado := time.Date(2025, 3, 9, 23, 59, 59, 500_000_000, loc)
	ttl := p.SegundosHastaCorte(pasado)
	assert.Greater(t, ttl, int64(86000))
	assert.LessOrEqual(t, ttl, int64(86400))

	// Exactamente en el corte también se va al día siguiente.
	exacto := time.Date(2025, 3, 9, 23, 59, 59, 0, loc)
	assert.Greater(t, p.SegundosHastaCorte(exacto), int64(86000))
}

func TestSegundosHastaCorteRango(t *testing.T) {
	p := proveedorLima(t)
	loc := p.Ubicacion()

	// Barrido grueso del día: el TTL siempre queda en [1, 86400].
	base := time.Date(2025, 7, 15, 0, 0, 0, 0, loc)
	for h := 0; h < 24; h++ {
		ttl := p.SegundosHastaCorte(base.Add(time.Duration(h) * time.Hour))
		assert.GreaterOrEqual(t, ttl, int64(1))
		assert.LessOrEqual(t, ttl, int64(86400))
	}
}

func TestNuevoProveedorInvalido(t *testing.T) {
	_, err := NuevoProveedor("Marte/Olympus", "23:59:59")
	assert.Error(t, err)

	_, err = NuevoProveedor("America/Lima", "25:00:00")
	assert.Error(t, err)

	_, err = NuevoProveedor("America/Lima", "mediodia")
	assert.Error(t, err)
}

func TestDesdeMillis(t *testing.T) {
	p := proveedorLima(t)

	// 2025-03-10 13:04:00 UTC → 08:04 en Lima.
	ms := time.Date(2025, 3, 10, 13, 4, 0, 0, time.UTC).UnixMilli()
	local := p.DesdeMillis(ms)
	assert.Equal(t, 8, local.Hour())
	assert.Equal(t, 4, local.Minute())
}
