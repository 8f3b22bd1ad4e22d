package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	historialModel "asistencia_backend/internals/features/asistencia/historial/model"
	historialRepo "asistencia_backend/internals/features/asistencia/historial/repository"
	marcasModel "asistencia_backend/internals/features/asistencia/marcas/model"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	"asistencia_backend/internals/helpers/civilday"
)

func nuevoConciliador(t *testing.T) (*Conciliador, *historialRepo.MemoryAggregateStore, *marcasRepo.MemoryMarkStore) {
	t.Helper()
	cal, err := civilday.NuevoProveedor("America/Lima", "23:59:59")
	require.NoError(t, err)

	historial := historialRepo.NewMemoryAggregateStore()
	marcas := marcasRepo.NewMemoryMarkStore()
	return &Conciliador{
		Marcas:      marcas,
		Historial:   historial,
		Calendario:  cal,
		Tolerancias: estado.ToleranciasPorDefecto(),
	}, historial, marcas
}

// millisLima arma un epoch millis para una hora local de Lima.
func millisLima(t *testing.T, y int, mes time.Month, d, h, m int) int64 {
	t.Helper()
	loc, err := time.LoadLocation("America/Lima")
	require.NoError(t, err)
	return time.Date(y, mes, d, h, m, 0, 0, loc).UnixMilli()
}

func TestConciliarCreaRegistrosYEsIdempotente(t *testing.T) {
	c, historial, _ := nuevoConciliador(t)
	ctx := context.Background()

	pares := []ParSnapshot{
		{Identidad: "12345678", Valor: marcasModel.ValorMarca{
			TimestampMillis: millisLima(t, 2025, 3, 10, 8, 4), OffsetSegundos: 240}},
		{Identidad: "87654321", Valor: marcasModel.ValorMarca{
			TimestampMillis: millisLima(t, 2025, 3, 10, 8, 10), OffsetSegundos: 600}},
	}

	res, err := c.Conciliar(ctx, "2025-03-10", estado.ModoEntrada, constants.RolAuxiliar, pares)
	require.NoError(t, err)
	assert.Equal(t, ResultadoConciliacion{Total: 2, Nuevos: 2}, res)

	// Ronda dos con el mismo snapshot: nada nuevo, contenido idéntico.
	res2, err := c.Conciliar(ctx, "2025-03-10", estado.ModoEntrada, constants.RolAuxiliar, pares)
	require.NoError(t, err)
	assert.Equal(t, ResultadoConciliacion{Total: 2, Nuevos: 0, Existentes: 2}, res2)

	reg, err := historial.GetDaily(ctx, constants.KindAuxiliar, estado.ModoEntrada, "12345678", "2025-03", 10)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, int64(240), reg.OffsetSegundos)
	assert.Equal(t, estado.EstadoTardanzaTolerada, reg.Estado)

	reg2, err := historial.GetDaily(ctx, constants.KindAuxiliar, estado.ModoEntrada, "87654321", "2025-03", 10)
	require.NoError(t, err)
	require.NotNil(t, reg2)
	assert.Equal(t, estado.EstadoTardanza, reg2.Estado)
}

func TestConciliarRechazaRolNoSoportado(t *testing.T) {
	c, _, _ := nuevoConciliador(t)

	_, err := c.Conciliar(context.Background(), "2025-03-10", estado.ModoEntrada, constants.RolDirector, nil)
	assert.ErrorIs(t, err, constants.ErrRolNoSoportado)

	_, err = c.Conciliar(context.Background(), "2025-03-10", estado.ModoEntrada, constants.RolEstudiante, nil)
	assert.ErrorIs(t, err, constants.ErrRolNoSoportado)
}

func TestConciliarMesDelTimestampNoDelReloj(t *testing.T) {
	c, historial, _ := nuevoConciliador(t)
	ctx := context.Background()

	// Marca del 31 de enero: se archiva en enero aunque "hoy" sea otro mes.
	pares := []ParSnapshot{{Identidad: "11112222", Valor: marcasModel.ValorMarca{
		TimestampMillis: millisLima(t, 2025, 1, 31, 7, 55), OffsetSegundos: -300}}}

	res, err := c.Conciliar(ctx, "2025-01-31", estado.ModoEntrada, constants.RolTutor, pares)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Nuevos)

	reg, err := historial.GetDaily(ctx, constants.KindProfesorSecundaria, estado.ModoEntrada, "11112222", "2025-01", 31)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, estado.EstadoPuntual, reg.Estado)
}

func TestConciliarFaltaExplicita(t *testing.T) {
	c, historial, _ := nuevoConciliador(t)
	ctx := context.Background()

	pares := []ParSnapshot{{Identidad: "33334444", Valor: marcasModel.ValorMarca{}}}

	res, err := c.Conciliar(ctx, "2025-03-10", estado.ModoEntrada, constants.RolAdministrativo, pares)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Nuevos)

	// El centinela no tiene timestamp: el día sale de la fecha del snapshot.
	reg, err := historial.GetDaily(ctx, constants.KindAdministrativo, estado.ModoEntrada, "33334444", "2025-03", 10)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, estado.EstadoFalta, reg.Estado)
}

// historialConIdentidadRota falla toda escritura de una identidad puntual,
// dejando pasar el resto del lote.
type historialConIdentidadRota struct {
	*historialRepo.MemoryAggregateStore
	identidadRota string
}

func (h *historialConIdentidadRota) PutDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int, reg historialModel.RegistroDiario, registroID *uuid.UUID) error {
	if identidad == h.identidadRota {
		return errors.New("database is locked")
	}
	return h.MemoryAggregateStore.PutDaily(ctx, kind, modo, identidad, mes, dia, reg, registroID)
}

func TestConciliarUnFalloNoAbortaElLote(t *testing.T) {
	cal, err := civilday.NuevoProveedor("America/Lima", "23:59:59")
	require.NoError(t, err)

	base := historialRepo.NewMemoryAggregateStore()
	c := &Conciliador{
		Marcas:      marcasRepo.NewMemoryMarkStore(),
		Historial:   &historialConIdentidadRota{MemoryAggregateStore: base, identidadRota: "22222222"},
		Calendario:  cal,
		Tolerancias: estado.ToleranciasPorDefecto(),
	}
	ctx := context.Background()

	pares := []ParSnapshot{
		{Identidad: "11111111", Valor: marcasModel.ValorMarca{
			TimestampMillis: millisLima(t, 2025, 3, 10, 7, 58), OffsetSegundos: -120}},
		{Identidad: "22222222", Valor: marcasModel.ValorMarca{
			TimestampMillis: millisLima(t, 2025, 3, 10, 8, 1), OffsetSegundos: 60}},
		{Identidad: "33333333", Valor: marcasModel.ValorMarca{
			TimestampMillis: millisLima(t, 2025, 3, 10, 8, 20), OffsetSegundos: 1200}},
	}

	res, err := c.Conciliar(ctx, "2025-03-10", estado.ModoEntrada, constants.RolAuxiliar, pares)
	require.NoError(t, err, "un registro caído no aborta el lote")
	assert.Equal(t, ResultadoConciliacion{Total: 3, Nuevos: 2, Fallidos: 1}, res)

	// Los sanos quedaron consolidados; el caído no dejó rastro.
	reg, err := base.GetDaily(ctx, constants.KindAuxiliar, estado.ModoEntrada, "11111111", "2025-03", 10)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, estado.EstadoPuntual, reg.Estado)

	roto, err := base.GetDaily(ctx, constants.KindAuxiliar, estado.ModoEntrada, "22222222", "2025-03", 10)
	require.NoError(t, err)
	assert.Nil(t, roto)

	// Una ronda posterior con el almacén sano completa al que faltaba.
	c.Historial = base
	res, err = c.Conciliar(ctx, "2025-03-10", estado.ModoEntrada, constants.RolAuxiliar, pares)
	require.NoError(t, err)
	assert.Equal(t, ResultadoConciliacion{Total: 3, Nuevos: 1, Existentes: 2}, res)
}

func TestConciliarCancelacionEntreRegistros(t *testing.T) {
	c, _, _ := nuevoConciliador(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pares := []ParSnapshot{{Identidad: "1", Valor: marcasModel.ValorMarca{TimestampMillis: 1, OffsetSegundos: 0}}}
	res, err := c.Conciliar(ctx, "2025-03-10", estado.ModoEntrada, constants.RolAuxiliar, pares)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, res.Nuevos)
}

func TestConciliarDesdeMarcas(t *testing.T) {
	c, historial, marcas := nuevoConciliador(t)
	ctx := context.Background()

	clave := marcasModel.ClaveMarca{
		Fecha: "2025-03-10", Modo: estado.ModoSalida, Actor: constants.RolAuxiliar, Identidad: "12345678",
	}
	creada, _, err := marcas.Put(ctx, clave, marcasModel.ValorMarca{
		TimestampMillis: millisLima(t, 2025, 3, 10, 13, 50), OffsetSegundos: -600}, 3600)
	require.NoError(t, err)
	require.True(t, creada)

	res, err := c.ConciliarDesdeMarcas(ctx, "2025-03-10", estado.ModoSalida, constants.RolAuxiliar)
	require.NoError(t, err)
	assert.Equal(t, ResultadoConciliacion{Total: 1, Nuevos: 1}, res)

	reg, err := historial.GetDaily(ctx, constants.KindAuxiliar, estado.ModoSalida, "12345678", "2025-03", 10)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, estado.EstadoSalidaAnticipadaTolerada, reg.Estado)
	assert.Equal(t, int64(-600), reg.OffsetSegundos)
}
