package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/marcas/model"
	"asistencia_backend/internals/features/asistencia/marcas/repository"
	"asistencia_backend/internals/helpers/civilday"
)

func appDeMarcas(t *testing.T, marcas repository.MarkStore) *fiber.App {
	t.Helper()
	cal, err := civilday.NuevoProveedor("America/Lima", "23:59:59")
	require.NoError(t, err)

	ctrl := NewMarcaAsistenciaController(marcas, cal, estado.ToleranciasPorDefecto())
	app := fiber.New()
	app.Post("/asistencia/marcas", ctrl.MarcarAsistencia)
	return app
}

func postMarca(t *testing.T, app *fiber.App, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/asistencia/marcas", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

const bodyMarca = `{"fecha":"2025-03-10","modo":"entrada","actor":"auxiliar",` +
	`"identidad":"12345678","timestamp_millis":1741600000000,"offset_segundos":120}`

func TestMarcarAsistenciaCreaYDuplica(t *testing.T) {
	app := appDeMarcas(t, repository.NewMemoryMarkStore())

	status, out := postMarca(t, app, bodyMarca)
	assert.Equal(t, fiber.StatusCreated, status)
	data := out["data"].(map[string]any)
	assert.Equal(t, true, data["created"])

	// Doble marcado: 200 con lo ya almacenado, nunca sobrescribe.
	status, out = postMarca(t, app, bodyMarca)
	assert.Equal(t, fiber.StatusOK, status)
	data = out["data"].(map[string]any)
	assert.Equal(t, false, data["created"])
}

// marcasSinExistente simula la carrera en que el conflicto del Put no
// devuelve fila vigente (venció entre el INSERT y la relectura).
type marcasSinExistente struct {
	*repository.MemoryMarkStore
}

func (s *marcasSinExistente) Put(ctx context.Context, clave model.ClaveMarca, valor model.ValorMarca, ttlSegundos int64) (bool, *model.ValorMarca, error) {
	return false, nil, nil
}

func TestMarcarAsistenciaConflictoSinFilaNoPanic(t *testing.T) {
	app := appDeMarcas(t, &marcasSinExistente{repository.NewMemoryMarkStore()})

	status, out := postMarca(t, app, bodyMarca)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "STORAGE_RETRYABLE", out["error_code"])
}
