package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/historial/repository"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	"asistencia_backend/internals/helpers/civilday"
)

func appDeHistorial(t *testing.T) (*fiber.App, *repository.MemoryAggregateStore) {
	t.Helper()
	cal, err := civilday.NuevoProveedor("America/Lima", "23:59:59")
	require.NoError(t, err)

	historial := repository.NewMemoryAggregateStore()
	ctrl := NewHistorialController(
		historial, marcasRepo.NewMemoryMarkStore(), nil, cal, estado.ToleranciasPorDefecto(),
	)

	app := fiber.New()
	app.Put("/asistencia/historial", ctrl.ActualizarMensual)
	app.Get("/asistencia/historial/dia", ctrl.ObtenerDia)
	app.Get("/asistencia/historial/mes", ctrl.ListarPorMes)
	return app, historial
}

func doJSON(t *testing.T, app *fiber.App, method, url, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return resp.StatusCode, out
}

// El feed definitivo es la única vía de entrada del estado "inactivo";
// la derivación local jamás lo produce.
func TestActualizarMensualVuelcaInactivo(t *testing.T) {
	app, _ := appDeHistorial(t)

	body := `{"rol":"auxiliar","modo":"entrada","identidad":"12345678","mes":"2025-02",` +
		`"dias":{"5":{"timestamp_millis":0,"offset_segundos":0,"estado":"inactivo"},` +
		`"6":{"timestamp_millis":1738846800000,"offset_segundos":-120,"estado":"puntual"}}}`
	status, _ := doJSON(t, app, "PUT", "/asistencia/historial", body)
	require.Equal(t, fiber.StatusOK, status)

	status, out := doJSON(t, app, "GET",
		"/asistencia/historial/dia?rol=auxiliar&modo=entrada&identidad=12345678&mes=2025-02&dia=5", "")
	require.Equal(t, fiber.StatusOK, status)
	data := out["data"].(map[string]any)
	assert.Equal(t, string(estado.EstadoInactivo), data["estado"])
}

func TestActualizarMensualConservaDiasNoEnviados(t *testing.T) {
	app, _ := appDeHistorial(t)

	primero := `{"rol":"auxiliar","modo":"entrada","identidad":"12345678","mes":"2025-02",` +
		`"dias":{"3":{"timestamp_millis":1738587600000,"offset_segundos":60,"estado":"tardanza_tolerada"}}}`
	status, _ := doJSON(t, app, "PUT", "/asistencia/historial", primero)
	require.Equal(t, fiber.StatusOK, status)

	segundo := `{"rol":"auxiliar","modo":"entrada","identidad":"12345678","mes":"2025-02",` +
		`"dias":{"10":{"timestamp_millis":0,"offset_segundos":0,"estado":"inactivo"}}}`
	status, _ = doJSON(t, app, "PUT", "/asistencia/historial", segundo)
	require.Equal(t, fiber.StatusOK, status)

	status, out := doJSON(t, app, "GET",
		"/asistencia/historial/dia?rol=auxiliar&modo=entrada&identidad=12345678&mes=2025-02&dia=3", "")
	require.Equal(t, fiber.StatusOK, status)
	data := out["data"].(map[string]any)
	assert.Equal(t, string(estado.EstadoTardanzaTolerada), data["estado"])
}

func TestActualizarMensualRechazaEstadoYRolInvalidos(t *testing.T) {
	app, _ := appDeHistorial(t)

	malEstado := `{"rol":"auxiliar","modo":"entrada","identidad":"12345678","mes":"2025-02",` +
		`"dias":{"5":{"timestamp_millis":0,"offset_segundos":0,"estado":"vacaciones"}}}`
	status, _ := doJSON(t, app, "PUT", "/asistencia/historial", malEstado)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	malRol := `{"rol":"director","modo":"entrada","identidad":"12345678","mes":"2025-02",` +
		`"dias":{"5":{"timestamp_millis":0,"offset_segundos":0,"estado":"inactivo"}}}`
	status, _ = doJSON(t, app, "PUT", "/asistencia/historial", malRol)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestConsultasRechazanMesMalFormado(t *testing.T) {
	app, _ := appDeHistorial(t)

	status, out := doJSON(t, app, "GET",
		"/asistencia/historial/dia?rol=auxiliar&modo=entrada&identidad=12345678&mes=2025-2&dia=5", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, false, out["success"])

	status, _ = doJSON(t, app, "GET",
		"/asistencia/historial/mes?rol=auxiliar&modo=entrada&mes=2025-2", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
