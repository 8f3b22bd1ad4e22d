// internals/features/asistencia/anulacion/service/anulador.go
package service

import (
	"context"
	"log"
	"strconv"

	"asistencia_backend/internals/constants"
	historialRepo "asistencia_backend/internals/features/asistencia/historial/repository"
	marcasModel "asistencia_backend/internals/features/asistencia/marcas/model"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	"asistencia_backend/internals/helpers/civilday"
)

// Motivos del resultado de anulación. La ventana vencida es un resultado
// normal, no un error.
const (
	MotivoAnulada        = "anulada"
	MotivoSinMarca       = "no hay marca vigente para anular"
	MotivoVentanaVencida = "ventana de anulación vencida"
	MotivoFalloMarca     = "no se pudo eliminar la marca remota"
	MotivoFalloHistorial = "marca eliminada pero el historial local falló; reintente para completar"
)

type ResultadoAnulacion struct {
	Success bool   `json:"success"`
	Motivo  string `json:"motivo"`

	// Desglose para que el caller sepa qué lado reintentar ante un
	// fallo parcial.
	MarcaEliminada    bool `json:"marca_eliminada"`
	RegistroEliminado bool `json:"registro_eliminado"`
}

// PuedeAnular decide si una marca sigue dentro de la ventana de anulación.
// Función total: una diferencia negativa (reloj adelantado) se trata como
// "no anulable", nunca como pánico.
func PuedeAnular(marcaMillis, ahoraMillis, maxMinutos int64) bool {
	delta := ahoraMillis - marcaMillis
	return delta >= 0 && delta <= maxMinutos*60_000
}

// Anulador retira una marca recién creada de ambos almacenes. El ciclo de
// una marca: sin marcar → marcada (anulable) → marcada (bloqueada) →
// conciliada o anulada; el bloqueo ocurre solo por tiempo transcurrido.
type Anulador struct {
	Marcas     marcasRepo.MarkStore
	Historial  historialRepo.AggregateStore
	Calendario *civilday.Proveedor
	MaxMinutos int64
}

func (a *Anulador) Anular(ctx context.Context, clave marcasModel.ClaveMarca, ahoraMillis int64) (ResultadoAnulacion, error) {
	valor, err := a.Marcas.Get(ctx, clave)
	if err != nil {
		return ResultadoAnulacion{Motivo: MotivoFalloMarca}, err
	}
	if valor == nil {
		return ResultadoAnulacion{Motivo: MotivoSinMarca}, nil
	}
	if !PuedeAnular(valor.TimestampMillis, ahoraMillis, a.MaxMinutos) {
		return ResultadoAnulacion{Motivo: MotivoVentanaVencida}, nil
	}

	eliminada, err := a.Marcas.Delete(ctx, clave)
	if err != nil {
		// Fallo total: la marca sigue en pie, no se toca el historial.
		return ResultadoAnulacion{Motivo: MotivoFalloMarca}, err
	}

	res := ResultadoAnulacion{MarcaEliminada: eliminada}

	// Si la conciliación ya materializó el día en el historial durable,
	// también hay que retirarlo de ahí.
	kind, kindErr := constants.RolAPersonKind(clave.Actor)
	if kindErr != nil {
		// Actor sin partición de personal (ej. estudiante): no hay lado
		// durable que limpiar en este motor.
		res.Success = true
		res.Motivo = MotivoAnulada
		return res, nil
	}

	// La falta explícita no tiene timestamp: el día sale de la clave.
	var (
		mes string
		dia int
	)
	if valor.EsFaltaExplicita() {
		mes = clave.Fecha[:7]
		dia, _ = strconv.Atoi(clave.Fecha[8:])
	} else {
		t := a.Calendario.DesdeMillis(valor.TimestampMillis)
		mes = a.Calendario.MesCivil(t)
		dia = a.Calendario.DiaDelMes(t)
	}

	regEliminado, err := a.Historial.DeleteDaily(ctx, kind, clave.Modo, clave.Identidad, mes, dia)
	if err != nil {
		// Fallo parcial: la marca ya no está pero el historial quedó.
		log.Printf("[WARN] anulación parcial %s: %v", clave.String(), err)
		res.Motivo = MotivoFalloHistorial
		return res, err
	}
	res.RegistroEliminado = regEliminado
	res.Success = true
	res.Motivo = MotivoAnulada
	return res, nil
}
