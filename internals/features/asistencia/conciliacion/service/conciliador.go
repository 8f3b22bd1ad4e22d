// internals/features/asistencia/conciliacion/service/conciliador.go
package service

import (
	"context"
	"log"
	"strconv"

	"github.com/google/uuid"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	historialModel "asistencia_backend/internals/features/asistencia/historial/model"
	historialRepo "asistencia_backend/internals/features/asistencia/historial/repository"
	marcasModel "asistencia_backend/internals/features/asistencia/marcas/model"
	marcasRepo "asistencia_backend/internals/features/asistencia/marcas/repository"
	registroRepo "asistencia_backend/internals/features/asistencia/registro/repository"
	"asistencia_backend/internals/helpers/civilday"
)

// ParSnapshot es una entrada del snapshot remoto: identidad + valor de la
// marca, para un (fecha, modo, actor) fijo.
type ParSnapshot struct {
	Identidad string                 `json:"identidad"`
	Valor     marcasModel.ValorMarca `json:"valor"`
}

type ResultadoConciliacion struct {
	Total      int `json:"total"`
	Nuevos     int `json:"nuevos"`
	Existentes int `json:"existentes"`
	Fallidos   int `json:"fallidos"`
}

// Conciliador vuelca marcas efímeras al historial durable exactamente una
// vez. Es seguro invocarlo repetidas veces (el chequeo de día existente lo
// hace idempotente) y en paralelo con el marcado normal del día.
type Conciliador struct {
	Marcas      marcasRepo.MarkStore
	Historial   historialRepo.AggregateStore
	Registro    registroRepo.RecordIDProvider // opcional; nil = sin ids autoritativos
	Calendario  *civilday.Proveedor
	Tolerancias estado.Tolerancias
}

// Conciliar procesa un snapshot ya materializado. El actor debe mapear a
// una partición de personal; un rol no soportado rechaza el lote entero
// antes de tocar el historial.
func (c *Conciliador) Conciliar(ctx context.Context, fecha string, modo estado.Modo, actor string, pares []ParSnapshot) (ResultadoConciliacion, error) {
	res := ResultadoConciliacion{Total: len(pares)}

	kind, err := constants.RolAPersonKind(actor)
	if err != nil {
		return res, err
	}

	for _, par := range pares {
		// Cancelación gruesa: entre registros, nunca a mitad de un merge.
		if err := ctx.Err(); err != nil {
			return res, err
		}

		mes, dia := c.mesYDia(fecha, par.Valor)

		existente, err := c.Historial.GetDaily(ctx, kind, modo, par.Identidad, mes, dia)
		if err != nil {
			log.Printf("[WARN] conciliación %s/%s día %d: lectura falló: %v", par.Identidad, mes, dia, err)
			res.Fallidos++
			continue
		}
		if existente != nil {
			res.Existentes++
			continue
		}

		id := c.idAutoritativo(ctx, kind, modo, par.Identidad, mes)

		reg := historialModel.RegistroDiario{
			TimestampMillis: par.Valor.TimestampMillis,
			OffsetSegundos:  par.Valor.OffsetSegundos,
			Estado:          estado.DerivarMarca(modo, par.Valor.TimestampMillis, par.Valor.OffsetSegundos, c.Tolerancias),
		}
		if err := c.Historial.PutDaily(ctx, kind, modo, par.Identidad, mes, dia, reg, id); err != nil {
			log.Printf("[WARN] conciliación %s/%s día %d: escritura falló: %v", par.Identidad, mes, dia, err)
			res.Fallidos++
			continue
		}
		res.Nuevos++
	}
	return res, nil
}

// ConciliarDesdeMarcas arma el snapshot directamente del almacén efímero.
func (c *Conciliador) ConciliarDesdeMarcas(ctx context.Context, fecha string, modo estado.Modo, actor string) (ResultadoConciliacion, error) {
	filas, err := c.Marcas.ListByPrefix(ctx, fecha, modo, actor, nil)
	if err != nil {
		return ResultadoConciliacion{}, err
	}
	pares := make([]ParSnapshot, 0, len(filas))
	for _, fila := range filas {
		pares = append(pares, ParSnapshot{Identidad: fila.MarcaIdentidad, Valor: fila.Valor()})
	}
	return c.Conciliar(ctx, fecha, modo, actor, pares)
}

// idAutoritativo consulta el proveedor de registros definitivos. Es un
// dato opcional: si el proveedor falla o no existe el registro, el
// agregado se crea como nuevo sin id y se completa en una corrida futura.
func (c *Conciliador) idAutoritativo(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) *uuid.UUID {
	if c.Registro == nil {
		return nil
	}
	id, err := c.Registro.ObtenerID(ctx, kind, modo, identidad, mes)
	if err != nil {
		log.Printf("[WARN] proveedor de registro definitivo falló para %s/%s: %v", identidad, mes, err)
		return nil
	}
	return id
}

// mesYDia deriva mes y día del timestamp de la propia marca, nunca del
// reloj actual (cerca del cambio de mes "ahora" archiva en el mes
// equivocado). La falta explícita no tiene timestamp: usa la fecha civil
// del snapshot.
func (c *Conciliador) mesYDia(fechaSnapshot string, v marcasModel.ValorMarca) (string, int) {
	if v.EsFaltaExplicita() {
		mes := fechaSnapshot[:7]
		dia, _ := strconv.Atoi(fechaSnapshot[8:])
		return mes, dia
	}
	t := c.Calendario.DesdeMillis(v.TimestampMillis)
	return c.Calendario.MesCivil(t), c.Calendario.DiaDelMes(t)
}
