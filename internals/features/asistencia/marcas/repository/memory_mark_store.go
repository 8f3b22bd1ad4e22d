package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/marcas/model"
)

// MemoryMarkStore implementa MarkStore en memoria. Se usa como doble en
// tests y respeta el mismo contrato que la implementación Postgres,
// incluida la atomicidad del Put (mutex en lugar de ON CONFLICT).
type MemoryMarkStore struct {
	mu    sync.Mutex
	filas map[string]model.MarcaAsistenciaModel

	// Ahora permite congelar el reloj en tests; nil usa time.Now.
	Ahora func() time.Time
}

func NewMemoryMarkStore() *MemoryMarkStore {
	return &MemoryMarkStore{filas: make(map[string]model.MarcaAsistenciaModel)}
}

func (s *MemoryMarkStore) ahora() time.Time {
	if s.Ahora != nil {
		return s.Ahora()
	}
	return time.Now()
}

func (s *MemoryMarkStore) Put(ctx context.Context, clave model.ClaveMarca, valor model.ValorMarca, ttlSegundos int64) (bool, *model.ValorMarca, error) {
	if ttlSegundos < 1 {
		ttlSegundos = 1
	}
	if ttlSegundos > 86400 {
		ttlSegundos = 86400
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := clave.String()
	if existente, ok := s.filas[k]; ok && existente.MarcaExpiraEn.After(s.ahora()) {
		v := existente.Valor()
		return false, &v, nil
	}

	fila := model.MarcaAsistenciaModel{
		MarcaClave:           k,
		MarcaFecha:           clave.Fecha,
		MarcaModo:            string(clave.Modo),
		MarcaActor:           clave.Actor,
		MarcaIdentidad:       clave.Identidad,
		MarcaTimestampMillis: valor.TimestampMillis,
		MarcaOffsetSegundos:  valor.OffsetSegundos,
		MarcaEstado:          valor.Estado,
		MarcaExpiraEn:        s.ahora().Add(time.Duration(ttlSegundos) * time.Second),
		MarcaCreadaEn:        s.ahora(),
	}
	if clave.Nivel != "" {
		fila.MarcaNivel = &clave.Nivel
		fila.MarcaGrado = &clave.Grado
		fila.MarcaSeccion = &clave.Seccion
	}
	s.filas[k] = fila
	return true, nil, nil
}

func (s *MemoryMarkStore) Get(ctx context.Context, clave model.ClaveMarca) (*model.ValorMarca, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fila, ok := s.filas[clave.String()]
	if !ok || !fila.MarcaExpiraEn.After(s.ahora()) {
		return nil, nil
	}
	v := fila.Valor()
	return &v, nil
}

func (s *MemoryMarkStore) Exists(ctx context.Context, clave model.ClaveMarca) (bool, error) {
	v, err := s.Get(ctx, clave)
	return v != nil, err
}

func (s *MemoryMarkStore) ListByPrefix(ctx context.Context, fecha string, modo estado.Modo, actor string, identidad *string) ([]model.MarcaAsistenciaModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.MarcaAsistenciaModel
	for _, fila := range s.filas {
		if fila.MarcaFecha != fecha || fila.MarcaModo != string(modo) || fila.MarcaActor != actor {
			continue
		}
		if identidad != nil && fila.MarcaIdentidad != *identidad {
			continue
		}
		if !fila.MarcaExpiraEn.After(s.ahora()) {
			continue
		}
		out = append(out, fila)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MarcaIdentidad < out[j].MarcaIdentidad })
	return out, nil
}

func (s *MemoryMarkStore) Delete(ctx context.Context, clave model.ClaveMarca) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := clave.String()
	if _, ok := s.filas[k]; !ok {
		return false, nil
	}
	delete(s.filas, k)
	return true, nil
}
