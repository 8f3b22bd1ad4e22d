package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/historial/model"
)

// MemoryAggregateStore implementa AggregateStore en memoria para tests.
// Mantiene la misma semántica de "leer agregado completo, mutar un día,
// escribir todo" que la implementación SQLite.
type MemoryAggregateStore struct {
	mu    sync.Mutex
	filas map[string]model.AgregadoMensualModel
}

func NewMemoryAggregateStore() *MemoryAggregateStore {
	return &MemoryAggregateStore{filas: make(map[string]model.AgregadoMensualModel)}
}

func claveAgregado(kind constants.PersonKind, modo estado.Modo, identidad, mes string) string {
	return fmt.Sprintf("%s|%s|%s|%s", kind, modo, identidad, mes)
}

func (s *MemoryAggregateStore) GetMonthly(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, knownID *uuid.UUID) (*model.AgregadoMensualModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if knownID != nil {
		for _, ag := range s.filas {
			if ag.AgregadoRegistroID != nil && *ag.AgregadoRegistroID == *knownID {
				copia := ag
				return &copia, nil
			}
		}
	}
	ag, ok := s.filas[claveAgregado(kind, modo, identidad, mes)]
	if !ok {
		return nil, nil
	}
	copia := ag
	return &copia, nil
}

func (s *MemoryAggregateStore) PutMonthly(ctx context.Context, ag *model.AgregadoMensualModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ag.AgregadoID == uuid.Nil {
		ag.AgregadoID = uuid.New()
	}
	s.filas[claveAgregado(ag.AgregadoPersonKind, estado.Modo(ag.AgregadoModo), ag.AgregadoIdentidad, ag.AgregadoMes)] = *ag
	return nil
}

func (s *MemoryAggregateStore) GetDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int) (*model.RegistroDiario, error) {
	ag, err := s.GetMonthly(ctx, kind, modo, identidad, mes, nil)
	if err != nil || ag == nil {
		return nil, err
	}
	reg, ok := ag.Dias()[dia]
	if !ok {
		return nil, nil
	}
	return &reg, nil
}

func (s *MemoryAggregateStore) PutDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int, reg model.RegistroDiario, registroID *uuid.UUID) error {
	if dia < 1 || dia > 31 {
		return fmt.Errorf("día del mes fuera de rango: %d", dia)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := claveAgregado(kind, modo, identidad, mes)
	ag, ok := s.filas[k]
	if !ok {
		ag = model.AgregadoMensualModel{
			AgregadoID:         uuid.New(),
			AgregadoRegistroID: registroID,
			AgregadoPersonKind: kind,
			AgregadoModo:       string(modo),
			AgregadoIdentidad:  identidad,
			AgregadoMes:        mes,
		}
	} else if ag.AgregadoRegistroID == nil && registroID != nil {
		ag.AgregadoRegistroID = registroID
	}

	dias := ag.Dias()
	dias[dia] = reg
	ag.SetDias(dias)
	s.filas[k] = ag
	return nil
}

func (s *MemoryAggregateStore) DeleteDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := claveAgregado(kind, modo, identidad, mes)
	ag, ok := s.filas[k]
	if !ok {
		return false, nil
	}
	dias := ag.Dias()
	if _, ok := dias[dia]; !ok {
		return false, nil
	}
	delete(dias, dia)
	ag.SetDias(dias)
	s.filas[k] = ag
	return true, nil
}

func (s *MemoryAggregateStore) DeleteMonthly(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := claveAgregado(kind, modo, identidad, mes)
	if _, ok := s.filas[k]; !ok {
		return false, nil
	}
	delete(s.filas, k)
	return true, nil
}

func (s *MemoryAggregateStore) ListMonthlyByMonth(ctx context.Context, kind constants.PersonKind, modo estado.Modo, mes string, limit, offset int) ([]model.AgregadoMensualModel, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var todos []model.AgregadoMensualModel
	for _, ag := range s.filas {
		if ag.AgregadoPersonKind == kind && ag.AgregadoModo == string(modo) && ag.AgregadoMes == mes {
			todos = append(todos, ag)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].AgregadoIdentidad < todos[j].AgregadoIdentidad })

	total := int64(len(todos))
	if offset >= len(todos) {
		return nil, total, nil
	}
	fin := offset + limit
	if limit <= 0 || fin > len(todos) {
		fin = len(todos)
	}
	return todos[offset:fin], total, nil
}
