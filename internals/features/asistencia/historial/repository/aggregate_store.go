// internals/features/asistencia/historial/repository/aggregate_store.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/historial/model"
	"asistencia_backend/internals/helpers/storageerr"
)

// AggregateStore es el historial durable por (partición, modo, identidad,
// mes). No expone mutación parcial: escribir un día es leer el agregado
// completo (o sintetizar uno vacío), tocar esa casilla y grabar todo de
// vuelta, serializado por clave.
type AggregateStore interface {
	GetMonthly(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, knownID *uuid.UUID) (*model.AgregadoMensualModel, error)
	PutMonthly(ctx context.Context, ag *model.AgregadoMensualModel) error
	GetDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int) (*model.RegistroDiario, error)
	PutDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int, reg model.RegistroDiario, registroID *uuid.UUID) error
	DeleteDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int) (bool, error)
	DeleteMonthly(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (bool, error)
	ListMonthlyByMonth(ctx context.Context, kind constants.PersonKind, modo estado.Modo, mes string, limit, offset int) ([]model.AgregadoMensualModel, int64, error)
}

/* ===============================
   Implementación GORM / SQLite
=============================== */

type GormAggregateStore struct {
	DB *gorm.DB

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGormAggregateStore(db *gorm.DB) *GormAggregateStore {
	return &GormAggregateStore{DB: db, locks: make(map[string]*sync.Mutex)}
}

// lockFor serializa el read-modify-write por (kind, modo, identidad, mes).
// Agregados distintos avanzan en paralelo.
func (s *GormAggregateStore) lockFor(kind constants.PersonKind, modo estado.Modo, identidad, mes string) *sync.Mutex {
	clave := fmt.Sprintf("%s|%s|%s|%s", kind, modo, identidad, mes)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[clave]
	if !ok {
		l = &sync.Mutex{}
		s.locks[clave] = l
	}
	return l
}

func (s *GormAggregateStore) GetMonthly(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, knownID *uuid.UUID) (*model.AgregadoMensualModel, error) {
	var ag model.AgregadoMensualModel

	// Camino rápido: búsqueda por id autoritativo cuando el caller lo trae.
	if knownID != nil {
		err := s.DB.WithContext(ctx).
			First(&ag, "agregado_registro_id = ?", *knownID).Error
		if err == nil {
			return &ag, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageerr.Clasificar("historial.get_monthly", err)
		}
		// id aún no materializado localmente: cae al índice compuesto.
	}

	err := s.DB.WithContext(ctx).
		First(&ag, "agregado_person_kind = ? AND agregado_modo = ? AND agregado_identidad = ? AND agregado_mes = ?",
			kind, string(modo), identidad, mes).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageerr.Clasificar("historial.get_monthly", err)
	}
	return &ag, nil
}

func (s *GormAggregateStore) PutMonthly(ctx context.Context, ag *model.AgregadoMensualModel) error {
	l := s.lockFor(ag.AgregadoPersonKind, estado.Modo(ag.AgregadoModo), ag.AgregadoIdentidad, ag.AgregadoMes)
	l.Lock()
	defer l.Unlock()

	if ag.AgregadoID == uuid.Nil {
		ag.AgregadoID = uuid.New()
	}
	if err := s.DB.WithContext(ctx).Save(ag).Error; err != nil {
		return storageerr.Clasificar("historial.put_monthly", err)
	}
	return nil
}

func (s *GormAggregateStore) GetDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int) (*model.RegistroDiario, error) {
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

func (s *GormAggregateStore) PutDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int, reg model.RegistroDiario, registroID *uuid.UUID) error {
	if dia < 1 || dia > 31 {
		return fmt.Errorf("día del mes fuera de rango: %d", dia)
	}

	l := s.lockFor(kind, modo, identidad, mes)
	l.Lock()
	defer l.Unlock()

	ag, err := s.getMonthlyLocked(ctx, kind, modo, identidad, mes)
	if err != nil {
		return err
	}
	if ag == nil {
		// Primer registro del mes para esta persona/modo: se crea perezoso.
		ag = &model.AgregadoMensualModel{
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

	if err := s.DB.WithContext(ctx).Save(ag).Error; err != nil {
		return storageerr.Clasificar("historial.put_daily", err)
	}
	return nil
}

func (s *GormAggregateStore) DeleteDaily(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string, dia int) (bool, error) {
	l := s.lockFor(kind, modo, identidad, mes)
	l.Lock()
	defer l.Unlock()

	ag, err := s.getMonthlyLocked(ctx, kind, modo, identidad, mes)
	if err != nil || ag == nil {
		return false, err
	}
	dias := ag.Dias()
	if _, ok := dias[dia]; !ok {
		return false, nil
	}
	delete(dias, dia)
	ag.SetDias(dias)

	if err := s.DB.WithContext(ctx).Save(ag).Error; err != nil {
		return false, storageerr.Clasificar("historial.delete_daily", err)
	}
	return true, nil
}

func (s *GormAggregateStore) DeleteMonthly(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (bool, error) {
	l := s.lockFor(kind, modo, identidad, mes)
	l.Lock()
	defer l.Unlock()

	res := s.DB.WithContext(ctx).
		Where("agregado_person_kind = ? AND agregado_modo = ? AND agregado_identidad = ? AND agregado_mes = ?",
			kind, string(modo), identidad, mes).
		Delete(&model.AgregadoMensualModel{})
	if res.Error != nil {
		return false, storageerr.Clasificar("historial.delete_monthly", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormAggregateStore) ListMonthlyByMonth(ctx context.Context, kind constants.PersonKind, modo estado.Modo, mes string, limit, offset int) ([]model.AgregadoMensualModel, int64, error) {
	q := s.DB.WithContext(ctx).
		Model(&model.AgregadoMensualModel{}).
		Where("agregado_person_kind = ? AND agregado_modo = ? AND agregado_mes = ?", kind, string(modo), mes)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, storageerr.Clasificar("historial.list_monthly", err)
	}

	var filas []model.AgregadoMensualModel
	if err := q.Order("agregado_identidad").Limit(limit).Offset(offset).Find(&filas).Error; err != nil {
		return nil, 0, storageerr.Clasificar("historial.list_monthly", err)
	}
	return filas, total, nil
}

// getMonthlyLocked evita re-tomar el lock de clave desde PutDaily/DeleteDaily.
func (s *GormAggregateStore) getMonthlyLocked(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (*model.AgregadoMensualModel, error) {
	var ag model.AgregadoMensualModel
	err := s.DB.WithContext(ctx).
		First(&ag, "agregado_person_kind = ? AND agregado_modo = ? AND agregado_identidad = ? AND agregado_mes = ?",
			kind, string(modo), identidad, mes).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageerr.Clasificar("historial.get_monthly", err)
	}
	return &ag, nil
}
