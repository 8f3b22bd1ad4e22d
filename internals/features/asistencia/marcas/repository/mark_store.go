// internals/features/asistencia/marcas/repository/mark_store.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/marcas/model"
	"asistencia_backend/internals/helpers/storageerr"
)

// MarkStore es el almacén efímero de marcas del día. Se inyecta en
// controllers y servicios para poder doblarlo en tests.
//
// Granularidades de listado:
//   - punto exacto: Get(clave)
//   - (fecha, modo, actor): ListByPrefix con identidad nil
//   - (fecha, modo, actor, identidad): ListByPrefix con identidad, para
//     estudiantes cuando nivel/grado/sección no se conocen.
type MarkStore interface {
	// Put registra la marca una sola vez por clave y día civil. Si la
	// clave ya existe y sigue vigente devuelve creada=false y el valor
	// almacenado, sin sobrescribir (el doble marcado no es un error).
	// Una fila vencida que la purga aún no retiró no bloquea: la clave
	// se readmite como si no existiera.
	Put(ctx context.Context, clave model.ClaveMarca, valor model.ValorMarca, ttlSegundos int64) (creada bool, existente *model.ValorMarca, err error)
	Get(ctx context.Context, clave model.ClaveMarca) (*model.ValorMarca, error)
	Exists(ctx context.Context, clave model.ClaveMarca) (bool, error)
	ListByPrefix(ctx context.Context, fecha string, modo estado.Modo, actor string, identidad *string) ([]model.MarcaAsistenciaModel, error)
	Delete(ctx context.Context, clave model.ClaveMarca) (bool, error)
}

/* ===============================
   Implementación GORM / Postgres
=============================== */

type GormMarkStore struct {
	DB *gorm.DB
}

func NewGormMarkStore(db *gorm.DB) *GormMarkStore {
	return &GormMarkStore{DB: db}
}

func (s *GormMarkStore) Put(ctx context.Context, clave model.ClaveMarca, valor model.ValorMarca, ttlSegundos int64) (bool, *model.ValorMarca, error) {
	if ttlSegundos < 1 {
		ttlSegundos = 1
	}
	if ttlSegundos > 86400 {
		ttlSegundos = 86400
	}

	fila := model.MarcaAsistenciaModel{
		MarcaClave:           clave.String(),
		MarcaFecha:           clave.Fecha,
		MarcaModo:            string(clave.Modo),
		MarcaActor:           clave.Actor,
		MarcaIdentidad:       clave.Identidad,
		MarcaTimestampMillis: valor.TimestampMillis,
		MarcaOffsetSegundos:  valor.OffsetSegundos,
		MarcaEstado:          valor.Estado,
		MarcaExpiraEn:        time.Now().Add(time.Duration(ttlSegundos) * time.Second),
	}
	if clave.Nivel != "" {
		fila.MarcaNivel = &clave.Nivel
		fila.MarcaGrado = &clave.Grado
		fila.MarcaSeccion = &clave.Seccion
	}

	// Check-and-set atómico en el motor: dos marcas casi simultáneas con
	// la misma clave producen exactamente un INSERT.
	res := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "marca_clave"}},
			DoNothing: true,
		}).
		Create(&fila)
	if res.Error != nil {
		return false, nil, storageerr.Clasificar("marcas.put", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil, nil
	}

	existente, err := s.Get(ctx, clave)
	if err != nil {
		return false, nil, err
	}
	if existente != nil {
		return false, existente, nil
	}

	// La fila en conflicto ya venció pero la purga aún no la retiró: la
	// clave vuelve a estar libre. Se elimina y se reintenta una vez.
	if _, err := s.Delete(ctx, clave); err != nil {
		return false, nil, err
	}
	res = s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "marca_clave"}},
			DoNothing: true,
		}).
		Create(&fila)
	if res.Error != nil {
		return false, nil, storageerr.Clasificar("marcas.put", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil, nil
	}

	// Otra marca ganó la carrera entre el borrado y el reintento.
	existente, err = s.Get(ctx, clave)
	if err != nil {
		return false, nil, err
	}
	return false, existente, nil
}

func (s *GormMarkStore) Get(ctx context.Context, clave model.ClaveMarca) (*model.ValorMarca, error) {
	var fila model.MarcaAsistenciaModel
	err := s.DB.WithContext(ctx).
		Where("marca_clave = ? AND marca_expira_en > NOW()", clave.String()).
		First(&fila).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageerr.Clasificar("marcas.get", err)
	}
	v := fila.Valor()
	return &v, nil
}

func (s *GormMarkStore) Exists(ctx context.Context, clave model.ClaveMarca) (bool, error) {
	var n int64
	err := s.DB.WithContext(ctx).
		Model(&model.MarcaAsistenciaModel{}).
		Where("marca_clave = ? AND marca_expira_en > NOW()", clave.String()).
		Count(&n).Error
	if err != nil {
		return false, storageerr.Clasificar("marcas.exists", err)
	}
	return n > 0, nil
}

func (s *GormMarkStore) ListByPrefix(ctx context.Context, fecha string, modo estado.Modo, actor string, identidad *string) ([]model.MarcaAsistenciaModel, error) {
	q := s.DB.WithContext(ctx).
		Where("marca_fecha = ? AND marca_modo = ? AND marca_actor = ? AND marca_expira_en > NOW()",
			fecha, string(modo), actor)
	if identidad != nil {
		q = q.Where("marca_identidad = ?", *identidad)
	}

	var filas []model.MarcaAsistenciaModel
	if err := q.Order("marca_identidad").Find(&filas).Error; err != nil {
		return nil, storageerr.Clasificar("marcas.list", err)
	}
	return filas, nil
}

func (s *GormMarkStore) Delete(ctx context.Context, clave model.ClaveMarca) (bool, error) {
	res := s.DB.WithContext(ctx).
		Where("marca_clave = ?", clave.String()).
		Delete(&model.MarcaAsistenciaModel{})
	if res.Error != nil {
		return false, storageerr.Clasificar("marcas.delete", res.Error)
	}
	return res.RowsAffected > 0, nil
}
