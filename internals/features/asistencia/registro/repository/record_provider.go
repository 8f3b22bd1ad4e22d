// internals/features/asistencia/registro/repository/record_provider.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asistencia_backend/internals/constants"
	"asistencia_backend/internals/features/asistencia/estado"
	"asistencia_backend/internals/features/asistencia/registro/model"
	"asistencia_backend/internals/helpers/storageerr"
)

// RecordIDProvider entrega el id autoritativo de un agregado mensual.
// ObtenerID devuelve nil cuando el registro definitivo aún no existe:
// el agregado se crea localmente como "nuevo, sin id autoritativo".
type RecordIDProvider interface {
	ObtenerID(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (*uuid.UUID, error)
	AsignarID(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (uuid.UUID, error)
}

type GormRecordProvider struct {
	DB *gorm.DB
}

func NewGormRecordProvider(db *gorm.DB) *GormRecordProvider {
	return &GormRecordProvider{DB: db}
}

func (p *GormRecordProvider) ObtenerID(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (*uuid.UUID, error) {
	var fila model.RegistroMensualModel
	err := p.DB.WithContext(ctx).
		First(&fila, "registro_person_kind = ? AND registro_modo = ? AND registro_identidad = ? AND registro_mes = ?",
			kind, string(modo), identidad, mes).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageerr.Clasificar("registro.obtener_id", err)
	}
	return &fila.RegistroID, nil
}

// AsignarID es idempotente: dos llamadas concurrentes para la misma clave
// terminan con el mismo id (ON CONFLICT DO NOTHING + relectura).
func (p *GormRecordProvider) AsignarID(ctx context.Context, kind constants.PersonKind, modo estado.Modo, identidad, mes string) (uuid.UUID, error) {
	fila := model.RegistroMensualModel{
		RegistroPersonKind: kind,
		RegistroModo:       string(modo),
		RegistroIdentidad:  identidad,
		RegistroMes:        mes,
	}
	res := p.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fila)
	if res.Error != nil {
		return uuid.Nil, storageerr.Clasificar("registro.asignar_id", res.Error)
	}
	if res.RowsAffected > 0 {
		return fila.RegistroID, nil
	}

	id, err := p.ObtenerID(ctx, kind, modo, identidad, mes)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, storageerr.Clasificar("registro.asignar_id", gorm.ErrRecordNotFound)
	}
	return *id, nil
}
