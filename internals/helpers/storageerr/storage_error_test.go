package storageerr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClasificarNil(t *testing.T) {
	assert.Nil(t, Clasificar("marcas.put", nil))
}

func TestClasificarPostgres(t *testing.T) {
	lleno := &pgconn.PgError{Code: "53100", Message: "could not extend file"}
	err := Clasificar("marcas.put", lleno)
	assert.True(t, EsFatal(err))
	assert.False(t, EsTransitorio(err))

	serializacion := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	err = Clasificar("marcas.put", serializacion)
	assert.True(t, EsTransitorio(err))
	assert.False(t, EsFatal(err))
}

func TestClasificarSQLite(t *testing.T) {
	err := Clasificar("historial.put", errors.New("database or disk is full"))
	assert.True(t, EsFatal(err))

	err = Clasificar("historial.put", errors.New("database disk image is malformed"))
	assert.True(t, EsFatal(err))

	err = Clasificar("historial.put", errors.New("database is locked"))
	assert.True(t, EsTransitorio(err))
}

func TestClasificarContexto(t *testing.T) {
	err := Clasificar("marcas.get", context.DeadlineExceeded)
	assert.True(t, EsTransitorio(err))
}

func TestClasificarNoReEnvuelve(t *testing.T) {
	original := Clasificar("historial.put", errors.New("database or disk is full"))
	envuelto := Clasificar("reconcile", fmt.Errorf("merge día 12: %w", original))

	// No se apila un segundo FalloAlmacen encima del primero.
	var f *FalloAlmacen
	assert.True(t, errors.As(envuelto, &f))
	assert.Equal(t, "historial.put", f.Op)
	assert.True(t, EsFatal(envuelto))
}

func TestUnwrapConservaCausa(t *testing.T) {
	causa := &pgconn.PgError{Code: "XX001", Message: "data corrupted"}
	err := Clasificar("marcas.put", causa)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "XX001", pgErr.Code)
}
