// internals/helpers/storageerr/storage_error.go
//
// Taxonomía de fallos de almacenamiento: un fallo transitorio (timeout,
// transacción abortada, base bloqueada) se puede reintentar; un fallo
// fatal (cuota llena, corrupción) termina la sesión del usuario antes de
// arriesgar más escrituras parciales sobre su historial.
package storageerr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type FalloAlmacen struct {
	Op    string // operación que falló, ej. "marcas.put"
	Fatal bool
	Err   error
}

func (f *FalloAlmacen) Error() string {
	sev := "transitorio"
	if f.Fatal {
		sev = "fatal"
	}
	return fmt.Sprintf("almacén (%s, %s): %v", f.Op, sev, f.Err)
}

func (f *FalloAlmacen) Unwrap() error { return f.Err }

// Códigos Postgres que implican datos en riesgo (clase 53 = recursos,
// XX = corrupción interna).
var pgFatales = map[string]bool{
	"53100": true, // disk_full
	"53200": true, // out_of_memory
	"XX000": true, // internal_error
	"XX001": true, // data_corrupted
	"XX002": true, // index_corrupted
}

// Clasificar envuelve un error del motor en un FalloAlmacen tipado.
// nil pasa de largo. Un error ya clasificado no se re-envuelve.
func Clasificar(op string, err error) error {
	if err == nil {
		return nil
	}
	var ya *FalloAlmacen
	if errors.As(err, &ya) {
		return err
	}

	fatal := false

	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		fatal = pgFatales[pgErr.Code]
	case esSQLiteFatal(err):
		fatal = true
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		fatal = false
	case errors.Is(err, gorm.ErrInvalidTransaction):
		fatal = false
	}

	return &FalloAlmacen{Op: op, Fatal: fatal, Err: err}
}

// mattn/go-sqlite3 no exporta códigos vía el driver de gorm, así que la
// detección va por mensaje. "database is locked" queda como transitorio.
func esSQLiteFatal(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database or disk is full") ||
		strings.Contains(msg, "disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

func EsFatal(err error) bool {
	var f *FalloAlmacen
	return errors.As(err, &f) && f.Fatal
}

func EsTransitorio(err error) bool {
	var f *FalloAlmacen
	return errors.As(err, &f) && !f.Fatal
}
