package constants

import (
	"errors"
	"fmt"
)

/* ==========================
   Roles (token del JWT / feed remoto)
========================== */

const (
	RolProfesorPrimaria   = "profesor_primaria"
	RolProfesorSecundaria = "profesor_secundaria"
	RolTutor              = "tutor"
	RolAuxiliar           = "auxiliar"
	RolAdministrativo     = "administrativo"
	RolEstudiante         = "estudiante"

	// Roles que existen en la institución pero no marcan asistencia
	// por este sistema. Se rechazan explícitamente, nunca se enrutan
	// a una partición "por defecto".
	RolDirector  = "director"
	RolApoderado = "apoderado"
)

/* ==========================
   PersonKind (partición del historial durable)
========================== */

type PersonKind string

const (
	KindProfesorPrimaria   PersonKind = "profesor_primaria"
	KindProfesorSecundaria PersonKind = "profesor_secundaria"
	KindAuxiliar           PersonKind = "auxiliar"
	KindAdministrativo     PersonKind = "administrativo"
)

var ErrRolNoSoportado = errors.New("rol no soportado para asistencia de personal")

// RolAPersonKind mapea un rol de personal a su partición del historial.
// Conjunto cerrado: un rol fuera de la lista devuelve ErrRolNoSoportado
// para que un rol nuevo jamás caiga en silencio en la partición equivocada.
func RolAPersonKind(rol string) (PersonKind, error) {
	switch rol {
	case RolProfesorPrimaria:
		return KindProfesorPrimaria, nil
	case RolProfesorSecundaria, RolTutor:
		return KindProfesorSecundaria, nil
	case RolAuxiliar:
		return KindAuxiliar, nil
	case RolAdministrativo:
		return KindAdministrativo, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrRolNoSoportado, rol)
	}
}

// EsPersonal indica si el rol marca asistencia como personal (vs estudiante).
func EsPersonal(rol string) bool {
	_, err := RolAPersonKind(rol)
	return err == nil
}

/* ==========================
   Grupos de roles (middleware)
========================== */

var (
	RolesPersonal = []string{
		RolProfesorPrimaria,
		RolProfesorSecundaria,
		RolTutor,
		RolAuxiliar,
		RolAdministrativo,
	}

	RolesAdministracion = []string{
		RolDirector,
		RolAdministrativo,
	}
)

// Plantillas de mensajes de error por rol
const (
	ErrSoloPersonal       = "Solo el personal de la institución puede acceder a %s."
	ErrSoloAdministracion = "Solo dirección o administración puede acceder a %s."
)

func RolErrorPersonal(recurso string) string {
	return fmt.Sprintf(ErrSoloPersonal, recurso)
}

func RolErrorAdministracion(recurso string) string {
	return fmt.Sprintf(ErrSoloAdministracion, recurso)
}
